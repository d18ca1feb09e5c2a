// Package parser turns raw list documents into domain sets.
//
// Two line formats are understood: a bare domain per line, and hosts-file
// lines of the form "0.0.0.0 example.com". Anything after a '#' is a comment.
package parser

import (
	"strings"

	"github.com/quantmind-br/listaudit/internal/domain"
)

// Parse extracts the domains of a list document.
// Returns domain.ErrEmptyList when no line yields a domain.
func Parse(content string) (domain.DomainSet, error) {
	set := make(domain.DomainSet)

	for _, line := range strings.Split(content, "\n") {
		if d, ok := ParseLine(line); ok {
			set.Add(d)
		}
	}

	if set.Len() == 0 {
		return nil, domain.ErrEmptyList
	}
	return set, nil
}

// ParseLine returns the domain carried by a single line, if any.
// Lines with zero or more than two fields are ignored.
func ParseLine(line string) (string, bool) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	switch len(fields) {
	case 1:
		return fields[0], true
	case 2:
		return fields[1], true
	default:
		return "", false
	}
}
