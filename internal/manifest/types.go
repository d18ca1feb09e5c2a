package manifest

import "strings"

// Section markers
const (
	BlocklistsMarker = "## Blocklists"
	AllowlistsMarker = "## Allowlists"
)

// itemPrefix starts every source line
const itemPrefix = "- "

// Section is the raw text lines between the two markers
type Section []string

// sectionOf cuts the blocklists section out of a manifest document
func sectionOf(text string) (Section, error) {
	_, rest, found := strings.Cut(text, BlocklistsMarker)
	if !found {
		return nil, ErrBlocklistsMarker
	}
	body, _, found := strings.Cut(rest, AllowlistsMarker)
	if !found {
		return nil, ErrAllowlistsMarker
	}
	return Section(strings.Split(body, "\n")), nil
}

// Sources returns the source locations listed in the section, in order
func (s Section) Sources() []string {
	var sources []string
	for _, line := range s {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || !strings.HasPrefix(line, itemPrefix) {
			continue
		}
		_, source, _ := strings.Cut(line, itemPrefix)
		sources = append(sources, source)
	}
	return sources
}
