package domain

import "sort"

// DomainSet is a deduplicated collection of domain names
type DomainSet map[string]struct{}

// NewDomainSet builds a set from the given domains
func NewDomainSet(domains ...string) DomainSet {
	s := make(DomainSet, len(domains))
	for _, d := range domains {
		s[d] = struct{}{}
	}
	return s
}

// Add inserts a domain
func (s DomainSet) Add(d string) {
	s[d] = struct{}{}
}

// Has reports whether d is in the set
func (s DomainSet) Has(d string) bool {
	_, ok := s[d]
	return ok
}

// Len returns the number of domains
func (s DomainSet) Len() int {
	return len(s)
}

// Sorted returns the domains in lexical order
func (s DomainSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// IsSubsetOf reports whether every domain of s is also in other
func (s DomainSet) IsSubsetOf(other DomainSet) bool {
	if len(s) > len(other) {
		return false
	}
	for d := range s {
		if !other.Has(d) {
			return false
		}
	}
	return true
}

// Difference returns the domains of s that are not in other
func (s DomainSet) Difference(other DomainSet) DomainSet {
	out := make(DomainSet)
	for d := range s {
		if !other.Has(d) {
			out.Add(d)
		}
	}
	return out
}

// Union merges any number of sets into a new one
func Union(sets ...DomainSet) DomainSet {
	out := make(DomainSet)
	for _, s := range sets {
		for d := range s {
			out.Add(d)
		}
	}
	return out
}

// NamedDomainSet is a loaded list: its source identifier and its domains.
// Domains is never empty.
type NamedDomainSet struct {
	Name    string
	Domains DomainSet
}

// UnionOf merges the domains of all named sets
func UnionOf(lists []NamedDomainSet) DomainSet {
	sets := make([]DomainSet, len(lists))
	for i, l := range lists {
		sets[i] = l.Domains
	}
	return Union(sets...)
}
