// Package analyzer cross-references allow lists against block lists.
package analyzer

import "github.com/quantmind-br/listaudit/internal/domain"

// Counts summarizes the loaded lists
type Counts struct {
	AllowLists   int `json:"allow_lists" yaml:"allow_lists"`
	AllowDomains int `json:"allow_domains" yaml:"allow_domains"`
	BlockLists   int `json:"block_lists" yaml:"block_lists"`
	BlockDomains int `json:"block_domains" yaml:"block_domains"`
}

// UnmatchedEntries lists the allowed domains of one allow list that no
// block list contains
type UnmatchedEntries struct {
	List    string   `json:"list" yaml:"list"`
	Domains []string `json:"domains" yaml:"domains"`
}

// SubsetRelation records that every domain of Subset is also in Superset
type SubsetRelation struct {
	Subset   string `json:"subset" yaml:"subset"`
	Superset string `json:"superset" yaml:"superset"`
}

// Report is the result of a full analysis
type Report struct {
	Counts    Counts             `json:"counts" yaml:"counts"`
	Unmatched []UnmatchedEntries `json:"unmatched" yaml:"unmatched"`
	Subsets   []SubsetRelation   `json:"subsets" yaml:"subsets"`
}

// Summarize counts the lists and the distinct domains across each group
func Summarize(allow, block []domain.NamedDomainSet) Counts {
	return Counts{
		AllowLists:   len(allow),
		AllowDomains: domain.UnionOf(allow).Len(),
		BlockLists:   len(block),
		BlockDomains: domain.UnionOf(block).Len(),
	}
}

// UnmatchedAllowEntries returns, per allow list, the sorted domains absent
// from blockUnion. Allow lists fully covered by blockUnion are omitted.
func UnmatchedAllowEntries(allow []domain.NamedDomainSet, blockUnion domain.DomainSet) []UnmatchedEntries {
	var out []UnmatchedEntries
	for _, list := range allow {
		missing := list.Domains.Difference(blockUnion)
		if missing.Len() == 0 {
			continue
		}
		out = append(out, UnmatchedEntries{List: list.Name, Domains: missing.Sorted()})
	}
	return out
}

// RedundantBlockLists reports every ordered pair of block lists where the
// first is a subset of the second. Lists are compared by position, so equal
// sets appear in both directions and a repeated source is compared with
// its other occurrences.
func RedundantBlockLists(block []domain.NamedDomainSet) []SubsetRelation {
	var out []SubsetRelation
	for i, a := range block {
		for j, b := range block {
			if i == j {
				continue
			}
			if a.Domains.IsSubsetOf(b.Domains) {
				out = append(out, SubsetRelation{Subset: a.Name, Superset: b.Name})
			}
		}
	}
	return out
}

// Analyze runs the summary, the allow list check and the redundancy check
func Analyze(allow, block []domain.NamedDomainSet) *Report {
	return &Report{
		Counts:    Summarize(allow, block),
		Unmatched: UnmatchedAllowEntries(allow, domain.UnionOf(block)),
		Subsets:   RedundantBlockLists(block),
	}
}
