// Package manifest extracts blocklist source locations from a manifest
// document, usually the project's README.md.
//
// # Manifest Format
//
// The sources are the bullet items between two marker headings:
//
//	## Blocklists
//	- https://example.com/hosts.txt
//	- https://example.org/domains.txt
//	## Allowlists
//
// Blank lines, comment lines starting with '#' and any line not starting with
// "- " are ignored. Source locations are not validated.
//
// # Usage
//
//	loader := manifest.NewLoader()
//	sources, err := loader.Load("README.md")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Every content error wraps domain.ErrReadme:
//   - ErrBlocklistsMarker: the "## Blocklists" marker is missing
//   - ErrAllowlistsMarker: no "## Allowlists" marker follows it
//   - ErrNoSources: the section lists no sources
package manifest
