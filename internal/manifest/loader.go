package manifest

import (
	"fmt"

	"github.com/quantmind-br/listaudit/internal/fetcher"
)

// Loader loads blocklist sources from manifest files
type Loader struct{}

// NewLoader creates a new manifest loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the manifest at path and extracts its blocklist sources
func (l *Loader) Load(path string) ([]string, error) {
	text, err := fetcher.ReadLocal(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	return ExtractSources(text)
}

// ExtractSources returns the blocklist sources listed between the
// blocklists and allowlists markers of a manifest document
func ExtractSources(text string) ([]string, error) {
	section, err := sectionOf(text)
	if err != nil {
		return nil, err
	}

	sources := section.Sources()
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	return sources, nil
}
