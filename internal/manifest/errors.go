package manifest

import (
	"fmt"

	"github.com/quantmind-br/listaudit/internal/domain"
)

// Sentinel errors for the manifest package
var (
	// ErrBlocklistsMarker indicates the blocklists heading is missing
	ErrBlocklistsMarker = fmt.Errorf("%w: missing %q marker", domain.ErrReadme, BlocklistsMarker)

	// ErrAllowlistsMarker indicates no allowlists heading follows the blocklists heading
	ErrAllowlistsMarker = fmt.Errorf("%w: missing %q marker", domain.ErrReadme, AllowlistsMarker)

	// ErrNoSources indicates the blocklists section lists no sources
	ErrNoSources = fmt.Errorf("%w: no blocklist sources listed", domain.ErrReadme)
)
