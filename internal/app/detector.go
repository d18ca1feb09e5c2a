package app

import (
	"strings"

	"github.com/quantmind-br/listaudit/internal/utils"
)

// SourceKind represents how a list source is retrieved
type SourceKind string

const (
	SourceHTTP    SourceKind = "http"
	SourceFile    SourceKind = "file"
	SourceLocal   SourceKind = "local"
	SourceUnknown SourceKind = "unknown"
)

// DetectSourceKind determines how a source location is retrieved
func DetectSourceKind(location string) SourceKind {
	location = strings.TrimSpace(location)

	switch {
	case location == "":
		return SourceUnknown
	case utils.IsHTTPURL(location):
		return SourceHTTP
	case utils.IsFileURL(location):
		return SourceFile
	case strings.Contains(location, "://"):
		// Other schemes would be read as a local path and fail
		return SourceUnknown
	default:
		return SourceLocal
	}
}

// IsRemote reports whether sources of this kind need the network
func (k SourceKind) IsRemote() bool {
	return k == SourceHTTP
}
