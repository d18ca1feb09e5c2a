package utils

import (
	"net/url"
	"path/filepath"
	"strings"
)

// IsHTTPURL checks if a URL uses HTTP or HTTPS scheme and names a host
func IsHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsFileURL checks if a URL uses the file scheme
func IsFileURL(rawURL string) bool {
	return strings.HasPrefix(strings.ToLower(rawURL), "file://")
}

// LocalPath maps a source location to a filesystem path.
// file:// URLs lose their scheme; "file://lists/a.txt" is relative to the
// working directory while "file:///etc/hosts" is absolute.
func LocalPath(location string) string {
	if !IsFileURL(location) {
		return ExpandPath(location)
	}
	p := location[len("file://"):]
	if u, err := url.PathUnescape(p); err == nil {
		p = u
	}
	return filepath.FromSlash(p)
}

// RedactURL strips credentials and query from a URL for log output
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
