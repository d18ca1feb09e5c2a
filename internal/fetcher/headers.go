package fetcher

import "github.com/quantmind-br/listaudit/pkg/version"

// DefaultUserAgent identifies the tool to list maintainers
func DefaultUserAgent() string {
	return "listaudit/" + version.Short()
}

// RequestHeaders returns the headers sent with every list request
func RequestHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = DefaultUserAgent()
	}

	return map[string]string{
		"User-Agent":    userAgent,
		"Accept":        "text/plain, */*;q=0.8",
		"Cache-Control": "no-cache",
	}
}
