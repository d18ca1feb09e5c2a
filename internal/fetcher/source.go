package fetcher

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/quantmind-br/listaudit/internal/domain"
	"github.com/quantmind-br/listaudit/internal/utils"
)

// errNoFetcher is returned when a remote source is read without a fetcher
var errNoFetcher = errors.New("no fetcher configured for remote source")

// ReadLocal reads a list or manifest file from disk.
// Whitespace-only content yields domain.ErrEmptyList.
func ReadLocal(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	text, err := DecodeBody(data, "")
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyList
	}
	return text, nil
}

// FetchText downloads a remote list with a single Get.
// Whitespace-only bodies yield domain.ErrEmptyList.
func FetchText(ctx context.Context, f domain.Fetcher, url string) (string, error) {
	resp, err := f.Get(ctx, url)
	if err != nil {
		return "", err
	}

	text, err := DecodeBody(resp.Body, resp.ContentType)
	if err != nil {
		return "", domain.NewFetchError(url, resp.StatusCode, err)
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyList
	}
	return text, nil
}

// Read retrieves a source location: HTTP(S) URLs through f, anything else
// (plain paths and file:// URLs) from disk.
func Read(ctx context.Context, f domain.Fetcher, location string) (string, error) {
	if utils.IsHTTPURL(location) {
		if f == nil {
			return "", domain.NewFetchError(location, 0, errNoFetcher)
		}
		return FetchText(ctx, f, location)
	}
	return ReadLocal(utils.LocalPath(location))
}
