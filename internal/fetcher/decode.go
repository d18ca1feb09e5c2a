package fetcher

import (
	"bytes"
	"fmt"
	"io"
	"mime"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// DecodeBody turns a raw list body into UTF-8 text.
// Gzip and zstd payloads are detected by their magic bytes, a charset in
// contentType is honoured and a leading UTF-8 BOM is dropped.
func DecodeBody(body []byte, contentType string) (string, error) {
	data, err := decompress(body)
	if err != nil {
		return "", err
	}

	data, err = toUTF8(data, contentType)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func decompress(body []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(body, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip body: %w", err)
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip body: %w", err)
		}
		return data, nil

	case bytes.HasPrefix(body, zstdMagic):
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer d.Close()

		data, err := d.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress zstd body: %w", err)
		}
		return data, nil
	}

	return body, nil
}

func toUTF8(data []byte, contentType string) ([]byte, error) {
	var dec transform.Transformer = unicode.UTF8BOM.NewDecoder()

	if label := charsetOf(contentType); label != "" {
		if enc, name := charset.Lookup(label); enc != nil && name != "utf-8" {
			dec = enc.NewDecoder()
		}
	}

	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	return out, nil
}

// charsetOf extracts the charset parameter of a Content-Type value
func charsetOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
