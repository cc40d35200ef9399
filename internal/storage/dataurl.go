package storage

import (
	"encoding/base64"
	"errors"
	"mime"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid base64 data")

// EncodeDataURL returns data as a "data:<mime>;base64,<payload>" string.
func EncodeDataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL parses a base64 data URL and returns its media type (without
// parameters) and the decoded bytes.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}

	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}

	header, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}

	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || !strings.Contains(mediaType, "/") {
		return "", nil, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidDataURL
	}

	return mediaType, data, nil
}
