// Package dataurl encodes and decodes the inline base64 data URIs the
// console stores for client logos and contract documents.
package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid data URL")

// Encode builds a data URI from a mime type and raw bytes.
func Encode(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode splits a data URI into its mime type and raw bytes.
func Decode(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(dataURL[len("data:"):], ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mimeType, encoded := strings.CutSuffix(meta, ";base64")
	if !encoded {
		return "", nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrInvalidDataURL
	}
	return mimeType, data, nil
}

// MimeType returns only the mime type of a data URI, or "" when malformed.
func MimeType(dataURL string) string {
	mt, _, err := Decode(dataURL)
	if err != nil {
		return ""
	}
	return mt
}
