package upload

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// Fixed ceilings for inline-encoded uploads. Everything is held in memory
// and persisted as a data URI, so the limits are deliberately small.
const (
	MaxLogoBytes     = 1 * 1024 * 1024
	MaxContractBytes = 5 * 1024 * 1024
)

var (
	ErrLogoNotImage     = errors.New("Only image files are allowed for the logo.")
	ErrLogoTooLarge     = errors.New("Logo file size cannot exceed 1MB.")
	ErrContractNotPDF   = errors.New("Only PDF files are allowed for contracts.")
	ErrContractTooLarge = errors.New("Contract file size cannot exceed 5MB.")
)

// ValidateLogo checks the provided filename and content against the logo
// constraints (any image type, 1 MiB ceiling). Returns the detected mime.
func ValidateLogo(filename string, data []byte) (string, error) {
	if len(data) > MaxLogoBytes {
		return "", ErrLogoTooLarge
	}

	detected := http.DetectContentType(head(data))

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", ErrLogoNotImage
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		// Block SVG/XML until a sanitizer is available
		return "", ErrLogoNotImage
	}

	if strings.HasPrefix(detected, "image/") {
		return detected, nil
	}

	// Some formats (e.g., AVIF) may return octet-stream depending on Go
	// version; allow by extension
	ext := strings.ToLower(filepath.Ext(filename))
	if detected == "application/octet-stream" && (ext == ".avif" || ext == ".webp") {
		return "image/" + ext[1:], nil
	}

	return "", ErrLogoNotImage
}

// ValidateContract checks the provided filename and content against the
// contract constraints (PDF only, 5 MiB ceiling). Returns the mime type.
func ValidateContract(filename string, data []byte) (string, error) {
	if len(data) > MaxContractBytes {
		return "", ErrContractTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".pdf" {
		return "", ErrContractNotPDF
	}

	detected := http.DetectContentType(head(data))
	if detected != "application/pdf" {
		return "", ErrContractNotPDF
	}

	return "application/pdf", nil
}

// head returns the sniffing window DetectContentType actually looks at.
func head(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}
