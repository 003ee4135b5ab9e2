package upload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngData = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 500*1024)...)
	pdfData = append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte{0x20}, 2048)...)
)

func TestValidateLogoAcceptsPNG(t *testing.T) {
	mime, err := ValidateLogo("logo.png", pngData)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestValidateLogoRejectsOversize(t *testing.T) {
	big := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 2*1024*1024)...)

	_, err := ValidateLogo("logo.png", big)
	require.ErrorIs(t, err, ErrLogoTooLarge)
}

func TestValidateLogoRejectsHTML(t *testing.T) {
	_, err := ValidateLogo("logo.png", []byte("<html><body>hi</body></html>"))
	require.ErrorIs(t, err, ErrLogoNotImage)
}

func TestValidateLogoRejectsSVG(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`)

	_, err := ValidateLogo("logo.svg", svg)
	require.ErrorIs(t, err, ErrLogoNotImage)
}

func TestValidateLogoAllowsWebpByExtension(t *testing.T) {
	// Content that sniffs as octet-stream but carries a known image extension.
	blob := bytes.Repeat([]byte{0xf7}, 64)

	mime, err := ValidateLogo("logo.webp", blob)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", mime)
}

func TestValidateContractAcceptsPDF(t *testing.T) {
	mime, err := ValidateContract("agreement.pdf", pdfData)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)
}

func TestValidateContractRejectsWrongExtension(t *testing.T) {
	_, err := ValidateContract("agreement.docx", pdfData)
	require.ErrorIs(t, err, ErrContractNotPDF)
}

func TestValidateContractRejectsDisguisedContent(t *testing.T) {
	_, err := ValidateContract("agreement.pdf", pngData)
	require.ErrorIs(t, err, ErrContractNotPDF)
}

func TestValidateContractRejectsOversize(t *testing.T) {
	big := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte{0x20}, 6*1024*1024)...)

	_, err := ValidateContract("agreement.pdf", big)
	require.ErrorIs(t, err, ErrContractTooLarge)
}
