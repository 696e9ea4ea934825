package imagegen

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // registered for normalization of non-PNG provider output
	"image/png"
)

// PNG magic bytes for file identification
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Image validation errors
var (
	ErrImageEmpty      = errors.New("imagegen: image data is empty")
	ErrImageNotPNG     = errors.New("imagegen: image data is not a valid PNG")
	ErrImageTooSmall   = errors.New("imagegen: image data too small to be valid")
	ErrImageDecodeFail = errors.New("imagegen: failed to decode image")
)

// IsPNG checks if the given data starts with PNG magic bytes.
// This is a pure function with no side effects.
func IsPNG(data []byte) bool {
	if len(data) < len(pngMagic) {
		return false
	}
	return bytes.Equal(data[:len(pngMagic)], pngMagic)
}

// ValidateImageData validates that data is a valid PNG image.
// Returns nil if valid, error otherwise.
func ValidateImageData(data []byte) error {
	if len(data) == 0 {
		return ErrImageEmpty
	}

	// Minimum PNG file size (signature + IHDR + IEND chunks)
	if len(data) < 45 {
		return ErrImageTooSmall
	}

	if !IsPNG(data) {
		return ErrImageNotPNG
	}

	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrImageDecodeFail, err)
	}

	return nil
}

// NormalizePNG converts arbitrary image bytes to PNG. Data that is already a
// PNG is returned unchanged; other registered formats (JPEG) are decoded and
// re-encoded. PNG is the only representation persisted or transmitted.
func NormalizePNG(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrImageEmpty
	}
	if IsPNG(data) {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecodeFail, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imagegen: failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeImageBase64 renders PNG bytes as the base64 text form used in JSON
// responses and document storage.
func EncodeImageBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeImageBase64 reverses EncodeImageBase64.
func DecodeImageBase64(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("imagegen: invalid base64 image data: %w", err)
	}
	return data, nil
}
