// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

// jpegDataURI encodes a test image as a JPEG data URI.
func jpegDataURI(t *testing.T, width, height int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(width, height), nil); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return EncodeDataURI(MimeTypeJPEG, buf.Bytes())
}

func TestProcessorIsImage(t *testing.T) {
	p := NewProcessor()

	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"application/pdf", false},
		{"application/octet-stream", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := p.IsImage(tt.mimeType); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatToMimeType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", MimeTypeJPEG},
		{"jpg", MimeTypeJPEG},
		{"png", MimeTypePNG},
		{"gif", MimeTypeGIF},
		{"webp", MimeTypeWebP},
		{"unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := formatToMimeType(tt.format); got != tt.want {
				t.Errorf("formatToMimeType(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	// Verify all orientation values transform without panicking.
	tests := []int{1, 2, 3, 4, 5, 6, 7, 8, 0, 9}

	for _, orientation := range tests {
		t.Run("orientation_"+string(rune('0'+orientation)), func(t *testing.T) {
			img := createTestImage(10, 10)
			result := applyOrientation(img, orientation)
			if result == nil {
				t.Error("applyOrientation returned nil")
			}
		})
	}
}

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{"valid jpeg", jpegDataURI(t, 4, 4), false},
		{"not a data uri", "http://example.com/image.jpg", true},
		{"missing comma", "data:image/jpeg;base64", true},
		{"not base64", "data:image/jpeg;utf8,hello", true},
		{"not an image", "data:text/plain;base64,aGVsbG8=", true},
		{"invalid base64", "data:image/jpeg;base64,!!!!", true},
		{"empty payload", "data:image/jpeg;base64,", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDataURI() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalize_SmallImageKeepsSize(t *testing.T) {
	p := NewProcessor()

	res, err := p.Normalize(jpegDataURI(t, 100, 60))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if res.Width != 100 || res.Height != 60 {
		t.Errorf("dimensions = %dx%d, want 100x60", res.Width, res.Height)
	}
	if res.MimeType != MimeTypeJPEG {
		t.Errorf("MimeType = %q, want %q", res.MimeType, MimeTypeJPEG)
	}
	if !strings.HasPrefix(res.DataURI, "data:image/jpeg;base64,") {
		t.Errorf("DataURI prefix wrong: %.40s", res.DataURI)
	}

	// Output must itself round-trip through the parser.
	if _, err := ParseDataURI(res.DataURI); err != nil {
		t.Errorf("normalized output does not parse: %v", err)
	}
}

func TestNormalize_LargeImageScaledDown(t *testing.T) {
	p := NewProcessor()
	p.maxDimension = 50

	res, err := p.Normalize(jpegDataURI(t, 200, 100))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if res.Width != 50 {
		t.Errorf("Width = %d, want 50", res.Width)
	}
	if res.Height != 25 {
		t.Errorf("Height = %d, want 25 (aspect ratio preserved)", res.Height)
	}
}

func TestNormalize_PNGStaysPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(10, 10)); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}

	p := NewProcessor()
	res, err := p.Normalize(EncodeDataURI(MimeTypePNG, buf.Bytes()))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if res.MimeType != MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", res.MimeType, MimeTypePNG)
	}
}

func TestNormalize_RejectsNonImagePayload(t *testing.T) {
	p := NewProcessor()

	// Valid data URI shape, but the payload is plain text.
	uri := "data:image/jpeg;base64,aGVsbG8gd29ybGQgdGhpcyBpcyBub3QgYW4gaW1hZ2U="
	if _, err := p.Normalize(uri); err == nil {
		t.Fatal("Normalize accepted a non-image payload")
	}
}
