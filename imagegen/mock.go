// Package imagegen implements the AI service layer for both generation
// services: the remote model provider, the local mock renderer, the prompt
// builders, and the orchestration that falls back from one to the other.
package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Mock canvas geometry and caption layout.
const (
	mockWidth  = 512
	mockHeight = 512

	// captionMaxLineLen is the word-wrap threshold for caption lines.
	captionMaxLineLen = 40

	// captionMaxLines bounds how much of the label is drawn.
	captionMaxLines = 3

	captionLeft       = 20
	captionTop        = 200
	captionLineHeight = 30
)

// fallbackCaption is drawn when the label yields no printable lines.
const fallbackCaption = "AI Generated Image"

// trailerCaption is always drawn under the label lines.
const trailerCaption = "Generated with AI"

// MockRenderer synthesizes a placeholder image entirely locally. It is used
// when no remote credential is configured or when the remote call fails,
// and it must succeed for arbitrary input so the service layer can promise
// its callers an image.
//
// The output is reproducible: the gradient depends only on the pixel column,
// and the caption is laid out deterministically from the label.
type MockRenderer struct{}

// NewMockRenderer creates a mock renderer.
func NewMockRenderer() *MockRenderer {
	return &MockRenderer{}
}

// Render produces a 512x512 PNG placeholder: a banded indigo gradient with
// the label word-wrapped onto it as a caption.
//
// Render never fails on input content - empty, very long, and non-ASCII
// labels all produce a valid image. The only error path is PNG encoding,
// which cannot be provoked by the label and indicates a bug in this package.
func (m *MockRenderer) Render(label string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, mockWidth, mockHeight))

	// Horizontal banded gradient in 10px columns. Derived from the column
	// index only, so two renders of any labels share the background.
	for x := 0; x < mockWidth; x += 10 {
		band := color.RGBA{
			R: uint8(75 + x/10),
			G: uint8(70 + x/15),
			B: uint8(229 - x/20),
			A: 255,
		}
		for dx := 0; dx < 10 && x+dx < mockWidth; dx++ {
			for y := 0; y < mockHeight; y++ {
				img.SetRGBA(x+dx, y, band)
			}
		}
	}

	lines := wrapCaption(label, captionMaxLineLen, captionMaxLines)
	if len(lines) == 0 {
		lines = []string{fallbackCaption}
	}

	white := color.RGBA{255, 255, 255, 255}
	lightGray := color.RGBA{211, 211, 211, 255}

	y := captionTop
	for _, line := range lines {
		drawText(img, line, captionLeft, y, white)
		y += captionLineHeight
	}
	drawText(img, trailerCaption, captionLeft, y+20, lightGray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imagegen: failed to encode mock image: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapCaption splits the label into word-wrapped lines. Words that would
// push a line past maxLen start a new line; words longer than maxLen are
// hard-cut so the caption stays on the canvas. At most maxLines lines are
// returned.
func wrapCaption(label string, maxLen, maxLines int) []string {
	words := strings.Fields(label)
	var lines []string
	current := ""

	for _, word := range words {
		if len(word) > maxLen {
			word = word[:maxLen]
		}
		if current == "" {
			current = word
			continue
		}
		if len(current)+1+len(word) < maxLen {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

// drawText renders a single caption line at (x, y) using the fixed-size
// bitmap face from golang.org/x/image. Glyphs missing from the face (e.g.
// non-ASCII runes) are skipped by the drawer rather than failing.
func drawText(img *image.RGBA, text string, x, y int, clr color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
