package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	seg "github.com/ironsheep/segment-tools-mcp/internal/segment"
)

// ImageResult contains a rendered image encoded as base64 PNG.
type ImageResult struct {
	// Width of the output image in pixels.
	Width int `json:"width"`

	// Height of the output image in pixels.
	Height int `json:"height"`

	// ImageBase64 is the PNG encoding of the image in standard base64.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG result.
func EncodePNG(img image.Image) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// RenderMask draws r as a grayscale image: foreground white (255),
// background black (0).
func RenderMask(r *seg.Raster) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for i := 0; i < r.Height; i++ {
		for j := 0; j < r.Width; j++ {
			if r.At(i, j) != 0 {
				img.SetGray(j, i, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// Palette maps labels to display colors.
type Palette map[int]color.RGBA

// NewPalette draws a color for every positive label in labels from rng.
//
// Colors are sampled in HSV with full hue range and high saturation and
// value so neighboring components stay distinguishable. Label 0 is always
// pure black. Labels are visited in ascending order, so the same rng seed
// always gives the same palette. A nil rng uses a time-seeded source.
func NewPalette(labels seg.LabelSet, rng *rand.Rand) Palette {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p := make(Palette, len(labels)+1)
	for _, l := range labels.Sorted() {
		if l <= 0 {
			continue
		}
		c := colorful.Hsv(rng.Float64()*360, 0.55+rng.Float64()*0.45, 0.6+rng.Float64()*0.4)
		r, g, b := c.Clamped().RGB255()
		p[l] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	p[0] = color.RGBA{A: 255}
	return p
}

// Colorize renders a label map with one random color per component and
// black background.
//
// Only the distinction between 0 and positive labels is assumed; any label
// numbering works. Labels found in lm but missing from labels render black.
func Colorize(labels seg.LabelSet, lm *seg.LabelMap, rng *rand.Rand) *image.RGBA {
	p := NewPalette(labels, rng)
	img := image.NewRGBA(image.Rect(0, 0, lm.Width, lm.Height))
	for i := 0; i < lm.Height; i++ {
		for j := 0; j < lm.Width; j++ {
			c, ok := p[lm.At(i, j)]
			if !ok {
				c = p[0]
			}
			img.SetRGBA(j, i, c)
		}
	}
	return img
}
