package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/segment"

	seg "github.com/ironsheep/segment-tools-mcp/internal/segment"
)

// DefaultThreshold splits 8-bit luminance in half.
const DefaultThreshold uint8 = 128

// BinarizeOptions controls how an image becomes a binary raster.
type BinarizeOptions struct {
	// Threshold is the luminance level (0-255) separating the two classes.
	Threshold uint8

	// Invert selects bright pixels (luminance >= Threshold) as foreground.
	// By default dark pixels are foreground, which suits ink on paper.
	Invert bool
}

// Binarize converts img into a binary raster.
//
// Luminance is thresholded with bild's segment.Threshold, which yields white
// for pixels at or above the level and black below it. Fully transparent
// pixels count as white. Row i of the raster is image row Min.Y+i.
func Binarize(img image.Image, opts BinarizeOptions) *seg.Raster {
	gray := segment.Threshold(img, opts.Threshold)
	b := gray.Bounds()

	r := seg.NewRaster(b.Dy(), b.Dx())
	for i := 0; i < b.Dy(); i++ {
		row := gray.Pix[i*gray.Stride : i*gray.Stride+b.Dx()]
		for j, v := range row {
			white := v == 0xFF
			if white == opts.Invert {
				r.Set(i, j, 1)
			}
		}
	}
	return r
}
