package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in image coordinates: (X1, Y1) inclusive,
// (X2, Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Prepare narrows img to the pixels that will be segmented.
//
// Parameters:
//   - img: Source image.
//   - region: Optional sub-rectangle to keep. Nil keeps the whole image.
//   - maxDim: When > 0, images whose longer side exceeds maxDim are shrunk
//     with nearest-neighbor sampling, which keeps binary edges crisp.
//
// The returned image always has its origin at (0, 0).
//
// # Errors
//
//   - Returns error if the region is outside the image bounds
//   - Returns error if the region is empty (X1 >= X2 or Y1 >= Y2)
func Prepare(img image.Image, region *Region, maxDim int) (image.Image, error) {
	bounds := img.Bounds()
	out := img

	if region != nil {
		if region.X1 < bounds.Min.X || region.Y1 < bounds.Min.Y || region.X2 > bounds.Max.X || region.Y2 > bounds.Max.Y {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				region.X1, region.Y1, region.X2, region.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
		if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
			return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
		out = imaging.Crop(img, region.Rect())
	}

	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	if maxDim > 0 && (w > maxDim || h > maxDim) {
		// Fit keeps the aspect ratio and never enlarges.
		out = imaging.Fit(out, maxDim, maxDim, imaging.NearestNeighbor)
	}

	if out.Bounds().Min != (image.Point{}) {
		out = imaging.Clone(out)
	}
	return out, nil
}
