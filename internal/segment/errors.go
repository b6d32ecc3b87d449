package segment

import "errors"

var (
	// ErrEmptyRaster indicates the input has no rows or no columns.
	ErrEmptyRaster = errors.New("segment: raster must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("segment: all rows must have the same length")
	// ErrNotBinary indicates a pixel value other than 0 or 1.
	ErrNotBinary = errors.New("segment: raster values must be 0 or 1")
	// ErrUnknownMethod indicates an unrecognised labeling method name.
	ErrUnknownMethod = errors.New("segment: unknown labeling method")
)
