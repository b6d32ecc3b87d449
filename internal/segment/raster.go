package segment

import (
	"fmt"
	"sort"
	"strings"
)

// Raster is a binary image stored row-major. Pixels are 0 (background) or
// 1 (foreground); other values are a caller error and are not checked by the
// labelers or the thinning engine.
type Raster struct {
	Height int
	Width  int
	Pix    []uint8
}

// NewRaster returns an all-background raster of the given size. It panics
// if either dimension is negative.
func NewRaster(height, width int) *Raster {
	if height < 0 || width < 0 {
		panic(fmt.Sprintf("segment: negative raster size %dx%d", height, width))
	}
	return &Raster{
		Height: height,
		Width:  width,
		Pix:    make([]uint8, height*width),
	}
}

// FromRows builds a raster from a 2-D slice, one inner slice per row.
//
// Returns ErrEmptyRaster when rows is empty or the first row has no columns,
// and ErrNonRectangular when rows differ in length.
func FromRows(rows [][]uint8) (*Raster, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyRaster
	}
	r := NewRaster(len(rows), len(rows[0]))
	for i, row := range rows {
		if len(row) != r.Width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrNonRectangular, i, len(row), r.Width)
		}
		copy(r.Pix[i*r.Width:], row)
	}
	return r, nil
}

// InBounds reports whether (i, j) addresses a pixel of r.
func (r *Raster) InBounds(i, j int) bool {
	return i >= 0 && i < r.Height && j >= 0 && j < r.Width
}

// At returns the pixel at row i, column j.
func (r *Raster) At(i, j int) uint8 {
	return r.Pix[i*r.Width+j]
}

// Set stores v at row i, column j.
func (r *Raster) Set(i, j int, v uint8) {
	r.Pix[i*r.Width+j] = v
}

// Clone returns a deep copy of r.
func (r *Raster) Clone() *Raster {
	out := &Raster{Height: r.Height, Width: r.Width, Pix: make([]uint8, len(r.Pix))}
	copy(out.Pix, r.Pix)
	return out
}

// Equal reports whether r and o have the same shape and pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r.Height != o.Height || r.Width != o.Width {
		return false
	}
	for k := range r.Pix {
		if r.Pix[k] != o.Pix[k] {
			return false
		}
	}
	return true
}

// Foreground counts the pixels equal to 1.
func (r *Raster) Foreground() int {
	n := 0
	for _, v := range r.Pix {
		if v == 1 {
			n++
		}
	}
	return n
}

// Validate checks that every pixel is 0 or 1. The algorithms in this package
// assume a valid raster and never call it themselves.
func (r *Raster) Validate() error {
	if len(r.Pix) != r.Height*r.Width {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrNonRectangular, len(r.Pix), r.Height, r.Width)
	}
	for k, v := range r.Pix {
		if v > 1 {
			return fmt.Errorf("%w: value %d at (%d,%d)", ErrNotBinary, v, k/r.Width, k%r.Width)
		}
	}
	return nil
}

// String renders the raster with '#' for foreground and '.' for background.
func (r *Raster) String() string {
	var b strings.Builder
	for i := 0; i < r.Height; i++ {
		for j := 0; j < r.Width; j++ {
			if r.At(i, j) != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// LabelMap holds one integer label per raster pixel. 0 is background; a
// positive value identifies a connected component.
type LabelMap struct {
	Height int
	Width  int
	Labels []int
}

// NewLabelMap returns an all-zero label map. It panics if either
// dimension is negative.
func NewLabelMap(height, width int) *LabelMap {
	if height < 0 || width < 0 {
		panic(fmt.Sprintf("segment: negative label map size %dx%d", height, width))
	}
	return &LabelMap{
		Height: height,
		Width:  width,
		Labels: make([]int, height*width),
	}
}

// At returns the label at row i, column j.
func (m *LabelMap) At(i, j int) int {
	return m.Labels[i*m.Width+j]
}

// Set stores label at row i, column j.
func (m *LabelMap) Set(i, j, label int) {
	m.Labels[i*m.Width+j] = label
}

// Foreground returns the raster of cells carrying a positive label.
func (m *LabelMap) Foreground() *Raster {
	r := NewRaster(m.Height, m.Width)
	for k, l := range m.Labels {
		if l > 0 {
			r.Pix[k] = 1
		}
	}
	return r
}

// LabelSet is the set of distinct labels produced by a labeler.
type LabelSet map[int]struct{}

// Add inserts label into the set.
func (s LabelSet) Add(label int) {
	s[label] = struct{}{}
}

// Has reports whether label is in the set.
func (s LabelSet) Has(label int) bool {
	_, ok := s[label]
	return ok
}

// Len returns the number of labels, including 0 when present.
func (s LabelSet) Len() int {
	return len(s)
}

// Sorted returns the labels in ascending order.
func (s LabelSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// Components returns the number of labels that denote real components,
// i.e. excluding the reserved 0.
func (s LabelSet) Components() int {
	if s.Has(0) {
		return len(s) - 1
	}
	return len(s)
}
