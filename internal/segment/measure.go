package segment

import (
	"image"
	"math"
	"sort"
)

// Point is a sub-pixel position; X is the column, Y the row.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Component summarizes one labeled region.
type Component struct {
	// Label is the component id from the label map.
	Label int `json:"label"`

	// Area is the number of pixels carrying Label.
	Area int `json:"area"`

	// Bounds is the bounding box in image coordinates (X = column, Y = row),
	// Min inclusive, Max exclusive.
	Bounds image.Rectangle `json:"bounds"`

	// Centroid is the mean pixel position, rounded to two decimals.
	Centroid Point `json:"centroid"`
}

// Measure returns one Component per positive label in lm, sorted by label.
func Measure(lm *LabelMap) []Component {
	type acc struct {
		area       int
		sumX, sumY int
		bounds     image.Rectangle
	}
	byLabel := make(map[int]*acc)

	for i := 0; i < lm.Height; i++ {
		for j := 0; j < lm.Width; j++ {
			l := lm.At(i, j)
			if l <= 0 {
				continue
			}
			px := image.Rect(j, i, j+1, i+1)
			a, ok := byLabel[l]
			if !ok {
				a = &acc{bounds: px}
				byLabel[l] = a
			}
			a.area++
			a.sumX += j
			a.sumY += i
			a.bounds = a.bounds.Union(px)
		}
	}

	out := make([]Component, 0, len(byLabel))
	for l, a := range byLabel {
		out = append(out, Component{
			Label:  l,
			Area:   a.area,
			Bounds: a.bounds,
			Centroid: Point{
				X: math.Round(float64(a.sumX)/float64(a.area)*100) / 100,
				Y: math.Round(float64(a.sumY)/float64(a.area)*100) / 100,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}

// Filter returns a copy of lm in which every component smaller than minArea
// pixels is relabeled as background.
func Filter(lm *LabelMap, minArea int) *LabelMap {
	area := make(map[int]int)
	for _, l := range lm.Labels {
		if l > 0 {
			area[l]++
		}
	}
	out := NewLabelMap(lm.Height, lm.Width)
	for k, l := range lm.Labels {
		if l > 0 && area[l] >= minArea {
			out.Labels[k] = l
		}
	}
	return out
}

// Distinct returns the set of positive labels present in m.
func (m *LabelMap) Distinct() LabelSet {
	s := make(LabelSet)
	for _, l := range m.Labels {
		if l > 0 {
			s.Add(l)
		}
	}
	return s
}
