package segment

import (
	"golang.org/x/sync/errgroup"
)

// ThinStats describes a thinning run.
type ThinStats struct {
	// Iterations counts full iterations (both sub-passes), including the
	// final one that removed nothing.
	Iterations int `json:"iterations"`

	// Removed is the total number of pixels deleted.
	Removed int `json:"removed"`
}

// Thinner runs Zhang–Suen skeletonization.
//
// Workers > 1 splits each sub-pass scan into row bands that are evaluated
// concurrently. A sub-pass only reads the image while marking and deletes
// the marked pixels after the scan, so the result does not depend on
// Workers.
type Thinner struct {
	Workers int
}

// Skeletonize reduces the foreground of r to one-pixel-wide curves while
// preserving its connectivity. r is not modified; the result has the same
// dimensions.
func Skeletonize(r *Raster) *Raster {
	out, _ := Thinner{}.Thin(r)
	return out
}

// Thin skeletonizes r and reports how much work it took.
//
// # Algorithm
//
// The raster is copied into a working grid padded with one background cell
// on every side. For a foreground pixel P1 the neighbors P2..P9 are taken
// clockwise starting north:
//
//	P9 P2 P3
//	P8 P1 P4
//	P7 P6 P5
//
// B(P1) is the number of foreground neighbors and A(P1) the number of 0→1
// transitions in the cyclic sequence P2, P3, ..., P9, P2. Each iteration runs
// two sub-passes. Both require 2 ≤ B ≤ 6 and A == 1; the first also needs
// P2·P4·P6 == 0 and P4·P6·P8 == 0, the second P2·P4·P8 == 0 and
// P2·P6·P8 == 0. Pixels marked in a sub-pass are deleted together once the
// scan finishes. Iteration stops after the first iteration that deletes
// nothing.
//
// Every pixel of the original raster is tested, including the outermost
// rows and columns; the padding supplies their missing neighbors.
func (t Thinner) Thin(r *Raster) (*Raster, ThinStats) {
	g := newThinGrid(r)
	var stats ThinStats
	for {
		stats.Iterations++
		removed := t.subPass(g, 0) + t.subPass(g, 1)
		stats.Removed += removed
		if removed == 0 {
			break
		}
	}
	return g.interior(), stats
}

// subPass marks and then deletes removable pixels, returning the count.
func (t Thinner) subPass(g *thinGrid, step int) int {
	marks := make([]bool, len(g.pix))
	workers := t.Workers
	if workers > g.h {
		workers = g.h
	}
	if workers <= 1 {
		g.mark(marks, step, 1, g.h+1)
	} else {
		var eg errgroup.Group
		eg.SetLimit(workers)
		band := (g.h + workers - 1) / workers
		for lo := 1; lo <= g.h; lo += band {
			lo, hi := lo, min(lo+band, g.h+1)
			eg.Go(func() error {
				g.mark(marks, step, lo, hi)
				return nil
			})
		}
		// mark cannot fail, so Wait only joins the bands.
		eg.Wait()
	}

	removed := 0
	for k, m := range marks {
		if m {
			g.pix[k] = 0
			removed++
		}
	}
	return removed
}

// thinGrid is the padded working copy. h and w are the original
// dimensions; the stride is w+2.
type thinGrid struct {
	h, w int
	pix  []uint8
}

func newThinGrid(r *Raster) *thinGrid {
	g := &thinGrid{h: r.Height, w: r.Width, pix: make([]uint8, (r.Height+2)*(r.Width+2))}
	for i := 0; i < r.Height; i++ {
		copy(g.pix[(i+1)*(g.w+2)+1:], r.Pix[i*r.Width:(i+1)*r.Width])
	}
	return g
}

func (g *thinGrid) at(i, j int) uint8 {
	return g.pix[i*(g.w+2)+j]
}

// mark flags removable pixels in padded rows [lo, hi). Only marks for those
// rows are written, so disjoint bands may run concurrently.
func (g *thinGrid) mark(marks []bool, step, lo, hi int) {
	for i := lo; i < hi; i++ {
		for j := 1; j <= g.w; j++ {
			if g.at(i, j) == 1 && g.removable(i, j, step) {
				marks[i*(g.w+2)+j] = true
			}
		}
	}
}

func (g *thinGrid) removable(i, j, step int) bool {
	p := [8]uint8{
		g.at(i-1, j),   // P2
		g.at(i-1, j+1), // P3
		g.at(i, j+1),   // P4
		g.at(i+1, j+1), // P5
		g.at(i+1, j),   // P6
		g.at(i+1, j-1), // P7
		g.at(i, j-1),   // P8
		g.at(i-1, j-1), // P9
	}

	b, a := 0, 0
	for k := range p {
		b += int(p[k])
		if p[k] == 0 && p[(k+1)%8] == 1 {
			a++
		}
	}
	if b < 2 || b > 6 || a != 1 {
		return false
	}

	p2, p4, p6, p8 := p[0], p[2], p[4], p[6]
	if step == 0 {
		return p2*p4*p6 == 0 && p4*p6*p8 == 0
	}
	return p2*p4*p8 == 0 && p2*p6*p8 == 0
}

// interior strips the padding.
func (g *thinGrid) interior() *Raster {
	out := NewRaster(g.h, g.w)
	for i := 0; i < g.h; i++ {
		copy(out.Pix[i*g.w:(i+1)*g.w], g.pix[(i+1)*(g.w+2)+1:])
	}
	return out
}
