package segment

// LabelTwoPass labels r with the classic two-pass union-find algorithm.
//
// The forward pass gives every foreground pixel a provisional label taken
// from its already-visited neighbors, in this priority:
//
//  1. up-left diagonal, if labeled
//  2. up and left, both labeled: the smaller of the two, recording their
//     equivalence
//  3. up alone
//  4. left alone
//  5. otherwise a fresh label
//
// The second pass rewrites every pixel to the canonical representative of its
// provisional label. Because the up-left diagonal is consulted, two pixels
// that touch only at that corner end up in the same component; the up-right
// corner is not consulted. The returned set always contains 0 for the
// background.
func LabelTwoPass(r *Raster) (LabelSet, *LabelMap) {
	out := NewLabelMap(r.Height, r.Width)
	eq := NewDisjointSet()
	eq.MakeSet(0)

	// labeled returns the provisional label at (i, j), or 0 off the raster.
	labeled := func(i, j int) int {
		if !r.InBounds(i, j) {
			return 0
		}
		return out.At(i, j)
	}

	next := 1
	for i := 0; i < r.Height; i++ {
		for j := 0; j < r.Width; j++ {
			if r.At(i, j) == 0 {
				continue
			}
			diag, up, left := labeled(i-1, j-1), labeled(i-1, j), labeled(i, j-1)
			switch {
			case diag != 0:
				out.Set(i, j, diag)
			case up != 0 && left != 0:
				out.Set(i, j, min(up, left))
				eq.Union(up, left)
			case up != 0:
				out.Set(i, j, up)
			case left != 0:
				out.Set(i, j, left)
			default:
				out.Set(i, j, next)
				eq.MakeSet(next)
				next++
			}
		}
	}

	labels := LabelSet{0: {}}
	for k, l := range out.Labels {
		c := eq.Find(l)
		out.Labels[k] = c
		labels.Add(c)
	}
	return labels, out
}
