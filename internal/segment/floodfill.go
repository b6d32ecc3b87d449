package segment

// cell is a raster coordinate: row I, column J.
type cell struct {
	I, J int
}

// orthogonal lists the 4-connected neighbor offsets in visiting order:
// down, right, up, left.
var orthogonal = [4]cell{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// labeling is the mutable state of a single flood-fill run. Each call to a
// labeler owns its own labeling; nothing is shared between runs.
type labeling struct {
	src     *Raster
	out     *LabelMap
	visited []bool
	labels  LabelSet
	next    int
}

func newLabeling(r *Raster) *labeling {
	return &labeling{
		src:     r,
		out:     NewLabelMap(r.Height, r.Width),
		visited: make([]bool, r.Height*r.Width),
		labels:  make(LabelSet),
	}
}

// open reports whether (i, j) is an unvisited foreground pixel.
func (l *labeling) open(i, j int) bool {
	return l.src.InBounds(i, j) && !l.visited[i*l.src.Width+j] && l.src.At(i, j) == 1
}

// stamp marks (i, j) visited and gives it label.
func (l *labeling) stamp(i, j, label int) {
	l.visited[i*l.src.Width+j] = true
	l.out.Set(i, j, label)
}

// scan walks the raster in row-major order and calls fill once per
// component, with a fresh label starting at 1.
func (l *labeling) scan(fill func(i, j, label int)) {
	for i := 0; i < l.src.Height; i++ {
		for j := 0; j < l.src.Width; j++ {
			if !l.open(i, j) {
				continue
			}
			l.next++
			l.labels.Add(l.next)
			fill(i, j, l.next)
		}
	}
}

// depthFirst labels the component containing (i, j). Pending cells sit on an
// explicit stack so the traversal depth is bounded by memory, not by the
// goroutine stack. Neighbors are pushed in reverse so they pop in
// down, right, up, left order.
func (l *labeling) depthFirst(i, j, label int) {
	stack := []cell{{i, j}}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !l.open(c.I, c.J) {
			continue
		}
		l.stamp(c.I, c.J, label)
		for k := len(orthogonal) - 1; k >= 0; k-- {
			n := cell{c.I + orthogonal[k].I, c.J + orthogonal[k].J}
			if l.open(n.I, n.J) {
				stack = append(stack, n)
			}
		}
	}
}

// breadthFirst labels the component containing (i, j) using a FIFO
// frontier. A cell is marked visited when it is enqueued so it is never
// queued twice.
func (l *labeling) breadthFirst(i, j, label int) {
	queue := []cell{{i, j}}
	l.stamp(i, j, label)
	for head := 0; head < len(queue); head++ {
		c := queue[head]
		for _, d := range orthogonal {
			n := cell{c.I + d.I, c.J + d.J}
			if l.open(n.I, n.J) {
				l.stamp(n.I, n.J, label)
				queue = append(queue, n)
			}
		}
	}
}

// LabelDFS partitions the foreground of r into 4-connected components using
// depth-first flood fill.
//
// Labels are assigned from 1 in the raster order in which each component is
// first met. The returned set never contains 0.
func LabelDFS(r *Raster) (LabelSet, *LabelMap) {
	l := newLabeling(r)
	l.scan(l.depthFirst)
	return l.labels, l.out
}

// LabelBFS is LabelDFS with a breadth-first traversal. It yields the same
// labels and label map.
func LabelBFS(r *Raster) (LabelSet, *LabelMap) {
	l := newLabeling(r)
	l.scan(l.breadthFirst)
	return l.labels, l.out
}
