package segment

import "fmt"

// DisjointSet is a union-find structure over non-negative integer labels.
//
// Union always makes the numerically smaller root the parent, so the
// representative of a class is the smallest label ever merged into it.
// Labels must be registered with MakeSet before Find or Union; using an
// unregistered label is a programming error and panics.
type DisjointSet struct {
	// parent[l] is the parent of label l, or -1 when l is not registered.
	parent []int
	count  int
}

// NewDisjointSet returns an empty set.
func NewDisjointSet() *DisjointSet {
	return &DisjointSet{}
}

// MakeSet registers label as a singleton class. Registering a label twice
// resets it to a root, matching a plain table assignment.
func (d *DisjointSet) MakeSet(label int) {
	if label < 0 {
		panic(fmt.Sprintf("segment: negative label %d", label))
	}
	for len(d.parent) <= label {
		d.parent = append(d.parent, -1)
	}
	if d.parent[label] < 0 {
		d.count++
	}
	d.parent[label] = label
}

// Has reports whether label has been registered.
func (d *DisjointSet) Has(label int) bool {
	return label >= 0 && label < len(d.parent) && d.parent[label] >= 0
}

// Len returns the number of registered labels.
func (d *DisjointSet) Len() int {
	return d.count
}

// Find returns the canonical label of the class containing label and
// compresses the path it walked so every visited node points at the root.
func (d *DisjointSet) Find(label int) int {
	if !d.Has(label) {
		panic(fmt.Sprintf("segment: find on unregistered label %d", label))
	}
	root := label
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for label != root {
		next := d.parent[label]
		d.parent[label] = root
		label = next
	}
	return root
}

// Union merges the classes of a and b. The smaller root wins.
func (d *DisjointSet) Union(a, b int) {
	ra, rb := d.Find(a), d.Find(b)
	switch {
	case ra == rb:
		return
	case ra < rb:
		d.parent[rb] = ra
	default:
		d.parent[ra] = rb
	}
}
