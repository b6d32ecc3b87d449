// Package segment implements structural analysis of binary rasters:
// connected-component labeling and topology-preserving thinning.
//
// A Raster holds pixels valued 0 (background) or 1 (foreground). The
// package does not sanitize input; call Raster.Validate first when the
// source is untrusted.
//
// # Labeling
//
// Three labelers share one contract: every foreground pixel receives a
// positive label, every background pixel keeps 0.
//
//   - LabelDFS: depth-first flood fill over 4-connected neighbors, using an
//     explicit stack.
//   - LabelBFS: breadth-first flood fill over 4-connected neighbors.
//   - LabelTwoPass: raster-order provisional labels with equivalences kept
//     in a DisjointSet, resolved in a second pass. It also joins pixels that
//     touch at an up-left/down-right corner, and its label set includes 0.
//
// The flood-fill labelers number components from 1 in the raster order in
// which they are first met. The two-pass labeler uses the smallest
// provisional label of each class.
//
// # Thinning
//
// Skeletonize applies the Zhang–Suen algorithm until a full iteration
// removes nothing. Thinner exposes iteration statistics and an optional
// concurrent scan.
//
// # Concurrency
//
// Every call owns its label map, visited set and equivalence table; calls
// on different rasters, or on the same raster, may run concurrently.
package segment
