package segment

import (
	"fmt"
	"strings"
)

// Method names a labeling algorithm.
type Method string

const (
	MethodDFS     Method = "dfs"
	MethodBFS     Method = "bfs"
	MethodTwoPass Method = "two-pass"
)

// Methods lists every supported labeling method.
var Methods = []Method{MethodDFS, MethodBFS, MethodTwoPass}

// ParseMethod maps a user-supplied name to a Method. Matching is
// case-insensitive and accepts "twopass" and "union-find" as aliases.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dfs", "depth-first":
		return MethodDFS, nil
	case "bfs", "breadth-first":
		return MethodBFS, nil
	case "two-pass", "twopass", "union-find":
		return MethodTwoPass, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Label runs the labeler selected by m.
func Label(m Method, r *Raster) (LabelSet, *LabelMap, error) {
	switch m {
	case MethodDFS:
		labels, lm := LabelDFS(r)
		return labels, lm, nil
	case MethodBFS:
		labels, lm := LabelBFS(r)
		return labels, lm, nil
	case MethodTwoPass:
		labels, lm := LabelTwoPass(r)
		return labels, lm, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
}
