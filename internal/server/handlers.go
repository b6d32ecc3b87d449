package server

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/ironsheep/segment-tools-mcp/internal/imaging"
	"github.com/ironsheep/segment-tools-mcp/internal/segment"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "segment_label").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000;
// a result that cannot be encoded returns -32603.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool done", "tool", params.Name, "elapsed", time.Since(start).Round(time.Millisecond))

	text, err := marshalResult(result)
	if err != nil {
		s.logger.Error("failed to encode tool result", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32603, "Internal error", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies server defaults for optional parameters
//  3. Loads, crops, shrinks and binarizes the image
//  4. Calls the segment package
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "segment_binarize":
		return s.handleSegmentBinarize(args)
	case "segment_label":
		return s.handleSegmentLabel(args)
	case "segment_skeletonize":
		return s.handleSegmentSkeletonize(args)
	case "segment_compare_methods":
		return s.handleSegmentCompareMethods(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// marshalResult converts a tool result to a pretty-printed JSON string.
func marshalResult(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Raster Input ===

// rasterArgs are the arguments shared by every segment_* tool.
type rasterArgs struct {
	Path      string          `json:"path"`
	Threshold *int            `json:"threshold,omitempty"`
	Invert    *bool           `json:"invert,omitempty"`
	Region    *imaging.Region `json:"region,omitempty"`
}

// loadRaster turns the image named by a into a binary raster, filling
// unset options from the server config.
func (s *Server) loadRaster(a rasterArgs) (*segment.Raster, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	opts := imaging.BinarizeOptions{Threshold: s.cfg.Threshold, Invert: s.cfg.Invert}
	if a.Threshold != nil {
		if *a.Threshold < 0 || *a.Threshold > 255 {
			return nil, fmt.Errorf("threshold must be 0-255, got %d", *a.Threshold)
		}
		opts.Threshold = uint8(*a.Threshold)
	}
	if a.Invert != nil {
		opts.Invert = *a.Invert
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	img, err = imaging.Prepare(img, a.Region, s.cfg.MaxDimension)
	if err != nil {
		return nil, err
	}

	r := imaging.Binarize(img, opts)
	s.logger.Debug("binarized", "path", a.Path, "height", r.Height, "width", r.Width,
		"threshold", opts.Threshold, "invert", opts.Invert, "foreground", r.Foreground())
	return r, nil
}

// === Binarize ===

// BinarizeResult describes a binarized image.
type BinarizeResult struct {
	Width      int                  `json:"width"`
	Height     int                  `json:"height"`
	Foreground int                  `json:"foreground_pixels"`
	Mask       *imaging.ImageResult `json:"mask"`
}

func (s *Server) handleSegmentBinarize(args json.RawMessage) (interface{}, error) {
	var a rasterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.loadRaster(a)
	if err != nil {
		return nil, err
	}
	mask, err := imaging.EncodePNG(imaging.RenderMask(r))
	if err != nil {
		return nil, err
	}
	return &BinarizeResult{
		Width:      r.Width,
		Height:     r.Height,
		Foreground: r.Foreground(),
		Mask:       mask,
	}, nil
}

// === Label ===

type segmentLabelArgs struct {
	rasterArgs
	Method  string `json:"method"`
	MinArea int    `json:"min_area"`
	Render  bool   `json:"render"`
	Seed    *int64 `json:"seed,omitempty"`
}

// LabelResult reports a connected-component labeling.
type LabelResult struct {
	Method     segment.Method      `json:"method"`
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	Components int                 `json:"components"`
	Labels     []int               `json:"labels"`
	Measures   []segment.Component `json:"measurements"`

	// Discarded counts components removed by min_area.
	Discarded int `json:"discarded,omitempty"`

	Image *imaging.ImageResult `json:"image,omitempty"`
}

func (s *Server) handleSegmentLabel(args json.RawMessage) (interface{}, error) {
	var a segmentLabelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Method == "" {
		a.Method = string(segment.MethodBFS)
	}
	if a.MinArea < 0 {
		return nil, fmt.Errorf("min_area must be >= 0, got %d", a.MinArea)
	}
	method, err := segment.ParseMethod(a.Method)
	if err != nil {
		return nil, err
	}

	r, err := s.loadRaster(a.rasterArgs)
	if err != nil {
		return nil, err
	}
	labels, lm, err := segment.Label(method, r)
	if err != nil {
		return nil, err
	}

	res := &LabelResult{
		Method: method,
		Width:  r.Width,
		Height: r.Height,
	}
	if a.MinArea > 1 {
		before := labels.Components()
		hasZero := labels.Has(0)
		lm = segment.Filter(lm, a.MinArea)
		labels = lm.Distinct()
		if hasZero {
			labels.Add(0)
		}
		res.Discarded = before - labels.Components()
	}
	res.Components = labels.Components()
	res.Labels = labels.Sorted()
	res.Measures = segment.Measure(lm)

	if a.Render {
		var rng *rand.Rand
		if a.Seed != nil {
			rng = rand.New(rand.NewSource(*a.Seed))
		}
		img, err := imaging.EncodePNG(imaging.Colorize(labels, lm, rng))
		if err != nil {
			return nil, err
		}
		res.Image = img
	}
	return res, nil
}

// === Skeletonize ===

// SkeletonResult reports a thinning run.
type SkeletonResult struct {
	Width            int `json:"width"`
	Height           int `json:"height"`
	ForegroundBefore int `json:"foreground_before"`
	ForegroundAfter  int `json:"foreground_after"`
	segment.ThinStats
	Skeleton *imaging.ImageResult `json:"skeleton"`
}

func (s *Server) handleSegmentSkeletonize(args json.RawMessage) (interface{}, error) {
	var a rasterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.loadRaster(a)
	if err != nil {
		return nil, err
	}

	out, stats := segment.Thinner{Workers: s.cfg.Workers}.Thin(r)
	img, err := imaging.EncodePNG(imaging.RenderMask(out))
	if err != nil {
		return nil, err
	}
	return &SkeletonResult{
		Width:            r.Width,
		Height:           r.Height,
		ForegroundBefore: r.Foreground(),
		ForegroundAfter:  out.Foreground(),
		ThinStats:        stats,
		Skeleton:         img,
	}, nil
}

// === Compare Methods ===

// MethodCount is one labeler's component count.
type MethodCount struct {
	Method     segment.Method `json:"method"`
	Components int            `json:"components"`
}

// CompareResult runs every labeler on the same raster.
type CompareResult struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Results []MethodCount `json:"results"`

	// FloodFillAgree is true when DFS and BFS produced the same label map.
	FloodFillAgree bool `json:"flood_fill_agree"`

	// TwoPassAgrees is true when the two-pass partition matches the
	// flood-fill partition. It can be false on rasters with up-left to
	// down-right diagonal contacts, which two-pass joins.
	TwoPassAgrees bool `json:"two_pass_agrees"`
}

func (s *Server) handleSegmentCompareMethods(args json.RawMessage) (interface{}, error) {
	var a rasterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	r, err := s.loadRaster(a)
	if err != nil {
		return nil, err
	}

	res := &CompareResult{Width: r.Width, Height: r.Height}
	maps := make(map[segment.Method]*segment.LabelMap, len(segment.Methods))
	for _, m := range segment.Methods {
		labels, lm, err := segment.Label(m, r)
		if err != nil {
			return nil, err
		}
		maps[m] = lm
		res.Results = append(res.Results, MethodCount{Method: m, Components: labels.Components()})
	}

	res.FloodFillAgree = equalLabels(maps[segment.MethodDFS], maps[segment.MethodBFS])
	res.TwoPassAgrees = samePartition(maps[segment.MethodBFS], maps[segment.MethodTwoPass])
	return res, nil
}

func equalLabels(a, b *segment.LabelMap) bool {
	if len(a.Labels) != len(b.Labels) {
		return false
	}
	for k := range a.Labels {
		if a.Labels[k] != b.Labels[k] {
			return false
		}
	}
	return true
}

// samePartition reports whether a and b group pixels identically, ignoring
// the label values themselves.
func samePartition(a, b *segment.LabelMap) bool {
	if len(a.Labels) != len(b.Labels) {
		return false
	}
	ab := make(map[int]int)
	ba := make(map[int]int)
	for k := range a.Labels {
		x, y := a.Labels[k], b.Labels[k]
		if (x == 0) != (y == 0) {
			return false
		}
		if v, ok := ab[x]; ok && v != y {
			return false
		}
		if v, ok := ba[y]; ok && v != x {
			return false
		}
		ab[x], ba[y] = y, x
	}
	return true
}
