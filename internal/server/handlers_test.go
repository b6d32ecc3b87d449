package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/segment-tools-mcp/internal/segment"
)

// createTestImageFile writes a white PNG with black rectangles (inclusive
// corners) and returns its path.
func createTestImageFile(t *testing.T, width, height int, rects ...image.Rectangle) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for _, r := range rects {
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for x := r.Min.X; x <= r.Max.X; x++ {
				img.Set(x, y, color.Black)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// shapesImage has three components: a 4x3 block, a 7px vertical bar and a
// single pixel.
func shapesImage(t *testing.T) string {
	return createTestImageFile(t, 20, 12,
		image.Rect(1, 1, 4, 3),
		image.Rect(8, 2, 8, 8),
		image.Rect(15, 10, 15, 10),
	)
}

// callTool sends a tools/call request through handleRequest.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeContent unmarshals the text payload of a successful tool response.
func decodeContent(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %#v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), v); err != nil {
		t.Fatalf("invalid result JSON: %v", err)
	}
}

// wantToolError asserts a -32000 response whose data mentions substr.
func wantToolError(t *testing.T, resp *MCPResponse, substr string) {
	t.Helper()

	if resp.Error == nil {
		t.Fatal("Expected error response")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
	if data, _ := resp.Error.Data.(string); !strings.Contains(data, substr) {
		t.Errorf("Error data: got %q, want substring %q", data, substr)
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	imgPath := shapesImage(t)

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	decodeContent(t, callTool(t, s, "image_load", map[string]interface{}{"path": imgPath}), &info)

	if info.Width != 20 || info.Height != 12 {
		t.Errorf("dimensions: got %dx%d, want 20x12", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := newTestServer(t)

	for _, tool := range []string{"image_load", "segment_binarize", "segment_label", "segment_skeletonize", "segment_compare_methods"} {
		t.Run(tool, func(t *testing.T) {
			resp := callTool(t, s, tool, map[string]interface{}{"path": "/nonexistent/image.png"})
			wantToolError(t, resp, "failed to load image")
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := newTestServer(t)
	resp := callTool(t, s, "image_crop", map[string]interface{}{})
	wantToolError(t, resp, "unknown tool: image_crop")
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`"not an object"`),
	})

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_Binarize(t *testing.T) {
	s := newTestServer(t)
	imgPath := shapesImage(t)

	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{"defaults", map[string]interface{}{"path": imgPath}, 20},
		{"invert", map[string]interface{}{"path": imgPath, "invert": true}, 240 - 20},
		{"region", map[string]interface{}{
			"path":   imgPath,
			"region": map[string]int{"x1": 0, "y1": 0, "x2": 6, "y2": 5},
		}, 12},
		{"threshold zero", map[string]interface{}{"path": imgPath, "threshold": 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res BinarizeResult
			decodeContent(t, callTool(t, s, "segment_binarize", tt.args), &res)

			if res.Foreground != tt.want {
				t.Errorf("foreground: got %d, want %d", res.Foreground, tt.want)
			}
			if res.Mask == nil || res.Mask.ImageBase64 == "" {
				t.Fatal("mask image missing")
			}
			if res.Mask.Width != res.Width || res.Mask.Height != res.Height {
				t.Errorf("mask size %dx%d differs from raster %dx%d",
					res.Mask.Width, res.Mask.Height, res.Width, res.Height)
			}
		})
	}
}

func TestHandleToolsCall_Binarize_BadArgs(t *testing.T) {
	s := newTestServer(t)
	imgPath := shapesImage(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr string
	}{
		{"missing path", map[string]interface{}{}, "path is required"},
		{"threshold too high", map[string]interface{}{"path": imgPath, "threshold": 300}, "threshold must be 0-255"},
		{"region outside", map[string]interface{}{
			"path":   imgPath,
			"region": map[string]int{"x1": 0, "y1": 0, "x2": 50, "y2": 5},
		}, "outside image bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantToolError(t, callTool(t, s, "segment_binarize", tt.args), tt.wantErr)
		})
	}
}

func TestHandleToolsCall_Label(t *testing.T) {
	s := newTestServer(t)
	imgPath := shapesImage(t)

	var res LabelResult
	decodeContent(t, callTool(t, s, "segment_label", map[string]interface{}{"path": imgPath}), &res)

	if res.Method != segment.MethodBFS {
		t.Errorf("method: got %s, want bfs", res.Method)
	}
	if res.Components != 3 {
		t.Errorf("components: got %d, want 3", res.Components)
	}
	if len(res.Labels) != 3 || res.Labels[0] != 1 || res.Labels[2] != 3 {
		t.Errorf("labels: got %v, want [1 2 3]", res.Labels)
	}
	if res.Image != nil {
		t.Error("image should be omitted unless render is set")
	}

	want := []segment.Component{
		{Label: 1, Area: 12, Bounds: image.Rect(1, 1, 5, 4), Centroid: segment.Point{X: 2.5, Y: 2}},
		{Label: 2, Area: 7, Bounds: image.Rect(8, 2, 9, 9), Centroid: segment.Point{X: 8, Y: 5}},
		{Label: 3, Area: 1, Bounds: image.Rect(15, 10, 16, 11), Centroid: segment.Point{X: 15, Y: 10}},
	}
	if len(res.Measures) != len(want) {
		t.Fatalf("measurements: got %d, want %d", len(res.Measures), len(want))
	}
	for i := range want {
		if res.Measures[i] != want[i] {
			t.Errorf("measurement %d: got %+v, want %+v", i, res.Measures[i], want[i])
		}
	}
}

func TestHandleToolsCall_Label_Methods(t *testing.T) {
	s := newTestServer(t)
	imgPath := shapesImage(t)

	for _, method := range []string{"dfs", "bfs", "two-pass", "Union-Find"} {
		t.Run(method, func(t *testing.T) {
			var res LabelResult
			decodeContent(t, callTool(t, s, "segment_label", map[string]interface{}{
				"path":   imgPath,
				"method": method,
			}), &res)
			if res.Components != 3 {
				t.Errorf("components: got %d, want 3", res.Components)
			}
		})
	}

	resp := callTool(t, s, "segment_label", map[string]interface{}{"path": imgPath, "method": "watershed"})
	wantToolError(t, resp, "unknown labeling method")
}

func TestHandleToolsCall_Label_MinArea(t *testing.T) {
	s := newTestServer(t)
	imgPath := shapesImage(t)

	var res LabelResult
	decodeContent(t, callTool(t, s, "segment_label", map[string]interface{}{
		"path":     imgPath,
		"min_area": 8,
	}), &res)

	if res.Components != 1 || res.Discarded != 2 {
		t.Errorf("components/discarded: got %d/%d, want 1/2", res.Components, res.Discarded)
	}
	if len(res.Measures) != 1 || res.Measures[0].Area != 12 {
		t.Errorf("measurements: got %+v", res.Measures)
	}

	resp := callTool(t, s, "segment_label", map[string]interface{}{"path": imgPath, "min_area": -1})
	wantToolError(t, resp, "min_area must be >= 0")
}

func TestHandleToolsCall_Label_Render(t *testing.T) {
	s := newTestServer(t)
	imgPath := shapesImage(t)
	args := map[string]interface{}{
		"path":   imgPath,
		"render": true,
		"seed":   42,
	}

	var a, b LabelResult
	decodeContent(t, callTool(t, s, "segment_label", args), &a)
	decodeContent(t, callTool(t, s, "segment_label", args), &b)

	if a.Image == nil {
		t.Fatal("render did not return an image")
	}
	if a.Image.Width != 20 || a.Image.Height != 12 {
		t.Errorf("image size: got %dx%d, want 20x12", a.Image.Width, a.Image.Height)
	}
	if b.Image == nil || a.Image.ImageBase64 != b.Image.ImageBase64 {
		t.Error("same seed should render the same image")
	}
}

func TestHandleToolsCall_Skeletonize(t *testing.T) {
	s := newTestServer(t)
	// 9x3 bar thins to a 6px line.
	imgPath := createTestImageFile(t, 11, 5, image.Rect(1, 1, 9, 3))

	for _, workers := range []int{1, 4} {
		s.cfg.Workers = workers

		var res SkeletonResult
		decodeContent(t, callTool(t, s, "segment_skeletonize", map[string]interface{}{"path": imgPath}), &res)

		if res.ForegroundBefore != 27 || res.ForegroundAfter != 6 {
			t.Errorf("workers=%d foreground: got %d -> %d, want 27 -> 6",
				workers, res.ForegroundBefore, res.ForegroundAfter)
		}
		if res.Iterations != 2 || res.Removed != 21 {
			t.Errorf("workers=%d stats: got %+v, want 2 iterations, 21 removed", workers, res.ThinStats)
		}
		if res.Skeleton == nil || res.Skeleton.Width != 11 || res.Skeleton.Height != 5 {
			t.Errorf("workers=%d skeleton image: got %+v", workers, res.Skeleton)
		}
	}
}

func TestHandleToolsCall_CompareMethods(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name         string
		rects        []image.Rectangle
		wantTwoPass  int
		wantAgreeing bool
	}{
		{
			"separate shapes",
			[]image.Rectangle{image.Rect(1, 1, 4, 3), image.Rect(8, 2, 8, 8)},
			2, true,
		},
		{
			"up-left diagonal contact",
			[]image.Rectangle{image.Rect(1, 1, 1, 1), image.Rect(2, 2, 2, 2)},
			1, false,
		},
		{
			"up-right diagonal contact",
			[]image.Rectangle{image.Rect(2, 1, 2, 1), image.Rect(1, 2, 1, 2)},
			2, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imgPath := createTestImageFile(t, 10, 10, tt.rects...)

			var res CompareResult
			decodeContent(t, callTool(t, s, "segment_compare_methods", map[string]interface{}{"path": imgPath}), &res)

			if len(res.Results) != 3 {
				t.Fatalf("results: got %d, want 3", len(res.Results))
			}
			counts := make(map[segment.Method]int)
			for _, r := range res.Results {
				counts[r.Method] = r.Components
			}
			if counts[segment.MethodDFS] != 2 || counts[segment.MethodBFS] != 2 {
				t.Errorf("flood-fill counts: got %v, want 2", counts)
			}
			if counts[segment.MethodTwoPass] != tt.wantTwoPass {
				t.Errorf("two-pass count: got %d, want %d", counts[segment.MethodTwoPass], tt.wantTwoPass)
			}
			if !res.FloodFillAgree {
				t.Error("DFS and BFS should agree")
			}
			if res.TwoPassAgrees != tt.wantAgreeing {
				t.Errorf("two_pass_agrees: got %v, want %v", res.TwoPassAgrees, tt.wantAgreeing)
			}
		})
	}
}

func TestSamePartition(t *testing.T) {
	a := segment.NewLabelMap(1, 4)
	b := segment.NewLabelMap(1, 4)
	copy(a.Labels, []int{1, 0, 2, 2})
	copy(b.Labels, []int{5, 0, 3, 3})
	if !samePartition(a, b) {
		t.Error("relabeled maps should share a partition")
	}

	copy(b.Labels, []int{3, 0, 3, 3})
	if samePartition(a, b) {
		t.Error("merged components should not share a partition")
	}
	if samePartition(b, a) {
		t.Error("samePartition should be symmetric")
	}
}

func TestMarshalResult(t *testing.T) {
	text, err := marshalResult(&MethodCount{Method: segment.MethodBFS, Components: 2})
	if err != nil {
		t.Fatalf("marshalResult failed: %v", err)
	}
	if !strings.Contains(text, `"components": 2`) {
		t.Errorf("text: got %s", text)
	}

	// NaN has no JSON encoding.
	text, err = marshalResult(map[string]float64{"x": math.NaN()})
	if err == nil {
		t.Fatal("expected error for unencodable result")
	}
	if text != "" {
		t.Errorf("text on error: got %q, want empty", text)
	}
	if !strings.Contains(err.Error(), "failed to encode result") {
		t.Errorf("error: got %q", err)
	}
}
