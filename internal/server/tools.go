package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// rasterProperties returns the schema properties shared by every tool that
// binarizes an image.
func rasterProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"minimum":     0,
			"maximum":     255,
			"description": "Luminance level separating foreground from background. Defaults to the server setting (128).",
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Treat bright pixels as foreground instead of dark ones. Defaults to the server setting (false).",
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional sub-rectangle to segment: x1,y1 inclusive, x2,y2 exclusive",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
	}
}

// withProperties merges extra into the shared raster properties.
func withProperties(extra map[string]interface{}) map[string]interface{} {
	props := rasterProperties()
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The decoded image is cached for subsequent segment_* calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "segment_binarize",
			Description: "Threshold an image into a binary mask. Returns the mask as base64 PNG (foreground white) and the foreground pixel count. Use this to tune threshold and invert before labeling.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": rasterProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "segment_label",
			Description: "Label the 4-connected foreground components of a binarized image. Returns the component count, labels, and per-component area, bounding box and centroid. Optionally renders each component in a random color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"dfs", "bfs", "two-pass"},
						"description": "Labeling algorithm. two-pass also joins pixels touching across an up-left/down-right diagonal. Default bfs",
						"default":     "bfs",
					},
					"min_area": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"description": "Drop components with fewer pixels than this. Default 0 (keep all)",
						"default":     0,
					},
					"render": map[string]interface{}{
						"type":        "boolean",
						"description": "Return a colorized label image as base64 PNG. Default false",
						"default":     false,
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Random seed for the render palette. Omit for a different palette each call",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "segment_skeletonize",
			Description: "Thin the foreground of a binarized image to one-pixel-wide curves (Zhang-Suen). Returns the skeleton as base64 PNG with iteration and pixel counts.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": rasterProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "segment_compare_methods",
			Description: "Run the dfs, bfs and two-pass labelers on the same binarized image and report each component count and whether their partitions agree.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": rasterProperties(),
				"required":   []string{"path"},
			},
		},
	}
}
