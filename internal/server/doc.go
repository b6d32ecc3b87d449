// Package server implements the MCP (Model Context Protocol) server for binary
// image segmentation tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the segment
// package through the MCP protocol, so MCP clients can count, measure and
// skeletonize the shapes in an image.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata
//   - segment_binarize: Threshold an image into a foreground mask
//   - segment_label: Connected-component labeling with measurements
//   - segment_skeletonize: Zhang-Suen thinning
//   - segment_compare_methods: Run all labelers and compare partitions
//
// Every segment_* tool accepts path, threshold, invert and region. Unset
// values come from the server Config.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server process.
// Binarization is recomputed per call since threshold and region vary.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := server.ConfigFromEnv()
//	if err != nil {
//	    return err
//	}
//	srv := server.New(cfg, logger)
//	return srv.Run(ctx)
package server
