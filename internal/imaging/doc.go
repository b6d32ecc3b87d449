// Package imaging turns image files into binary rasters for the segment
// package and renders segmentation results back into images.
//
// Everything the core deliberately leaves out lives here: decoding,
// orientation, cropping, downscaling, thresholding and visualization.
//
// # Coordinate System
//
// Image coordinates are 0-based with (0,0) at the top-left, X rightward and
// Y downward. Raster row i and column j correspond to image pixel (j, i).
// Regions use an inclusive (X1,Y1) and exclusive (X2,Y2) corner.
//
// # Pipeline
//
//  1. ImageCache.Load decodes the file (PNG, JPEG, GIF, TIFF, BMP) with EXIF
//     auto-orientation.
//  2. Prepare optionally crops to a Region and shrinks oversized images.
//  3. Binarize thresholds luminance into a segment.Raster.
//  4. RenderMask or Colorize draw a raster or label map, and EncodePNG wraps
//     the result as base64 PNG.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless.
// Colorize takes an explicit *rand.Rand so callers control determinism; a
// *rand.Rand must not be shared between goroutines.
package imaging
