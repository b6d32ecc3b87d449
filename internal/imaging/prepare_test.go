package imaging

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestPrepare_NoRegion(t *testing.T) {
	img := createInMemoryImage(40, 30, color.White)

	out, err := Prepare(img, nil, 0)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Errorf("bounds: got %v, want (0,0)-(40,30)", out.Bounds())
	}
}

func TestPrepare_Region(t *testing.T) {
	img := createInkImage(20, 20, image.Rect(10, 10, 10, 10))

	out, err := Prepare(img, &Region{X1: 8, Y1: 9, X2: 14, Y2: 12}, 0)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 6, 3) {
		t.Fatalf("bounds: got %v, want (0,0)-(6,3)", out.Bounds())
	}

	// Ink at (10,10) lands at (2,1) after cropping.
	r, g, b, _ := out.At(2, 1).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("pixel (2,1): got (%d,%d,%d), want black", r>>8, g>>8, b>>8)
	}
}

func TestPrepare_RegionErrors(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)

	tests := []struct {
		name    string
		region  Region
		wantErr string
	}{
		{"x out of bounds", Region{X1: 0, Y1: 0, X2: 60, Y2: 10}, "outside image bounds"},
		{"negative origin", Region{X1: -1, Y1: 0, X2: 10, Y2: 10}, "outside image bounds"},
		{"empty width", Region{X1: 10, Y1: 0, X2: 10, Y2: 10}, "invalid region"},
		{"inverted height", Region{X1: 0, Y1: 20, X2: 10, Y2: 5}, "invalid region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region := tt.region
			_, err := Prepare(img, &region, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error: got %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestPrepare_MaxDimension(t *testing.T) {
	img := createInMemoryImage(400, 200, color.Black)

	tests := []struct {
		name   string
		maxDim int
		wantW  int
		wantH  int
	}{
		{"disabled", 0, 400, 200},
		{"already fits", 400, 400, 200},
		{"shrinks longer side", 100, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Prepare(img, nil, tt.maxDim)
			if err != nil {
				t.Fatalf("Prepare failed: %v", err)
			}
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d",
					out.Bounds().Dx(), out.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPrepare_KeepsBinaryEdges(t *testing.T) {
	// Left half black, right half white.
	img := createInkImage(64, 32, image.Rect(0, 0, 31, 31))

	out, err := Prepare(img, nil, 16)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	r := Binarize(out, BinarizeOptions{Threshold: DefaultThreshold})
	if r.Height != 8 || r.Width != 16 {
		t.Fatalf("raster: got %dx%d, want 8x16", r.Height, r.Width)
	}
	if got := r.Foreground(); got != 8*8 {
		t.Errorf("foreground: got %d, want 64", got)
	}
}

func TestPrepare_SubImageOrigin(t *testing.T) {
	base := createInMemoryImage(30, 30, color.White)
	sub := base.SubImage(image.Rect(10, 10, 20, 20))

	out, err := Prepare(sub, nil, 0)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if out.Bounds().Min != (image.Point{}) {
		t.Errorf("origin: got %v, want (0,0)", out.Bounds().Min)
	}
	if out.Bounds().Dx() != 10 || out.Bounds().Dy() != 10 {
		t.Errorf("size: got %dx%d, want 10x10", out.Bounds().Dx(), out.Bounds().Dy())
	}
}
