package export

import (
	"bytes"
	"image/png"
	"testing"
)

func TestRenderPNGDimensions(t *testing.T) {
	nodes, edges := sampleGraph()
	data, err := RenderPNG(nodes, edges)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	// Content spans x 90..475, y 50..500; with the margin on each side the
	// canvas is 505x570 logical pixels, doubled by the default scale.
	b := img.Bounds()
	if b.Dx() != 1010 || b.Dy() != 1140 {
		t.Errorf("dimensions = %dx%d, want 1010x1140", b.Dx(), b.Dy())
	}
}

func TestRenderPNGScaleOption(t *testing.T) {
	nodes, edges := sampleGraph()
	data, err := RenderPNG(nodes, edges, WithScale(1.0))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 505 || b.Dy() != 570 {
		t.Errorf("dimensions = %dx%d, want 505x570", b.Dx(), b.Dy())
	}
}

func TestRenderPNGEmptyGraph(t *testing.T) {
	data, err := RenderPNG(nil, nil)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		t.Errorf("empty canvas has zero dimensions: %v", b)
	}
}

func TestRenderPNGBackground(t *testing.T) {
	nodes, _ := sampleGraph()
	data, err := RenderPNG(nodes, nil, WithBackground("#000000"), WithScale(1.0))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("corner pixel = (%d, %d, %d), want black background", r, g, b)
	}
}
