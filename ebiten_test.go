package tilepack

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestEbitenTexture_Size(t *testing.T) {
	tex := &EbitenTexture{Image: ebiten.NewImage(64, 32)}
	if w, h := tex.Size(); w != 64 || h != 32 {
		t.Errorf("Size = %dx%d, want 64x32", w, h)
	}
}

func TestEbitenUploader_Upload(t *testing.T) {
	tex, err := EbitenUploader{}.Upload(testImage(16, 8, color.RGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	et, ok := tex.(*EbitenTexture)
	if !ok {
		t.Fatalf("Upload returned %T, want *EbitenTexture", tex)
	}
	if w, h := et.Size(); w != 16 || h != 8 {
		t.Errorf("Size = %dx%d, want 16x8", w, h)
	}
}
