package tilepack

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenTexture wraps an atlas page uploaded as an Ebitengine image.
type EbitenTexture struct {
	Image *ebiten.Image
}

// Size returns the page dimensions in pixels.
func (t *EbitenTexture) Size() (w, h int) {
	bounds := t.Image.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// EbitenUploader uploads atlas pages as Ebitengine images for rendering.
type EbitenUploader struct{}

// Upload copies the page into a new GPU-backed image.
func (EbitenUploader) Upload(img *image.RGBA) (Texture, error) {
	return &EbitenTexture{Image: ebiten.NewImageFromImage(img)}, nil
}
