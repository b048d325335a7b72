package tilepack

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
)

// Texture is a finished atlas page as seen by the renderer. Implementations
// wrap whatever the display backend uses for texture handles.
type Texture interface {
	// Size returns the page dimensions in pixels.
	Size() (w, h int)
}

// Uploader turns a finished RGBA page into a renderer Texture. Build hands
// every page to the Uploader in page-index order.
type Uploader interface {
	Upload(img *image.RGBA) (Texture, error)
}

// ImageTexture is a CPU-side Texture backed by the page image itself.
// Used by tooling and tests that never touch a GPU.
type ImageTexture struct {
	Image *image.RGBA
}

// Size returns the page dimensions in pixels.
func (t *ImageTexture) Size() (w, h int) {
	bounds := t.Image.Bounds()
	return bounds.Dx(), bounds.Dy()
}

// ImageUploader produces ImageTexture pages.
type ImageUploader struct{}

// Upload wraps the page image without copying it.
func (ImageUploader) Upload(img *image.RGBA) (Texture, error) {
	return &ImageTexture{Image: img}, nil
}

// ImageSource loads source images for the Builder and Cache. The default
// source reads image files from disk; tests substitute in-memory sources.
type ImageSource interface {
	Load(path string) (image.Image, error)
}

// fileSource is the default ImageSource: os.Open plus image.Decode.
type fileSource struct{}

func (fileSource) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tilepack: open source image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tilepack: decode source image %s: %w", path, err)
	}
	return img, nil
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// readPNG decodes a PNG file into an RGBA image, converting if the decoder
// produced another pixel format.
func readPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tilepack: open page image: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tilepack: decode page image %s: %w", path, err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
