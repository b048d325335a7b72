package tilepack

import (
	"fmt"
	"image"
	"maps"
)

// TextureAtlasBuilder packs named images onto a single fixed-size page.
// It is the untiled counterpart of Builder for sprite art that has no tile
// grid or animation: icons, portraits, UI elements. Single-use, like
// Builder.
type TextureAtlasBuilder struct {
	page    *page
	regions map[string]Rect
	built   bool
}

// NewTextureAtlasBuilder creates an empty builder with a
// DefaultFlatAtlasSize square page.
func NewTextureAtlasBuilder() *TextureAtlasBuilder {
	return &TextureAtlasBuilder{
		page:    newPage(DefaultFlatAtlasSize, DefaultFlatAtlasSize),
		regions: make(map[string]Rect),
	}
}

// Add packs an image under the given name. Names are unique; adding a name
// twice is a programmer error and panics. An image the page cannot take
// fails with ErrPageFull.
func (b *TextureAtlasBuilder) Add(name string, img image.Image) error {
	b.mustAccumulating("Add")
	if _, ok := b.regions[name]; ok {
		panic(fmt.Sprintf("tilepack: texture %q already added to atlas", name))
	}
	rect, err := b.page.place(name, img)
	if err != nil {
		return err
	}
	b.regions[name] = rect
	return nil
}

// AddFile loads the image at path from disk and packs it under the given
// name.
func (b *TextureAtlasBuilder) AddFile(name, path string) error {
	b.mustAccumulating("AddFile")
	img, err := fileSource{}.Load(path)
	if err != nil {
		return err
	}
	return b.Add(name, img)
}

// Build freezes the packed page into a TextureAtlas. When pngPath is
// non-empty the page image is also written there. One-shot.
func (b *TextureAtlasBuilder) Build(up Uploader, pngPath string) (*TextureAtlas, error) {
	b.mustAccumulating("Build")
	b.built = true

	if pngPath != "" {
		if err := writePNG(pngPath, b.page.canvas); err != nil {
			return nil, fmt.Errorf("tilepack: write atlas image: %w", err)
		}
	}
	tex, err := up.Upload(b.page.canvas)
	if err != nil {
		return nil, fmt.Errorf("tilepack: upload atlas: %w", err)
	}

	return &TextureAtlas{
		texture: tex,
		regions: maps.Clone(b.regions),
	}, nil
}

func (b *TextureAtlasBuilder) mustAccumulating(op string) {
	if b.built {
		panic(fmt.Sprintf("tilepack: %s called on a built TextureAtlasBuilder", op))
	}
}

// TextureAtlas is a built single-page atlas of named regions. Immutable and
// safe for concurrent readers.
type TextureAtlas struct {
	texture Texture
	regions map[string]Rect
}

// Texture returns the atlas page.
func (a *TextureAtlas) Texture() Texture {
	return a.texture
}

// Region returns the packed rectangle for a named image. Unknown names are
// programmer errors and panic.
func (a *TextureAtlas) Region(name string) Rect {
	rect, ok := a.regions[name]
	if !ok {
		panic(fmt.Sprintf("tilepack: unknown atlas texture %q", name))
	}
	return rect
}
