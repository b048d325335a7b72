package tilepack

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// Capacity errors. Both are fatal for the build that hits them; there is no
// automatic page-size escalation.
var (
	// ErrPageFull reports that a page has no free space left for an image.
	ErrPageFull = errors.New("tilepack: page is full")

	// ErrImageTooLarge reports an image that exceeds the page size and can
	// therefore never be placed, even on an empty page.
	ErrImageTooLarge = errors.New("tilepack: image exceeds page size")
)

// page is one fixed-size texture page under construction: a packer for
// free-space bookkeeping plus the RGBA canvas the packed images are
// composited onto.
type page struct {
	packer *shelfPacker
	canvas *image.RGBA
	rects  map[string]Rect // placed images by key
}

func newPage(w, h int) *page {
	return &page{
		packer: newShelfPacker(w, h),
		canvas: image.NewRGBA(image.Rect(0, 0, w, h)),
		rects:  make(map[string]Rect),
	}
}

// canFit reports whether img could be placed on this page.
func (p *page) canFit(img image.Image) bool {
	bounds := img.Bounds()
	return p.packer.canFit(bounds.Dx(), bounds.Dy())
}

// place packs img onto the page under the given key and blits its pixels
// onto the canvas. The key must not already exist on this page.
func (p *page) place(key string, img image.Image) (Rect, error) {
	if _, ok := p.rects[key]; ok {
		return Rect{}, fmt.Errorf("tilepack: image %q already placed on page", key)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	x, y, ok := p.packer.place(w, h)
	if !ok {
		return Rect{}, fmt.Errorf("%w: no space for %q (%dx%d)", ErrPageFull, key, w, h)
	}

	draw.Draw(p.canvas, image.Rect(x, y, x+w, y+h), img, bounds.Min, draw.Src)

	rect := Rect{X: x, Y: y, W: w, H: h}
	p.rects[key] = rect
	return rect, nil
}
