package tilepack

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
)

// Builder accumulates source images and tile assignments, then freezes them
// into an immutable Atlas. A Builder is single-use: after Build it is spent,
// and any further call panics. Builders are not safe for concurrent use.
//
// Frames are placed first-fit across pages in creation order; a new page
// opens only when no existing page can take the image. Page order therefore
// equals page creation order, which keeps texture-handle indices stable
// across identical input sequences.
type Builder struct {
	pageW, pageH int
	source       ImageSource
	logger       *slog.Logger

	locations map[TileIndex]string
	frames    map[string]AtlasFrame
	pages     []*page
	built     bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithPageSize sets the page dimensions in pixels. Default DefaultPageSize
// square.
func WithPageSize(w, h int) BuilderOption {
	return func(b *Builder) { b.pageW, b.pageH = w, h }
}

// WithImageSource sets the source AddFrame loads images through.
func WithImageSource(src ImageSource) BuilderOption {
	return func(b *Builder) { b.source = src }
}

// WithLogger sets the logger for build diagnostics.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		pageW:     DefaultPageSize,
		pageH:     DefaultPageSize,
		source:    fileSource{},
		logger:    slog.New(slog.DiscardHandler),
		locations: make(map[TileIndex]string),
		frames:    make(map[string]AtlasFrame),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddFrame loads the image at path through the configured ImageSource and
// registers it as a frame whose tile grid cells are tileW x tileH pixels.
// The path doubles as the frame key. Calling AddFrame again with the same
// path is a no-op; the image is not reloaded.
func (b *Builder) AddFrame(path string, tileW, tileH int) error {
	b.mustAccumulating("AddFrame")
	if _, ok := b.frames[path]; ok {
		return nil
	}
	img, err := b.source.Load(path)
	if err != nil {
		return err
	}
	return b.AddFrameImage(path, img, tileW, tileH)
}

// AddFrameImage registers an already-loaded image as a frame under the given
// key. Idempotent: a key that already has a frame keeps its placement and the
// call is a no-op. An image too large for an empty page fails with
// ErrImageTooLarge.
func (b *Builder) AddFrameImage(key string, img image.Image, tileW, tileH int) error {
	b.mustAccumulating("AddFrameImage")
	if tileW <= 0 || tileH <= 0 {
		panic(fmt.Sprintf("tilepack: frame %q tile size must be positive, got %dx%d", key, tileW, tileH))
	}
	if _, ok := b.frames[key]; ok {
		return nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > b.pageW || h > b.pageH {
		return fmt.Errorf("%w: frame %q is %dx%d, page is %dx%d", ErrImageTooLarge, key, w, h, b.pageW, b.pageH)
	}

	for i, pg := range b.pages {
		if !pg.canFit(img) {
			continue
		}
		rect, err := pg.place(key, img)
		if err != nil {
			return err
		}
		b.insertFrame(key, i, rect, tileW, tileH)
		return nil
	}

	pg := newPage(b.pageW, b.pageH)
	b.pages = append(b.pages, pg)
	b.logger.Debug("tilepack: opened atlas page", "page", len(b.pages)-1, "width", b.pageW, "height", b.pageH)

	rect, err := pg.place(key, img)
	if err != nil {
		return err
	}
	b.insertFrame(key, len(b.pages)-1, rect, tileW, tileH)
	return nil
}

func (b *Builder) insertFrame(key string, pageIndex int, rect Rect, tileW, tileH int) {
	b.frames[key] = AtlasFrame{
		TileW: tileW,
		TileH: tileH,
		Page:  pageIndex,
		Rect:  rect,
		Tiles: make(map[TileIndex]AtlasTile),
	}
}

// AddTile assigns a tile index to a cell of an already-registered frame.
// The frame must exist (all frames are added before their tiles) and the
// index must be unused anywhere in the atlas; violating either is a
// programmer error and panics. Animated tiles must carry a positive
// FrameCount and DelayMS.
func (b *Builder) AddTile(key string, index TileIndex, tile AtlasTile) {
	b.mustAccumulating("AddTile")
	if index < 0 {
		panic(fmt.Sprintf("tilepack: negative tile index %d", index))
	}
	frame, ok := b.frames[key]
	if !ok {
		panic(fmt.Sprintf("tilepack: AddTile %d references unknown frame %q (frames must be added first)", index, key))
	}
	if prev, ok := b.locations[index]; ok {
		panic(fmt.Sprintf("tilepack: tile index %d already registered (frame %q)", index, prev))
	}
	if tile.Kind == TileKindAnimated && (tile.FrameCount <= 0 || tile.DelayMS <= 0) {
		panic(fmt.Sprintf("tilepack: animated tile %d needs positive FrameCount and DelayMS, got %d and %d",
			index, tile.FrameCount, tile.DelayMS))
	}

	frame.Tiles[index] = tile
	b.locations[index] = key
}

// PageCount returns the number of pages opened so far.
func (b *Builder) PageCount() int { return len(b.pages) }

// FrameCount returns the number of registered frames.
func (b *Builder) FrameCount() int { return len(b.frames) }

// TileCount returns the number of registered tile indices.
func (b *Builder) TileCount() int { return len(b.locations) }

// PageSink receives each finished page image during Build, before the page
// is uploaded. A nil sink skips persistence.
type PageSink func(index int, img *image.RGBA) error

// DirPageSink returns a PageSink that writes pages as <dir>/<N>.png, creating
// dir if needed. This is the layout the Cache reloads pages from.
func DirPageSink(dir string) PageSink {
	return func(index int, img *image.RGBA) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("tilepack: create page dir: %w", err)
		}
		if err := writePNG(filepath.Join(dir, fmt.Sprintf("%d.png", index)), img); err != nil {
			return fmt.Errorf("tilepack: write page %d: %w", index, err)
		}
		return nil
	}
}

// Build freezes the accumulated frames and tiles into an Atlas. Every page is
// handed to sink (when non-nil) and then to up, in page-index order. Build is
// one-shot: the Builder cannot be reused afterwards, and rebuilding requires
// a fresh Builder.
func (b *Builder) Build(up Uploader, sink PageSink) (*Atlas, error) {
	b.mustAccumulating("Build")
	b.built = true

	textures := make([]Texture, 0, len(b.pages))
	for i, pg := range b.pages {
		if sink != nil {
			if err := sink(i, pg.canvas); err != nil {
				return nil, err
			}
		}
		tex, err := up.Upload(pg.canvas)
		if err != nil {
			return nil, fmt.Errorf("tilepack: upload page %d: %w", i, err)
		}
		textures = append(textures, tex)
	}

	atlas := &Atlas{
		locations: cloneLocations(b.locations),
		frames:    cloneFrames(b.frames),
		pages:     textures,
	}
	b.logger.Debug("tilepack: atlas built",
		"pages", len(textures), "frames", len(atlas.frames), "tiles", len(atlas.locations))
	return atlas, nil
}

func (b *Builder) mustAccumulating(op string) {
	if b.built {
		panic(fmt.Sprintf("tilepack: %s called on a built Builder", op))
	}
}
