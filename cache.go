package tilepack

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// cacheConfigFile is the metadata blob inside each cached atlas directory;
// pages sit next to it as <N>.png.
const cacheConfigFile = "cache.bin"

// Cache decides rebuild-vs-reuse for named atlases, keyed by a content hash
// of the tile definitions text. Each atlas owns one subdirectory under the
// cache root holding its config blob and page images.
//
// Writes are not atomic. A crash mid-rebuild leaves a stale config whose
// hash no longer matches, which forces a clean rebuild on the next run.
type Cache struct {
	root         string
	pageW, pageH int
	source       ImageSource
	logger       *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCachePageSize sets the page dimensions rebuilds pack onto. Default
// DefaultPageSize square.
func WithCachePageSize(w, h int) CacheOption {
	return func(c *Cache) { c.pageW, c.pageH = w, h }
}

// WithCacheImageSource sets the source rebuilds load tileset images through.
func WithCacheImageSource(src ImageSource) CacheOption {
	return func(c *Cache) { c.source = src }
}

// WithCacheLogger sets the logger for rebuild/reuse decisions.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) { c.logger = logger }
}

// NewCache creates a Cache rooted at the given directory. The directory is
// created lazily on the first rebuild.
func NewCache(root string, opts ...CacheOption) *Cache {
	c := &Cache{
		root:   root,
		pageW:  DefaultPageSize,
		pageH:  DefaultPageSize,
		source: fileSource{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the cache directory for a named atlas.
func (c *Cache) Dir(name string) string {
	return filepath.Join(c.root, name)
}

// Remove deletes the cached atlas directory for name, forcing the next Load
// to rebuild. Removing an atlas that was never cached is a no-op.
func (c *Cache) Remove(name string) error {
	if err := os.RemoveAll(c.Dir(name)); err != nil {
		return fmt.Errorf("tilepack: remove cached atlas %s: %w", name, err)
	}
	return nil
}

// Load returns the atlas for the given definitions text, rebuilding only
// when no cached config exists for name or the cached hash no longer matches
// HashText(defText). On reuse the persisted pages and metadata are reloaded
// as-is: the packer and the image source are never invoked. A cached config
// that exists but cannot be read or decoded is an error, not a rebuild.
func (c *Cache) Load(name string, defText []byte, up Uploader) (*Atlas, error) {
	hash := HashText(defText)
	dir := c.Dir(name)

	data, err := os.ReadFile(filepath.Join(dir, cacheConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Info("tilepack: no cached atlas, building", "name", name)
		return c.rebuild(dir, defText, hash, up)
	}
	if err != nil {
		return nil, fmt.Errorf("tilepack: read cached config for %s: %w", name, err)
	}

	config, err := DecodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("tilepack: cached config for %s: %w", name, err)
	}
	if config.Hash != hash {
		c.logger.Info("tilepack: tile definitions changed, rebuilding", "name", name)
		return c.rebuild(dir, defText, hash, up)
	}

	c.logger.Info("tilepack: using cached atlas", "name", name, "dir", dir)
	return c.reuse(dir, config, up)
}

// ReadConfig reads and decodes the cached config for name without touching
// the page images. Tooling uses this to inspect a cache entry.
func (c *Cache) ReadConfig(name string) (AtlasConfig, error) {
	data, err := os.ReadFile(filepath.Join(c.Dir(name), cacheConfigFile))
	if err != nil {
		return AtlasConfig{}, fmt.Errorf("tilepack: read cached config for %s: %w", name, err)
	}
	config, err := DecodeConfig(data)
	if err != nil {
		return AtlasConfig{}, fmt.Errorf("tilepack: cached config for %s: %w", name, err)
	}
	return config, nil
}

// LoadFile reads a definitions file and loads it under the file's stem, so
// "data/creatures.toml" caches as "creatures".
func (c *Cache) LoadFile(path string, up Uploader) (*Atlas, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tilepack: read tile definitions: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return c.Load(name, text, up)
}

func (c *Cache) rebuild(dir string, defText []byte, hash string, up Uploader) (*Atlas, error) {
	defs, err := ParseDefinitions(defText)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(
		WithPageSize(c.pageW, c.pageH),
		WithImageSource(c.source),
		WithLogger(c.logger),
	)
	if err := defs.apply(b); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("tilepack: create cache dir: %w", err)
	}
	atlas, err := b.Build(up, DirPageSink(dir))
	if err != nil {
		return nil, err
	}

	// Pages first, config last: the config commits the rebuild.
	config := atlas.Config(hash)
	path := filepath.Join(dir, cacheConfigFile)
	if err := os.WriteFile(path, config.Encode(), 0o644); err != nil {
		return nil, fmt.Errorf("tilepack: write cached config: %w", err)
	}
	return atlas, nil
}

func (c *Cache) reuse(dir string, config AtlasConfig, up Uploader) (*Atlas, error) {
	// Pages reload in numeric index order so texture handles keep the
	// ordering the build produced.
	count := 0
	for _, frame := range config.Frames {
		if frame.Page+1 > count {
			count = frame.Page + 1
		}
	}

	pages := make([]Texture, count)
	for i := range count {
		img, err := readPNG(filepath.Join(dir, fmt.Sprintf("%d.png", i)))
		if err != nil {
			return nil, err
		}
		tex, err := up.Upload(img)
		if err != nil {
			return nil, fmt.Errorf("tilepack: upload page %d: %w", i, err)
		}
		pages[i] = tex
	}

	// The atlas takes over the freshly decoded tables; nothing else holds
	// the config.
	return &Atlas{
		locations: config.Locations,
		frames:    config.Frames,
		pages:     pages,
	}, nil
}
