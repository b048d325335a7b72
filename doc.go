// Package tilepack builds tile atlases for 2D tile-based renderers.
//
// A tile atlas is a set of packed RGBA texture pages plus a lookup table
// mapping logical tile indices to packed rectangles, animation metadata, and
// normalized texture coordinates. Tilepack packs variable-size tilesets onto
// fixed-size pages, resolves per-tile texture offsets at render time
// (including animated and autotile variants), and caches finished pages on
// disk keyed by a content hash of the tile definitions so unchanged
// definitions never repack.
//
// # Building
//
// [Builder] accumulates source images (frames) and tile assignments, then
// freezes them into an immutable [Atlas]:
//
//	b := tilepack.NewBuilder()
//	if err := b.AddFrame("data/terrain.png", 24, 24); err != nil {
//		log.Fatal(err)
//	}
//	b.AddTile("data/terrain.png", 0, tilepack.AtlasTile{Col: 0, Row: 0})
//	b.AddTile("data/terrain.png", 1, tilepack.AtlasTile{
//		Col: 1, Row: 0,
//		Kind: tilepack.TileKindAnimated, FrameCount: 4, DelayMS: 250,
//	})
//
//	atlas, err := b.Build(tilepack.ImageUploader{}, nil)
//
// Frames are placed first-fit across pages in creation order; a new page
// opens only when no existing page can take the image. All frames for a
// tileset must be added before its tiles.
//
// # Rendering
//
// [Atlas.TextureOffset] returns the normalized texture-space origin of a
// tile's current sub-frame for a given clock reading in milliseconds:
//
//	u, v := atlas.TextureOffset(idx, uint64(time.Since(start).Milliseconds()))
//
// Animated tiles advance one sampling cell every DelayMS, looping over
// FrameCount frames. Autotiles store a 2x2 meta-tile per logical cell and are
// sampled at half the nominal tile size.
//
// # Caching
//
// [Cache] wraps the whole build behind a rebuild-or-reuse decision keyed by
// the SHA3-256 hash of the definitions text. Unchanged definitions reload the
// persisted pages and metadata without touching the packer:
//
//	cache := tilepack.NewCache("data/.packed")
//	atlas, err := cache.LoadFile("data/tiles.toml", tilepack.EbitenUploader{})
//
// Definition files are TOML with [[maps]] (tileset image + tile grid size)
// and [[tiles]] (frame reference + grid offset + optional animation) tables;
// tile indices are assigned sequentially by record order.
//
// # Texture upload
//
// Finished pages are handed to an [Uploader]. [ImageUploader] keeps pages as
// plain CPU images (tests, tooling); [EbitenUploader] uploads them as
// [Ebitengine] images for rendering.
//
// [Ebitengine]: https://ebitengine.org
package tilepack
