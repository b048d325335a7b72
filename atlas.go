package tilepack

import (
	"fmt"
	"maps"
	"slices"
)

// Atlas is the built, immutable tile atlas: the frame table plus the
// finished texture pages. An Atlas never changes after construction, so any
// number of goroutines may query it concurrently. Unknown keys and indices
// are programmer errors and panic; use the Builder to register every tile
// before building.
type Atlas struct {
	locations map[TileIndex]string  // tile index -> frame key
	frames    map[string]AtlasFrame // frame key -> placement and tile table
	pages     []Texture             // finished pages in creation order
}

// Frame returns the frame registered under the given source-image key.
func (a *Atlas) Frame(key string) AtlasFrame {
	frame, ok := a.frames[key]
	if !ok {
		panic(fmt.Sprintf("tilepack: unknown frame %q", key))
	}
	return frame
}

// Tile returns the tile data registered for the given index.
func (a *Atlas) Tile(index TileIndex) AtlasTile {
	return a.frame(index).Tiles[index]
}

// frame resolves a tile index to its frame via the locations table.
func (a *Atlas) frame(index TileIndex) AtlasFrame {
	key, ok := a.locations[index]
	if !ok {
		panic(fmt.Sprintf("tilepack: unknown tile index %d", index))
	}
	return a.frames[key]
}

// TextureOffset returns the normalized texture-space origin of the tile's
// current sub-frame on its page, for a clock reading of nowMS milliseconds.
//
// Static tiles ignore nowMS. Animated tiles advance one sampling cell to the
// right every DelayMS, looping over FrameCount frames; DelayMS must be
// positive, which AddTile enforces. Autotiles are addressed in half-size
// units, and an animated autotile advances two meta-columns per frame. The
// result is multiplied by the per-axis sampling ratio (see TileRatio), so a
// renderer samples the page at TextureOffset plus up to one sampling cell.
func (a *Atlas) TextureOffset(index TileIndex, nowMS uint64) (u, v float32) {
	frame := a.frame(index)
	tile := frame.Tiles[index]
	ru, rv := a.tileRatio(frame, tile)

	// First grid cell of the frame on its page. Ceiling division rounds a
	// rect that does not start at a tile-size multiple to the first fully
	// contained cell.
	col := tile.Col + ceilDiv(frame.Rect.X, frame.TileW)
	row := tile.Row + ceilDiv(frame.Rect.Y, frame.TileH)
	if tile.Autotile {
		col *= 2
		row *= 2
	}

	if tile.Kind == TileKindAnimated {
		advance := int(nowMS / uint64(tile.DelayMS) % uint64(tile.FrameCount))
		if tile.Autotile {
			advance *= 2
		}
		col += advance
	}

	return float32(col) * ru, float32(row) * rv
}

// TileRatio returns the texture-space size of one sampling cell for the
// tile: 1 over the page's cell count per axis. Autotiles sample at half the
// nominal tile size.
func (a *Atlas) TileRatio(index TileIndex) (float32, float32) {
	frame := a.frame(index)
	return a.tileRatio(frame, frame.Tiles[index])
}

func (a *Atlas) tileRatio(frame AtlasFrame, tile AtlasTile) (float32, float32) {
	effW, effH := frame.TileW, frame.TileH
	if tile.Autotile {
		effW /= 2
		effH /= 2
	}
	pw, ph := a.pages[frame.Page].Size()
	return 1 / float32(pw/effW), 1 / float32(ph/effH)
}

// PageRatio returns the texture-space size of one cellW x cellH cell on the
// given page. Tilemap renderers that sample a whole page at a uniform cell
// size use this instead of the per-tile TileRatio.
func (a *Atlas) PageRatio(pageIndex, cellW, cellH int) (float32, float32) {
	pw, ph := a.pages[pageIndex].Size()
	return 1 / float32(pw/cellW), 1 / float32(ph/cellH)
}

// PageOf returns the index of the page the tile's frame was packed onto.
func (a *Atlas) PageOf(index TileIndex) int {
	return a.frame(index).Page
}

// TileSize returns the nominal tile grid cell size of the tile's frame in
// pixels, before any autotile halving.
func (a *Atlas) TileSize(index TileIndex) (w, h int) {
	frame := a.frame(index)
	return frame.TileW, frame.TileH
}

// Page returns the finished texture for the given page index.
func (a *Atlas) Page(i int) Texture {
	return a.pages[i]
}

// PageCount returns the number of texture pages.
func (a *Atlas) PageCount() int {
	return len(a.pages)
}

// TileCount returns the number of registered tile indices.
func (a *Atlas) TileCount() int {
	return len(a.locations)
}

// Indices returns every registered tile index in ascending order.
func (a *Atlas) Indices() []TileIndex {
	return slices.Sorted(maps.Keys(a.locations))
}

// Config returns the persistable projection of the atlas: locations and
// frames plus the given definitions hash, without page pixel data. The
// returned config owns copies of the tables, so mutating it never touches
// the atlas.
func (a *Atlas) Config(hash string) AtlasConfig {
	return AtlasConfig{
		Locations: cloneLocations(a.locations),
		Frames:    cloneFrames(a.frames),
		Hash:      hash,
	}
}

func cloneLocations(locations map[TileIndex]string) map[TileIndex]string {
	return maps.Clone(locations)
}

func cloneFrames(frames map[string]AtlasFrame) map[string]AtlasFrame {
	out := make(map[string]AtlasFrame, len(frames))
	for key, frame := range frames {
		frame.Tiles = maps.Clone(frame.Tiles)
		out[key] = frame
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
