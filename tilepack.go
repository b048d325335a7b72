package tilepack

// Default page dimensions. Multi-page tile atlases use DefaultPageSize;
// the single-page TextureAtlas uses DefaultFlatAtlasSize.
const (
	DefaultPageSize      = 2048
	DefaultFlatAtlasSize = 4096
)

// Rect is an integer rectangle in page-pixel space. Packed rects are
// non-negative, lie within page bounds, and never overlap on the same page.
type Rect struct {
	X, Y int // top-left corner on the page
	W, H int // width and height in pixels
}

// TileIndex identifies one logical tile. Indices are assigned by the caller,
// are non-negative, and are unique across the whole atlas. Many indices may
// share one source image.
type TileIndex int

// TileKind distinguishes static tiles from looping animations.
type TileKind uint8

const (
	TileKindStatic   TileKind = iota // one fixed sub-frame
	TileKindAnimated                 // loops over FrameCount sub-frames every DelayMS
)

// AtlasTile describes one logical tile within its frame's tile grid.
// Value type; owned by exactly one AtlasFrame and looked up by TileIndex.
type AtlasTile struct {
	Col, Row   int      // grid cell within the frame, in tile-size units
	Autotile   bool     // source art stores a 2x2 meta-tile per logical cell
	Kind       TileKind // static or animated
	FrameCount int      // animation frame count; animated tiles only, > 0
	DelayMS    int      // milliseconds per animation frame; animated tiles only, > 0
}

// AtlasFrame is the packed placement and tile table for one source image.
// A frame may host many tile indices (a sprite sheet).
type AtlasFrame struct {
	TileW, TileH int                     // pixel size of one grid cell
	Page         int                     // page the frame was packed onto
	Rect         Rect                    // packed bounding rectangle on that page
	Tiles        map[TileIndex]AtlasTile // tiles hosted by this frame
}
