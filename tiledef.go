package tilepack

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// MapDef declares one tileset image in a definitions file.
type MapDef struct {
	FilePath string `toml:"file_path"`
	TileSize [2]int `toml:"tile_size"`
}

// TileDef declares one logical tile in a definitions file. Its TileIndex is
// the record's position in the tiles list, counting from 0.
type TileDef struct {
	Atlas    string `toml:"atlas"`
	Offset   [2]int `toml:"offset"`
	Autotile bool   `toml:"autotile"`
	Frames   int    `toml:"frames"`
	DelayMS  int    `toml:"delay_ms"`
}

// Definitions is a parsed tile definitions file: the tileset images to pack
// ([[maps]]) and the tiles addressed on them ([[tiles]]).
type Definitions struct {
	Maps  []MapDef  `toml:"maps"`
	Tiles []TileDef `toml:"tiles"`
}

// ParseDefinitions parses and validates a TOML tile definitions text.
// Definition files are external input, so malformed records are errors, not
// panics.
func ParseDefinitions(text []byte) (*Definitions, error) {
	var defs Definitions
	if err := toml.Unmarshal(text, &defs); err != nil {
		return nil, fmt.Errorf("tilepack: parse tile definitions: %w", err)
	}
	if err := defs.validate(); err != nil {
		return nil, err
	}
	return &defs, nil
}

func (d *Definitions) validate() error {
	declared := make(map[string]bool, len(d.Maps))
	for i, m := range d.Maps {
		if m.FilePath == "" {
			return fmt.Errorf("tilepack: maps[%d]: empty file_path", i)
		}
		if m.TileSize[0] <= 0 || m.TileSize[1] <= 0 {
			return fmt.Errorf("tilepack: maps[%d] (%s): tile_size must be positive, got [%d, %d]",
				i, m.FilePath, m.TileSize[0], m.TileSize[1])
		}
		declared[m.FilePath] = true
	}

	for i, t := range d.Tiles {
		if !declared[t.Atlas] {
			return fmt.Errorf("tilepack: tiles[%d]: atlas %q does not match any map file_path", i, t.Atlas)
		}
		if t.Offset[0] < 0 || t.Offset[1] < 0 {
			return fmt.Errorf("tilepack: tiles[%d]: negative offset [%d, %d]", i, t.Offset[0], t.Offset[1])
		}
		if t.Frames < 0 || t.DelayMS < 0 {
			return fmt.Errorf("tilepack: tiles[%d]: negative frames or delay_ms", i)
		}
		if t.Frames > 0 && t.DelayMS == 0 {
			return fmt.Errorf("tilepack: tiles[%d]: animated tile (frames=%d) requires positive delay_ms", i, t.Frames)
		}
	}
	return nil
}

// tile converts the record to the AtlasTile it describes. A record with
// frames > 0 is animated; everything else is static.
func (t TileDef) tile() AtlasTile {
	tile := AtlasTile{
		Col:      t.Offset[0],
		Row:      t.Offset[1],
		Autotile: t.Autotile,
		Kind:     TileKindStatic,
	}
	if t.Frames > 0 {
		tile.Kind = TileKindAnimated
		tile.FrameCount = t.Frames
		tile.DelayMS = t.DelayMS
	}
	return tile
}

// apply drives a Builder over the definitions: all frames first, then tiles
// with indices assigned sequentially by record order.
func (d *Definitions) apply(b *Builder) error {
	for _, m := range d.Maps {
		if err := b.AddFrame(m.FilePath, m.TileSize[0], m.TileSize[1]); err != nil {
			return err
		}
	}
	for i, t := range d.Tiles {
		b.AddTile(t.Atlas, TileIndex(i), t.tile())
	}
	return nil
}
