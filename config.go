package tilepack

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"golang.org/x/crypto/sha3"
)

// ErrInvalidConfig reports a cache config blob that cannot be decoded.
var ErrInvalidConfig = errors.New("tilepack: invalid atlas config")

// AtlasConfig is the persistable projection of an Atlas: the frame table and
// the content hash of the definitions it was built from, without page pixel
// data. Pages are persisted separately as index-named PNG files and matched
// back up by the Cache.
type AtlasConfig struct {
	Locations map[TileIndex]string
	Frames    map[string]AtlasFrame
	Hash      string
}

// HashText returns the SHA3-256 hex digest of a tile definitions text.
// The Cache compares this against the persisted hash to decide
// rebuild-vs-reuse.
func HashText(text []byte) string {
	sum := sha3.Sum256(text)
	return hex.EncodeToString(sum[:])
}

// Encode serializes the config as a compact binary blob. The format is
// versionless: uvarint scalars and length-prefixed strings, maps written in
// sorted key order so identical configs encode to identical bytes.
func (c AtlasConfig) Encode() []byte {
	buf := make([]byte, 0, 256)
	buf = appendString(buf, c.Hash)

	indices := slices.Sorted(maps.Keys(c.Locations))
	buf = binary.AppendUvarint(buf, uint64(len(indices)))
	for _, index := range indices {
		buf = binary.AppendUvarint(buf, uint64(index))
		buf = appendString(buf, c.Locations[index])
	}

	keys := slices.Sorted(maps.Keys(c.Frames))
	buf = binary.AppendUvarint(buf, uint64(len(keys)))
	for _, key := range keys {
		frame := c.Frames[key]
		buf = appendString(buf, key)
		buf = binary.AppendUvarint(buf, uint64(frame.TileW))
		buf = binary.AppendUvarint(buf, uint64(frame.TileH))
		buf = binary.AppendUvarint(buf, uint64(frame.Page))
		buf = binary.AppendUvarint(buf, uint64(frame.Rect.X))
		buf = binary.AppendUvarint(buf, uint64(frame.Rect.Y))
		buf = binary.AppendUvarint(buf, uint64(frame.Rect.W))
		buf = binary.AppendUvarint(buf, uint64(frame.Rect.H))

		tileIndices := slices.Sorted(maps.Keys(frame.Tiles))
		buf = binary.AppendUvarint(buf, uint64(len(tileIndices)))
		for _, index := range tileIndices {
			tile := frame.Tiles[index]
			buf = binary.AppendUvarint(buf, uint64(index))
			buf = binary.AppendUvarint(buf, uint64(tile.Col))
			buf = binary.AppendUvarint(buf, uint64(tile.Row))
			autotile := uint64(0)
			if tile.Autotile {
				autotile = 1
			}
			buf = binary.AppendUvarint(buf, autotile)
			buf = binary.AppendUvarint(buf, uint64(tile.Kind))
			if tile.Kind == TileKindAnimated {
				buf = binary.AppendUvarint(buf, uint64(tile.FrameCount))
				buf = binary.AppendUvarint(buf, uint64(tile.DelayMS))
			}
		}
	}
	return buf
}

// DecodeConfig deserializes a blob produced by Encode. Locations, Frames,
// and Hash round-trip exactly. Any malformed input fails with a wrapped
// ErrInvalidConfig; a failed decode is never silently treated as a cache
// miss.
func DecodeConfig(data []byte) (AtlasConfig, error) {
	r := bytes.NewReader(data)

	var err error
	readUvarint := func() uint64 {
		if err != nil {
			return 0
		}
		var v uint64
		v, err = binary.ReadUvarint(r)
		return v
	}
	readString := func() string {
		n := readUvarint()
		if err != nil {
			return ""
		}
		if n > uint64(r.Len()) {
			err = fmt.Errorf("string length %d exceeds remaining %d bytes", n, r.Len())
			return ""
		}
		b := make([]byte, n)
		_, err = io.ReadFull(r, b)
		return string(b)
	}

	config := AtlasConfig{
		Locations: make(map[TileIndex]string),
		Frames:    make(map[string]AtlasFrame),
	}
	config.Hash = readString()

	numLocations := readUvarint()
	for range numLocations {
		if err != nil {
			break
		}
		index := TileIndex(readUvarint())
		config.Locations[index] = readString()
	}

	numFrames := readUvarint()
	for range numFrames {
		if err != nil {
			break
		}
		key := readString()
		frame := AtlasFrame{
			TileW: int(readUvarint()),
			TileH: int(readUvarint()),
			Page:  int(readUvarint()),
			Rect: Rect{
				X: int(readUvarint()),
				Y: int(readUvarint()),
				W: int(readUvarint()),
				H: int(readUvarint()),
			},
			Tiles: make(map[TileIndex]AtlasTile),
		}

		numTiles := readUvarint()
		for range numTiles {
			if err != nil {
				break
			}
			index := TileIndex(readUvarint())
			tile := AtlasTile{
				Col: int(readUvarint()),
				Row: int(readUvarint()),
			}
			tile.Autotile = readUvarint() != 0
			kind := readUvarint()
			if err == nil && kind > uint64(TileKindAnimated) {
				err = fmt.Errorf("unknown tile kind %d", kind)
				break
			}
			tile.Kind = TileKind(kind)
			if tile.Kind == TileKindAnimated {
				tile.FrameCount = int(readUvarint())
				tile.DelayMS = int(readUvarint())
			}
			frame.Tiles[index] = tile
		}
		config.Frames[key] = frame
	}

	if err == nil && r.Len() != 0 {
		err = fmt.Errorf("%d trailing bytes", r.Len())
	}
	if err != nil {
		return AtlasConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return config, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}
