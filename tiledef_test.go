package tilepack

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const validDefsTOML = `
[[maps]]
file_path = "terrain.png"
tile_size = [24, 24]

[[maps]]
file_path = "water.png"
tile_size = [48, 48]

[[tiles]]
atlas = "terrain.png"
offset = [0, 0]

[[tiles]]
atlas = "terrain.png"
offset = [1, 2]
autotile = true

[[tiles]]
atlas = "water.png"
offset = [0, 0]
frames = 4
delay_ms = 150

[[tiles]]
atlas = "water.png"
offset = [2, 0]
autotile = true
frames = 2
delay_ms = 250
`

// --- ParseDefinitions tests ---

func TestParseDefinitions_Valid(t *testing.T) {
	defs, err := ParseDefinitions([]byte(validDefsTOML))
	if err != nil {
		t.Fatalf("ParseDefinitions: %v", err)
	}

	want := &Definitions{
		Maps: []MapDef{
			{FilePath: "terrain.png", TileSize: [2]int{24, 24}},
			{FilePath: "water.png", TileSize: [2]int{48, 48}},
		},
		Tiles: []TileDef{
			{Atlas: "terrain.png"},
			{Atlas: "terrain.png", Offset: [2]int{1, 2}, Autotile: true},
			{Atlas: "water.png", Frames: 4, DelayMS: 150},
			{Atlas: "water.png", Offset: [2]int{2, 0}, Autotile: true, Frames: 2, DelayMS: 250},
		},
	}
	if diff := cmp.Diff(want, defs); diff != "" {
		t.Errorf("definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefinitions_BadTOML(t *testing.T) {
	_, err := ParseDefinitions([]byte(`[[maps`))
	if err == nil {
		t.Fatal("expected error for malformed TOML, got nil")
	}
	if !strings.Contains(err.Error(), "parse tile definitions") {
		t.Errorf("err = %v, want parse failure", err)
	}
}

func TestParseDefinitions_Validation(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "empty file_path",
			text: "[[maps]]\ntile_size = [24, 24]\n",
			want: "empty file_path",
		},
		{
			name: "zero tile size",
			text: "[[maps]]\nfile_path = \"terrain.png\"\ntile_size = [0, 24]\n",
			want: "tile_size must be positive",
		},
		{
			name: "unknown atlas",
			text: "[[maps]]\nfile_path = \"terrain.png\"\ntile_size = [24, 24]\n\n[[tiles]]\natlas = \"other.png\"\n",
			want: "does not match any map",
		},
		{
			name: "negative offset",
			text: "[[maps]]\nfile_path = \"terrain.png\"\ntile_size = [24, 24]\n\n[[tiles]]\natlas = \"terrain.png\"\noffset = [-1, 0]\n",
			want: "negative offset",
		},
		{
			name: "negative frames",
			text: "[[maps]]\nfile_path = \"terrain.png\"\ntile_size = [24, 24]\n\n[[tiles]]\natlas = \"terrain.png\"\nframes = -1\n",
			want: "negative frames or delay_ms",
		},
		{
			name: "animated without delay",
			text: "[[maps]]\nfile_path = \"terrain.png\"\ntile_size = [24, 24]\n\n[[tiles]]\natlas = \"terrain.png\"\nframes = 4\n",
			want: "requires positive delay_ms",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDefinitions([]byte(tc.text))
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

// --- conversion and apply tests ---

func TestTileDef_Conversion(t *testing.T) {
	static := TileDef{Atlas: "a", Offset: [2]int{3, 4}, Autotile: true}
	if got := static.tile(); got != (AtlasTile{Col: 3, Row: 4, Autotile: true, Kind: TileKindStatic}) {
		t.Errorf("static tile = %+v", got)
	}

	animated := TileDef{Atlas: "a", Offset: [2]int{0, 1}, Frames: 6, DelayMS: 80}
	want := AtlasTile{Col: 0, Row: 1, Kind: TileKindAnimated, FrameCount: 6, DelayMS: 80}
	if got := animated.tile(); got != want {
		t.Errorf("animated tile = %+v, want %+v", got, want)
	}
}

func TestDefinitions_Apply(t *testing.T) {
	defs, err := ParseDefinitions([]byte(validDefsTOML))
	if err != nil {
		t.Fatalf("ParseDefinitions: %v", err)
	}

	src := &mapSource{images: map[string]image.Image{
		"terrain.png": testImage(96, 96, color.RGBA{G: 255, A: 255}),
		"water.png":   testImage(192, 48, color.RGBA{B: 255, A: 255}),
	}}
	b := NewBuilder(WithPageSize(256, 256), WithImageSource(src))
	if err := defs.apply(b); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if b.FrameCount() != 2 || b.TileCount() != 4 {
		t.Fatalf("builder has %d frames and %d tiles, want 2 and 4", b.FrameCount(), b.TileCount())
	}
	atlas := mustAtlas(t, b)

	// Indices follow record order.
	if got, want := atlas.Indices(), []TileIndex{0, 1, 2, 3}; !cmp.Equal(got, want) {
		t.Fatalf("Indices = %v, want %v", got, want)
	}
	if got := atlas.Tile(1); got != (AtlasTile{Col: 1, Row: 2, Autotile: true}) {
		t.Errorf("Tile(1) = %+v", got)
	}
	if got := atlas.Tile(2); got != (AtlasTile{Kind: TileKindAnimated, FrameCount: 4, DelayMS: 150}) {
		t.Errorf("Tile(2) = %+v", got)
	}
	if w, h := atlas.TileSize(3); w != 48 || h != 48 {
		t.Errorf("TileSize(3) = %dx%d, want 48x48", w, h)
	}
}

func TestDefinitions_Apply_MissingImage(t *testing.T) {
	defs, err := ParseDefinitions([]byte(validDefsTOML))
	if err != nil {
		t.Fatalf("ParseDefinitions: %v", err)
	}

	b := NewBuilder(WithImageSource(&mapSource{}))
	if err := defs.apply(b); err == nil {
		t.Fatal("expected error for missing source image, got nil")
	}
}

func TestDefinitions_Apply_DuplicateMapEntries(t *testing.T) {
	text := `
[[maps]]
file_path = "terrain.png"
tile_size = [24, 24]

[[maps]]
file_path = "terrain.png"
tile_size = [24, 24]
`
	defs, err := ParseDefinitions([]byte(text))
	if err != nil {
		t.Fatalf("ParseDefinitions: %v", err)
	}

	src := &mapSource{images: map[string]image.Image{
		"terrain.png": testImage(48, 48, color.RGBA{A: 255}),
	}}
	b := NewBuilder(WithPageSize(128, 128), WithImageSource(src))
	if err := defs.apply(b); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if b.FrameCount() != 1 {
		t.Errorf("FrameCount = %d, want 1", b.FrameCount())
	}
	if src.loads != 1 {
		t.Errorf("source loads = %d, want 1", src.loads)
	}
}
