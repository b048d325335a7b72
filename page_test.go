package tilepack

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"testing"
)

func TestPage_PlaceBlitsPixels(t *testing.T) {
	pg := newPage(64, 64)
	red := color.RGBA{R: 255, A: 255}

	rect, err := pg.place("red", testImage(4, 4, red))
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if rect != (Rect{X: 0, Y: 0, W: 4, H: 4}) {
		t.Errorf("rect = %+v, want {0 0 4 4}", rect)
	}

	if got := pg.canvas.RGBAAt(0, 0); got != red {
		t.Errorf("canvas at (0,0) = %v, want %v", got, red)
	}
	if got := pg.canvas.RGBAAt(3, 3); got != red {
		t.Errorf("canvas at (3,3) = %v, want %v", got, red)
	}
	if got := pg.canvas.RGBAAt(4, 4); got != (color.RGBA{}) {
		t.Errorf("canvas at (4,4) = %v, want transparent", got)
	}
}

func TestPage_SecondPlacementDoesNotOverlap(t *testing.T) {
	pg := newPage(64, 64)
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	r1, err := pg.place("red", testImage(8, 8, red))
	if err != nil {
		t.Fatalf("place red: %v", err)
	}
	r2, err := pg.place("blue", testImage(8, 8, blue))
	if err != nil {
		t.Fatalf("place blue: %v", err)
	}

	if r1.X < r2.X+r2.W && r1.X+r1.W > r2.X && r1.Y < r2.Y+r2.H && r1.Y+r1.H > r2.Y {
		t.Errorf("rects overlap: %+v and %+v", r1, r2)
	}
	if got := pg.canvas.RGBAAt(r2.X, r2.Y); got != blue {
		t.Errorf("canvas at blue rect origin = %v, want %v", got, blue)
	}
}

func TestPage_DuplicateKey(t *testing.T) {
	pg := newPage(64, 64)
	img := testImage(4, 4, color.RGBA{A: 255})

	if _, err := pg.place("twice", img); err != nil {
		t.Fatalf("first place: %v", err)
	}
	_, err := pg.place("twice", img)
	if err == nil {
		t.Fatal("expected error for duplicate key, got nil")
	}
	if !strings.Contains(err.Error(), "already placed") {
		t.Errorf("error = %q, want mention of already placed", err)
	}
}

func TestPage_FullReturnsErrPageFull(t *testing.T) {
	pg := newPage(16, 16)

	if _, err := pg.place("big", testImage(16, 16, color.RGBA{A: 255})); err != nil {
		t.Fatalf("place: %v", err)
	}
	_, err := pg.place("one-more", testImage(1, 1, color.RGBA{A: 255}))
	if !errors.Is(err, ErrPageFull) {
		t.Errorf("err = %v, want ErrPageFull", err)
	}
}

func TestPage_CanFit(t *testing.T) {
	pg := newPage(32, 32)

	if !pg.canFit(testImage(32, 32, color.RGBA{})) {
		t.Error("canFit = false for page-sized image on empty page")
	}
	if pg.canFit(testImage(33, 1, color.RGBA{})) {
		t.Error("canFit = true for image wider than the page")
	}

	if _, err := pg.place("fill", testImage(32, 32, color.RGBA{A: 255})); err != nil {
		t.Fatalf("place: %v", err)
	}
	if pg.canFit(testImage(1, 1, color.RGBA{})) {
		t.Error("canFit = true on a full page")
	}
}

func BenchmarkPage_Place(b *testing.B) {
	img := testImage(24, 24, color.RGBA{R: 128, A: 255})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pg := newPage(DefaultPageSize, DefaultPageSize)
		for j := 0; j < 64; j++ {
			if _, err := pg.place(fmt.Sprintf("img-%d", j), img); err != nil {
				b.Fatal(err)
			}
		}
	}
}
