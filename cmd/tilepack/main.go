package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/phanxgames/tilepack"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
)

const defaultCacheRoot = "data/.packed"

func main() {
	app := cli.NewApp()

	app.Name = "tilepack"
	app.Usage = "tile atlas packing and cache utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache-root",
			EnvVars: []string{"TILEPACK_CACHE"},
			Value:   defaultCacheRoot,
			Usage:   "directory atlases are cached under",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log rebuild decisions to stderr",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "build",
			Usage:       "Pack atlases from tile definition files",
			Description: "Builds (or refreshes) the cached atlas for every definitions file given.",
			ArgsUsage:   "FILE...",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "page-size",
					Value: tilepack.DefaultPageSize,
					Usage: "atlas page width and height in pixels",
				},
				&cli.BoolFlag{
					Name:  "force",
					Usage: "discard any cached atlas first",
				},
			},
			Action: buildAction,
		},
		{
			Name:      "inspect",
			Usage:     "Print the cached metadata for an atlas",
			ArgsUsage: "NAME",
			Action:    inspectAction,
		},
		{
			Name:      "clean",
			Usage:     "Delete the cached atlas",
			ArgsUsage: "NAME",
			Action:    cleanAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	if c.Bool("verbose") {
		return slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return slog.New(slog.DiscardHandler)
}

func atlasName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func buildAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	size := c.Int("page-size")
	cache := tilepack.NewCache(c.String("cache-root"),
		tilepack.WithCachePageSize(size, size),
		tilepack.WithCacheLogger(newLogger(c)),
	)

	bar := progressbar.New(c.NArg())
	summaries := make([]string, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		name := atlasName(path)
		if c.Bool("force") {
			if err := cache.Remove(name); err != nil {
				return cli.Exit(err, 1)
			}
		}
		atlas, err := cache.LoadFile(path, tilepack.ImageUploader{})
		if err != nil {
			return cli.Exit(err, 1)
		}
		summaries = append(summaries, fmt.Sprintf("%s: %d tiles, %d pages",
			name, atlas.TileCount(), atlas.PageCount()))
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	for _, line := range summaries {
		fmt.Println(line)
	}
	return nil
}

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cache := tilepack.NewCache(c.String("cache-root"))
	config, err := cache.ReadConfig(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	pages := 0
	for _, frame := range config.Frames {
		if frame.Page+1 > pages {
			pages = frame.Page + 1
		}
	}
	fmt.Printf("hash:   %s\n", config.Hash)
	fmt.Printf("pages:  %d\n", pages)
	fmt.Printf("frames: %d\n", len(config.Frames))
	fmt.Printf("tiles:  %d\n", len(config.Locations))
	for _, key := range slices.Sorted(maps.Keys(config.Frames)) {
		frame := config.Frames[key]
		fmt.Printf("  %s: page %d, rect (%d, %d) %dx%d, tile %dx%d, %d tiles\n",
			key, frame.Page, frame.Rect.X, frame.Rect.Y, frame.Rect.W, frame.Rect.H,
			frame.TileW, frame.TileH, len(frame.Tiles))
	}
	return nil
}

func cleanAction(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cache := tilepack.NewCache(c.String("cache-root"))
	if err := cache.Remove(c.Args().First()); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
