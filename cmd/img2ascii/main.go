package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/internal/shell"
	"github.com/wbrown/img2ascii/output"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// loadImage reads the IMAGE argument and applies the preprocessing flags.
func loadImage(c *cli.Context, logger *log.Logger) (*imageutil.RGBAImage, error) {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	img, err := imageutil.LoadImage(c.Args().First())
	if err != nil {
		return nil, err
	}
	logger.Printf("Loaded %s: %dx%d", c.Args().First(), img.Width(), img.Height())

	if maxSide := c.Int("max-size"); maxSide > 0 {
		img = imageutil.FitWithin(img, maxSide, imageutil.InterpolationArea)
		logger.Printf("Fitted within %dpx: %dx%d", maxSide, img.Width(), img.Height())
	}

	filter, err := imageutil.ParseFilter(c.String("filter"))
	if err != nil {
		return nil, err
	}
	return filter.Apply(img), nil
}

// parseChars builds the character set from the --chars ranges.
func parseChars(c *cli.Context) (*img2ascii.CharSet, error) {
	chars := img2ascii.NewCharSet()
	for _, spec := range c.StringSlice("chars") {
		if err := chars.Add(strings.TrimSpace(spec)); err != nil {
			return nil, err
		}
	}
	return chars, nil
}

func matcherOptions(c *cli.Context) []img2ascii.MatcherOption {
	return []img2ascii.MatcherOption{
		img2ascii.WithGlyphSize(c.Int("glyph-size")),
		img2ascii.WithWorkers(c.Int("workers")),
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "img2ascii"
	app.Usage = "Render images as brightness-matched text"
	app.Version = "1.0.0"

	imageFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "max-size",
			Usage: "downscale so neither side exceeds this many pixels, 0 to disable",
		},
		&cli.StringFlag{
			Name:  "filter",
			Value: "none",
			Usage: "preprocessing filter: none, sharpen or blur",
		},
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "font",
			EnvVars: []string{"IMG2ASCII_FONT"},
			Value:   img2ascii.DefaultFont,
			Usage:   "built-in font, font family name or path to a font file",
		},
		&cli.IntFlag{
			Name:  "glyph-size",
			Value: img2ascii.DefaultGlyphSize,
			Usage: "glyph bitmap edge length in pixels",
		},
		&cli.IntFlag{
			Name:    "workers",
			EnvVars: []string{"IMG2ASCII_WORKERS"},
			Value:   1,
			Usage:   "number of rows matched concurrently",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "shell",
			Usage:     "Explore character sets and resolutions interactively",
			ArgsUsage: "IMAGE",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "output",
					Value: shell.DefaultConfig().OutputPath,
					Usage: "HTML file written by render",
				},
			}, imageFlags...),
			Action: func(c *cli.Context) error {
				logger := newLogger(c)

				img, err := loadImage(c, logger)
				if err != nil {
					return cli.Exit(err, 1)
				}

				cfg := shell.DefaultConfig()
				cfg.FontName = c.String("font")
				cfg.OutputPath = c.String("output")

				s, err := shell.New(img, cfg, logger, matcherOptions(c)...)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if err := s.Run(os.Stdin, os.Stdout); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "render",
			Usage:     "Render an image once",
			ArgsUsage: "IMAGE",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Value: shell.DefaultConfig().InitialCharsInRow,
					Usage: "characters per row",
				},
				&cli.StringSliceFlag{
					Name:  "chars",
					Value: cli.NewStringSlice(shell.DefaultConfig().InitialChars),
					Usage: "character ranges, e.g. a-z, all, space or a single character",
				},
				&cli.StringFlag{
					Name:  "html",
					Usage: "write an HTML page instead of printing to stdout",
				},
			}, imageFlags...),
			Action: func(c *cli.Context) error {
				logger := newLogger(c)

				img, err := loadImage(c, logger)
				if err != nil {
					return cli.Exit(err, 1)
				}

				chars, err := parseChars(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				opts := append(matcherOptions(c),
					img2ascii.WithFont(c.String("font")),
					img2ascii.WithLogger(logger))
				m := img2ascii.NewMatcher(img, opts...)

				start := time.Now()
				grid, err := m.ChooseChars(c.Int("width"), chars.Runes())
				if err != nil {
					return cli.Exit(err, 1)
				}
				logger.Printf("Computation time: %v", time.Since(start))

				var w output.Writer = output.NewConsole(os.Stdout)
				if path := c.String("html"); path != "" {
					w = output.NewHTML(path, c.String("font"))
				}
				if err := w.WriteGrid(grid); err != nil {
					return cli.Exit(err, 1)
				}
				if path := c.String("html"); path != "" {
					fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
				}
				return nil
			},
		},
		{
			Name:  "glyphs",
			Usage: "Print the brightness table of a character set",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "chars",
					Value: cli.NewStringSlice(shell.DefaultConfig().InitialChars),
					Usage: "character ranges, e.g. a-z, all, space or a single character",
				},
				&cli.BoolFlag{
					Name:  "bitmaps",
					Usage: "also draw each rasterized glyph",
				},
			},
			Action: func(c *cli.Context) error {
				chars, err := parseChars(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				fr := img2ascii.NewFontRasterizer()
				font, size := c.String("font"), c.Int("glyph-size")
				table, err := img2ascii.BuildBrightnessTable(fr, font, size, chars.Runes())
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, e := range table {
					g, err := fr.Rasterize(e.Char, font, size)
					if err != nil {
						return cli.Exit(err, 1)
					}
					fmt.Printf("%q\t%4d\t%.4f\n", e.Char, g.Ink(), e.Brightness)
					if c.Bool("bitmaps") {
						fmt.Print(g)
					}
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
