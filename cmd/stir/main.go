package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/stir"
	"github.com/bodgit/stir/cpp"
	"github.com/bodgit/stir/registry"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const defaultRegistry = "stir.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func nop() error { return nil }

func allocator(c *cli.Context, logger *log.Logger) (cpp.IDAllocator, func() error, error) {
	switch c.String("ids") {
	case "fixed":
		return cpp.FixedIDs{}, nop, nil
	case "sequential":
		return new(cpp.SequentialIDs), nop, nil
	case "registry":
		db, err := registry.Open(c.String("registry"), logger)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown id scheme \"%s\"", c.String("ids"))
	}
}

// warn prints any warnings from the last compile. With verbose logging the
// writer has already logged them.
func warn(w io.Writer, warnings []error, verbose bool) {
	if verbose {
		return
	}
	for _, err := range warnings {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "stir"
	app.Usage = "Sifteo Tiled Image Reducer"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "compile",
			Usage:       "Compile assets into C++ source",
			Description: "Reads the YAML manifest and writes a header and source file pair for the Sifteo SDK.",
			ArgsUsage:   "MANIFEST",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "header",
					Aliases: []string{"H"},
					Usage:   "write declarations to `FILE`",
				},
				&cli.StringFlag{
					Name:    "source",
					Aliases: []string{"s"},
					Usage:   "write definitions to `FILE`",
				},
				&cli.StringFlag{
					Name:  "ids",
					Value: "fixed",
					Usage: "module id scheme, one of fixed, sequential or registry",
				},
				&cli.StringFlag{
					Name:    "registry",
					EnvVars: []string{"STIR_REGISTRY"},
					Value:   filepath.Join(cwd, defaultRegistry),
					Usage:   "path to module id registry",
				},
				&cli.BoolFlag{
					Name:  "strict",
					Usage: "fail if an output file can't be opened",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := log.New(ioutil.Discard, "", 0)
				if c.Bool("verbose") {
					logger.SetOutput(os.Stderr)
				}

				ids, closeFunc, err := allocator(c, logger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer closeFunc()

				s := stir.New(ids, logger)
				s.Strict = c.Bool("strict")

				if err := s.CompileFile(c.Args().First(), c.String("header"), c.String("source")); err != nil {
					return cli.NewExitError(err, 1)
				}

				warn(os.Stderr, s.Warnings(), c.Bool("verbose"))

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
