package app

import (
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/llehouerou/calliope/internal/errmsg"
	"github.com/llehouerou/calliope/internal/export"
	"github.com/llehouerou/calliope/internal/importer"
	"github.com/llehouerou/calliope/internal/playlist"
)

func (a *App) importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "convert a PLS, XSPF or JSPF playlist to items",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "auto",
				Usage:   "input format: auto, pls, xspf or jspf",
			},
			&cli.BoolFlag{
				Name:  "no-metadata",
				Usage: "don't copy playlist metadata onto the first item",
			},
		},
		Action: func(c *cli.Context) error {
			path, err := inputArg(c)
			if err != nil {
				return err
			}
			format, err := importer.ParseFormat(c.String("format"))
			if err != nil {
				return errmsg.Wrap(errmsg.OpImport, path, err)
			}

			text, err := a.readAll(path)
			if err != nil {
				return err
			}
			doc, err := importer.ImportAs(format, text, importer.Options{EmbedMetadata: !c.Bool("no-metadata")})
			if err != nil {
				return errmsg.Wrap(errmsg.OpImport, path, err)
			}
			return a.writeItems(errmsg.OpImport, path, doc.Source())
		},
	}
}

func (a *App) exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "render items as a CUE, M3U, JSPF or XSPF playlist",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: " + strings.Join(export.Formats(), ", ") + " (default from config)",
			},
			&cli.StringFlag{Name: "title", Usage: "playlist title"},
			&cli.StringFlag{Name: "creator", Usage: "playlist creator"},
		},
		Action: func(c *cli.Context) error {
			path, err := inputArg(c)
			if err != nil {
				return err
			}
			name := c.String("format")
			if name == "" {
				name = a.config().Export.DefaultFormat
			}
			format, err := export.ParseFormat(name)
			if err != nil {
				return errmsg.Wrap(errmsg.OpExport, path, err)
			}

			opts := export.Options{Title: c.String("title")}
			if creator := c.String("creator"); creator != "" {
				opts.Metadata = &playlist.Metadata{Creator: creator}
			}
			return a.withInput(path, func(r *playlist.Reader) error {
				if err := export.Write(a.Stdout, format, r, opts); err != nil {
					return errmsg.Wrap(errmsg.OpExport, path, err)
				}
				return nil
			})
		},
	}
}

func (a *App) readAll(path string) ([]byte, error) {
	rc, err := a.open(path)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpReadInput, path, err)
	}
	defer rc.Close()
	text, err := io.ReadAll(rc)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpReadInput, path, err)
	}
	return text, nil
}

// writeItems drains src to stdout in the native format.
func (a *App) writeItems(op errmsg.Op, context string, src playlist.Source) error {
	return errmsg.Wrap(op, context, playlist.Write(a.Stdout, src))
}
