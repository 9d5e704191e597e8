package app

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/llehouerou/calliope/internal/errmsg"
	"github.com/llehouerou/calliope/internal/playlist"
	"github.com/llehouerou/calliope/internal/scan"
	"github.com/llehouerou/calliope/internal/transfer"
)

func (a *App) scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "list the audio files of a directory with their tags",
		ArgsUsage: "DIR",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one directory, got %d", c.NArg())
			}
			dir := c.Args().First()
			return a.writeItems(errmsg.OpScan, dir, scan.Dir(dir))
		},
	}
}

func (a *App) syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "copy or transcode the files of a playlist into a directory",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "target", Aliases: []string{"t"}, Required: true, Usage: "destination `DIR`"},
			&cli.BoolFlag{Name: "dry-run", Usage: "print the operations instead of running them"},
			&cli.StringSliceFlag{
				Name:  "allow-format",
				Usage: "file extension copied as-is, others are transcoded to mp3 (default from config)",
			},
			&cli.StringFlag{
				Name:  "folder-structure",
				Usage: "source, flat, hierarchical or single (default from config)",
			},
			&cli.BoolFlag{Name: "album-per-dir", Usage: "put the tracks of each album in their own directory"},
			&cli.BoolFlag{Name: "number-dirs", Usage: "prefix album directories with their position"},
			&cli.BoolFlag{Name: "number-files", Usage: "prefix file names with the track number"},
		},
		Action: func(c *cli.Context) error {
			path, err := inputArg(c)
			if err != nil {
				return err
			}
			cfg := a.config().Sync

			allow := c.StringSlice("allow-format")
			if len(allow) == 0 {
				allow = cfg.AllowFormats
			}
			name := c.String("folder-structure")
			if name == "" {
				name = cfg.FolderStructure
			}
			structure, err := transfer.ParseFolderStructure(name)
			if err != nil {
				return errmsg.Wrap(errmsg.OpSyncPlan, path, err)
			}

			opts := transfer.Options{
				Target:       c.String("target"),
				AllowFormats: allow,
				Structure:    structure,
				AlbumPerDir:  c.Bool("album-per-dir"),
				NumberDirs:   c.Bool("number-dirs"),
				NumberFiles:  c.Bool("number-files"),
			}
			var ops []transfer.Operation
			err = a.withInput(path, func(r *playlist.Reader) error {
				var err error
				ops, err = transfer.Plan(r, opts)
				return err
			})
			if err != nil {
				return errmsg.Wrap(errmsg.OpSyncPlan, path, err)
			}

			if c.Bool("dry-run") {
				return transfer.Print(a.Stdout, ops)
			}
			return errmsg.Wrap(errmsg.OpSync, opts.Target, transfer.NewRunner().Run(c.Context, ops))
		},
	}
}
