package app

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/llehouerou/calliope/internal/diff"
	"github.com/llehouerou/calliope/internal/errmsg"
	"github.com/llehouerou/calliope/internal/playlist"
	"github.com/llehouerou/calliope/internal/shuffle"
	"github.com/llehouerou/calliope/internal/stat"
)

func (a *App) diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "list the items of A that are missing from B",
		ArgsUsage: "A B",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected two inputs, got %d", c.NArg())
			}
			pathA, pathB := c.Args().Get(0), c.Args().Get(1)
			if pathA == playlist.Stdin && pathB == playlist.Stdin {
				return fmt.Errorf("only one input can be read from stdin")
			}

			var items []playlist.Item
			err := a.withInput(pathA, func(ra *playlist.Reader) error {
				return a.withInput(pathB, func(rb *playlist.Reader) error {
					var err error
					items, err = diff.Diff(ra, rb)
					return err
				})
			})
			if err != nil {
				return errmsg.Wrap(errmsg.OpDiff, pathA+" "+pathB, err)
			}
			return a.writeItems(errmsg.OpDiff, pathA+" "+pathB, playlist.Items(items...))
		},
	}
}

func (a *App) shuffleCommand() *cli.Command {
	return &cli.Command{
		Name:      "shuffle",
		Usage:     "print the items in random order",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"c"},
				Usage:   "keep only the first `N` items (0 keeps all)",
			},
		},
		Action: func(c *cli.Context) error {
			path, err := inputArg(c)
			if err != nil {
				return err
			}
			var items []playlist.Item
			err = a.withInput(path, func(r *playlist.Reader) error {
				var err error
				items, err = shuffle.Shuffle(r, c.Int("count"), a.Rand)
				return err
			})
			if err != nil {
				return errmsg.Wrap(errmsg.OpShuffle, path, err)
			}
			return a.writeItems(errmsg.OpShuffle, path, playlist.Items(items...))
		},
	}
}

func (a *App) statCommand() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "print item count, duration and size on disk",
		ArgsUsage: "[FILE]",
		Action: func(c *cli.Context) error {
			path, err := inputArg(c)
			if err != nil {
				return err
			}
			var stats stat.Stats
			err = a.withInput(path, func(r *playlist.Reader) error {
				var err error
				stats, err = stat.Measure(r)
				return err
			})
			if err != nil {
				return errmsg.Wrap(errmsg.OpStat, path, err)
			}
			return stats.Report(a.Stdout)
		},
	}
}
