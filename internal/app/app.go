// Package app wires the pipeline stages to the command line. Every command
// reads items from a file or standard input and writes to standard output.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/llehouerou/calliope/internal/cache"
	"github.com/llehouerou/calliope/internal/config"
	"github.com/llehouerou/calliope/internal/errmsg"
	"github.com/llehouerou/calliope/internal/lastfm"
	"github.com/llehouerou/calliope/internal/logging"
	"github.com/llehouerou/calliope/internal/musicbrainz"
	"github.com/llehouerou/calliope/internal/playlist"
)

// App holds the streams and collaborators shared by the commands.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	NewMusicBrainz func(baseURL string) musicbrainz.API
	NewLastfm      func(apiKey, apiSecret string) lastfm.API
	// Rand drives shuffle; nil uses the global source.
	Rand *rand.Rand

	cfg *config.Config
}

// New returns an App on the process streams with the real web clients.
func New() *App {
	return &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewMusicBrainz: func(baseURL string) musicbrainz.API {
			return musicbrainz.NewClient(baseURL)
		},
		NewLastfm: func(apiKey, apiSecret string) lastfm.API {
			return lastfm.New(apiKey, apiSecret)
		},
	}
}

// Run executes the command line and returns the process exit status.
// A closed stdout pipe ends the command quietly.
func (a *App) Run(ctx context.Context, args []string) int {
	err := a.cli().RunContext(ctx, args)
	if err == nil || errors.Is(err, syscall.EPIPE) {
		return 0
	}
	fmt.Fprintf(a.Stderr, "ERROR: %s\n", err)
	return 1
}

func (a *App) cli() *cli.App {
	return &cli.App{
		Name:      "calliope",
		Usage:     "convert, combine and annotate music playlists",
		Reader:    a.Stdin,
		Writer:    a.Stdout,
		ErrWriter: a.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "print debug messages on stderr"},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "read configuration from `FILE` only",
				EnvVars: []string{"CALLIOPE_CONFIG"},
			},
		},
		Before:         a.setup,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			a.importCommand(),
			a.exportCommand(),
			a.diffCommand(),
			a.shuffleCommand(),
			a.statCommand(),
			a.syncCommand(),
			a.scanCommand(),
			a.musicBrainzCommand(),
			a.lastfmCommand(),
		},
	}
}

func (a *App) setup(c *cli.Context) error {
	logging.SetOutput(a.Stderr)

	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return errmsg.Wrap(errmsg.OpLoadConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return errmsg.Wrap(errmsg.OpLoadConfig, path, err)
	}
	a.cfg = cfg

	if l, ok := logging.ParseLevel(cfg.LogLevel); ok {
		logging.SetLevel(l)
	}
	if c.Bool("debug") {
		logging.SetLevel(logging.LevelDebug)
	}
	return nil
}

// config returns the loaded configuration, or the defaults when a command
// runs without the root Before hook.
func (a *App) config() *config.Config {
	if a.cfg == nil {
		a.cfg = config.Default()
	}
	return a.cfg
}

// open returns the input named by path; "-" is the App's stdin, which is
// never closed.
func (a *App) open(path string) (io.ReadCloser, error) {
	if path == playlist.Stdin {
		return io.NopCloser(a.Stdin), nil
	}
	return playlist.Open(path)
}

// withInput streams the items of path into fn.
func (a *App) withInput(path string, fn func(*playlist.Reader) error) error {
	rc, err := a.open(path)
	if err != nil {
		return errmsg.Wrap(errmsg.OpReadInput, path, err)
	}
	defer rc.Close()
	return fn(playlist.NewReader(rc))
}

func (a *App) openCache(namespace string) (*cache.Cache, error) {
	c, err := cache.Open(namespace, a.config().CacheDir)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpOpenCache, namespace, err)
	}
	logging.Debug("cache: using %s", c.Path())
	return c, nil
}

// inputArg returns the single positional argument, defaulting to stdin.
func inputArg(c *cli.Context) (string, error) {
	switch c.NArg() {
	case 0:
		return playlist.Stdin, nil
	case 1:
		return c.Args().First(), nil
	}
	return "", fmt.Errorf("expected one input, got %d", c.NArg())
}
