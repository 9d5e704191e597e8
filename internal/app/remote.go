package app

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/llehouerou/calliope/internal/errmsg"
	"github.com/llehouerou/calliope/internal/lastfm"
	"github.com/llehouerou/calliope/internal/musicbrainz"
	"github.com/llehouerou/calliope/internal/playlist"
)

// ErrNoLastfmCredentials is returned by lastfm commands without an API key.
var ErrNoLastfmCredentials = errors.New("lastfm.api_key and lastfm.api_secret are not configured")

const (
	includeURLs       = "urls"
	includeRecordings = "recordings"
	includeCoverArt   = "coverart"
	includeTags       = "tags"
	includeSimilar    = "similar"
)

// includes splits the values of a repeatable, comma separated flag and
// rejects names outside allowed.
func includes(c *cli.Context, allowed ...string) (map[string]bool, error) {
	set := map[string]bool{}
	for _, v := range c.StringSlice("include") {
		for name := range strings.SplitSeq(v, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if !slices.Contains(allowed, name) {
				return nil, fmt.Errorf("unknown --include %q, expected one of %s", name, strings.Join(allowed, ", "))
			}
			set[name] = true
		}
	}
	return set, nil
}

func (a *App) musicBrainzCommand() *cli.Command {
	return &cli.Command{
		Name:  "musicbrainz",
		Usage: "query the MusicBrainz music database",
		Subcommands: []*cli.Command{
			{
				Name:      "annotate",
				Usage:     "add MusicBrainz artist, recording and cover art data to items",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "include",
						Aliases: []string{"i"},
						Usage:   "extra data: urls, recordings, coverart",
					},
				},
				Action: a.musicBrainzAnnotate,
			},
		},
	}
}

func (a *App) musicBrainzAnnotate(c *cli.Context) error {
	path, err := inputArg(c)
	if err != nil {
		return err
	}
	inc, err := includes(c, includeURLs, includeRecordings, includeCoverArt)
	if err != nil {
		return err
	}
	opts := musicbrainz.Options{
		URLs:       inc[includeURLs],
		Recordings: inc[includeRecordings] || inc[includeCoverArt],
		CoverArt:   inc[includeCoverArt],
	}

	store, err := a.openCache("musicbrainz")
	if err != nil {
		return err
	}
	defer store.Close()

	api := a.NewMusicBrainz(a.config().MusicBrainz.BaseURL)
	return a.withInput(path, func(r *playlist.Reader) error {
		src := musicbrainz.Annotate(c.Context, api, store, r, opts)
		return a.writeItems(errmsg.OpMusicBrainzAnnotate, path, src)
	})
}

func (a *App) lastfmCommand() *cli.Command {
	return &cli.Command{
		Name:  "lastfm",
		Usage: "query the Last.fm music database",
		Before: func(*cli.Context) error {
			if !a.config().HasLastfmConfig() {
				return ErrNoLastfmCredentials
			}
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:      "similar-artists",
				Usage:     "list artists similar to ARTIST",
				ArgsUsage: "ARTIST",
				Flags:     []cli.Flag{countFlag()},
				Action: func(c *cli.Context) error {
					artist, err := artistArg(c)
					if err != nil {
						return err
					}
					src, err := lastfm.SimilarArtists(a.lastfmAPI(), artist, c.Int("count"))
					if err != nil {
						return errmsg.Wrap(errmsg.OpLastfmQuery, artist, err)
					}
					return a.writeItems(errmsg.OpLastfmQuery, artist, src)
				},
			},
			{
				Name:      "top-tracks",
				Usage:     "list the most played tracks of ARTIST",
				ArgsUsage: "ARTIST",
				Flags:     []cli.Flag{countFlag()},
				Action: func(c *cli.Context) error {
					artist, err := artistArg(c)
					if err != nil {
						return err
					}
					src, err := lastfm.TopTracks(a.lastfmAPI(), artist, c.Int("count"))
					if err != nil {
						return errmsg.Wrap(errmsg.OpLastfmQuery, artist, err)
					}
					return a.writeItems(errmsg.OpLastfmQuery, artist, src)
				},
			},
			{
				Name:  "top-artists",
				Usage: "list the most played artists of a user",
				Flags: []cli.Flag{
					countFlag(),
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Last.fm user (default from config)"},
					&cli.StringFlag{
						Name:  "period",
						Value: lastfm.Periods[0],
						Usage: "time range: " + strings.Join(lastfm.Periods, ", "),
					},
				},
				Action: func(c *cli.Context) error {
					user := c.String("user")
					if user == "" {
						user = a.config().Lastfm.User
					}
					if user == "" {
						return errors.New("please specify a user with --user or lastfm.user")
					}
					src, err := lastfm.TopArtists(a.lastfmAPI(), user, c.String("period"), c.Int("count"))
					if err != nil {
						return errmsg.Wrap(errmsg.OpLastfmQuery, user, err)
					}
					return a.writeItems(errmsg.OpLastfmQuery, user, src)
				},
			},
			{
				Name:      "annotate",
				Usage:     "add Last.fm tags and similar artists to items",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					countFlag(),
					&cli.StringSliceFlag{
						Name:    "include",
						Aliases: []string{"i"},
						Usage:   "data to add: tags, similar (default tags)",
					},
				},
				Action: a.lastfmAnnotate,
			},
		},
	}
}

func (a *App) lastfmAnnotate(c *cli.Context) error {
	path, err := inputArg(c)
	if err != nil {
		return err
	}
	inc, err := includes(c, includeTags, includeSimilar)
	if err != nil {
		return err
	}
	if len(inc) == 0 {
		inc[includeTags] = true
	}
	opts := lastfm.Options{
		Tags:         inc[includeTags],
		Similar:      inc[includeSimilar],
		SimilarLimit: c.Int("count"),
	}

	store, err := a.openCache("lastfm")
	if err != nil {
		return err
	}
	defer store.Close()

	api := a.lastfmAPI()
	return a.withInput(path, func(r *playlist.Reader) error {
		return a.writeItems(errmsg.OpLastfmAnnotate, path, lastfm.Annotate(api, store, r, opts))
	})
}

func (a *App) lastfmAPI() lastfm.API {
	cfg := a.config().Lastfm
	return a.NewLastfm(cfg.APIKey, cfg.APISecret)
}

func countFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "count",
		Aliases: []string{"c"},
		Value:   lastfm.DefaultLimit,
		Usage:   "maximum number of entries",
	}
}

func artistArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 || strings.TrimSpace(c.Args().First()) == "" {
		return "", errors.New("expected one artist name")
	}
	return c.Args().First(), nil
}
