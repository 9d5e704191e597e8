package musicbrainz

import (
	"context"
	"fmt"
	"strings"

	"github.com/llehouerou/calliope/internal/cache"
	"github.com/llehouerou/calliope/internal/playlist"
)

// Keys added to annotated items.
const (
	KeyArtistID      = "musicbrainz.artist"
	KeyArtistCountry = "musicbrainz.artist.country"
	KeyArtistURLs    = "musicbrainz.artist.urls"
	KeyURLType       = "musicbrainz.url.type"
	KeyURLTarget     = "musicbrainz.url.target"
	KeyRecordingID   = "musicbrainz.recording-id"
	KeyReleaseID     = "musicbrainz.release-id"
	KeyLength        = "musicbrainz.length"
	KeyWarnings      = "musicbrainz.warnings"
)

const (
	warnArtistNotFound    = "Unable to find artist on musicbrainz"
	warnRecordingNotFound = "Unable to find recording on musicbrainz"
)

// API is the part of the MusicBrainz web service the annotator uses.
type API interface {
	SearchArtists(ctx context.Context, name string) ([]Artist, error)
	GetArtistURLs(ctx context.Context, artistID string) ([]URLRelation, error)
	SearchRecordings(ctx context.Context, artist, title string) ([]Recording, error)
	HasCoverArt(ctx context.Context, releaseID string) (bool, error)
	CoverArtURL(releaseID string) string
}

// Options selects the optional annotations.
type Options struct {
	URLs       bool // artist URL relationships
	Recordings bool // recording, release and length of items with a track
	CoverArt   bool // image from the Cover Art Archive, needs Recordings
}

// Annotate returns a source that adds MusicBrainz data to each item of src
// as it is read. Every remote answer, including "not found", is cached.
func Annotate(ctx context.Context, api API, store cache.Store, src playlist.Source, opts Options) playlist.Source {
	a := &annotator{ctx: ctx, api: api, store: store, opts: opts}
	return playlist.Map(src, a.annotate)
}

type annotator struct {
	ctx   context.Context
	api   API
	store cache.Store
	opts  Options
}

func (a *annotator) annotate(item playlist.Item) (playlist.Item, error) {
	item = item.Clone()
	artist, hasArtist := item.String(playlist.KeyArtist)
	hasArtist = hasArtist && artist != ""

	if hasArtist && !item.Has(KeyArtistID) {
		if err := a.addArtist(item, artist); err != nil {
			return nil, fmt.Errorf("annotate artist %q: %w", artist, err)
		}
	}
	if a.opts.URLs && !item.Has(KeyArtistURLs) {
		if err := a.addArtistURLs(item); err != nil {
			return nil, fmt.Errorf("annotate artist urls %q: %w", artist, err)
		}
	}
	if a.opts.Recordings && hasArtist && !item.Has(KeyRecordingID) {
		if track, ok := item.String(playlist.KeyTrack); ok && track != "" {
			if err := a.addRecording(item, artist, track); err != nil {
				return nil, fmt.Errorf("annotate recording %q: %w", track, err)
			}
		}
	}
	if a.opts.CoverArt && !item.Has(playlist.KeyImage) {
		if release, ok := item.String(KeyReleaseID); ok && release != "" {
			if err := a.addCoverArt(item, release); err != nil {
				return nil, fmt.Errorf("annotate cover art %q: %w", release, err)
			}
		}
	}
	return item, nil
}

func (a *annotator) addArtist(item playlist.Item, name string) error {
	found, err := cache.Memo(a.store, "artist:"+name, func() (*Artist, error) {
		artists, err := a.api.SearchArtists(a.ctx, name)
		if err != nil || len(artists) == 0 {
			return nil, err
		}
		return &artists[0], nil
	})
	if err != nil {
		return err
	}
	if found == nil {
		item.Append(KeyWarnings, warnArtistNotFound)
		return nil
	}
	item[KeyArtistID] = found.ID
	if found.Country != "" {
		item[KeyArtistCountry] = found.Country
	}
	return nil
}

// addArtistURLs needs the artist id from addArtist or from the input.
func (a *annotator) addArtistURLs(item playlist.Item) error {
	id, ok := item.String(KeyArtistID)
	if !ok || id == "" {
		return nil
	}
	urls, err := cache.Memo(a.store, "artist:"+id+":urls", func() (*[]URLRelation, error) {
		urls, err := a.api.GetArtistURLs(a.ctx, id)
		if err != nil {
			return nil, err
		}
		if urls == nil {
			urls = []URLRelation{}
		}
		return &urls, nil
	})
	if err != nil || urls == nil {
		return err
	}
	for _, u := range *urls {
		item.Append(KeyArtistURLs, map[string]any{KeyURLType: u.Type, KeyURLTarget: u.Target})
	}
	if len(*urls) == 0 {
		item[KeyArtistURLs] = []any{}
	}
	return nil
}

func (a *annotator) addRecording(item playlist.Item, artist, track string) error {
	key := "recording:" + strings.ToLower(artist) + "." + strings.ToLower(track)
	found, err := cache.Memo(a.store, key, func() (*Recording, error) {
		recordings, err := a.api.SearchRecordings(a.ctx, artist, track)
		if err != nil || len(recordings) == 0 {
			return nil, err
		}
		return &recordings[0], nil
	})
	if err != nil {
		return err
	}
	if found == nil {
		item.Append(KeyWarnings, warnRecordingNotFound)
		return nil
	}
	item[KeyRecordingID] = found.ID
	if found.ReleaseID != "" {
		item[KeyReleaseID] = found.ReleaseID
	}
	if found.Length > 0 {
		item[KeyLength] = float64(found.Length) / 1000
	}
	if !item.Has(KeyArtistID) && found.ArtistID != "" {
		item[KeyArtistID] = found.ArtistID
	}
	return nil
}

func (a *annotator) addCoverArt(item playlist.Item, release string) error {
	has, err := cache.Memo(a.store, "coverart:"+release, func() (*bool, error) {
		ok, err := a.api.HasCoverArt(a.ctx, release)
		if err != nil {
			return nil, err
		}
		return &ok, nil
	})
	if err != nil {
		return err
	}
	if has != nil && *has {
		item[playlist.KeyImage] = a.api.CoverArtURL(release)
	}
	return nil
}
