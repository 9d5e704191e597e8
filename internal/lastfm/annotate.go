package lastfm

import (
	"errors"
	"fmt"
	"slices"

	"github.com/llehouerou/calliope/internal/cache"
	"github.com/llehouerou/calliope/internal/playlist"
)

// Options selects what Annotate adds.
type Options struct {
	Tags         bool // top tags of the artist
	Similar      bool // names of similar artists
	SimilarLimit int
}

// Annotate returns a source that adds Last.fm artist data to each item of
// src that has an artist. Lookups are cached per artist, and an artist
// Last.fm doesn't know is recorded in the item warnings.
func Annotate(api API, store cache.Store, src playlist.Source, opts Options) playlist.Source {
	if opts.SimilarLimit <= 0 {
		opts.SimilarLimit = DefaultLimit
	}
	a := &annotator{api: api, store: store, opts: opts}
	return playlist.Map(src, a.annotate)
}

type annotator struct {
	api   API
	store cache.Store
	opts  Options
}

func (a *annotator) annotate(item playlist.Item) (playlist.Item, error) {
	artist, ok := item.String(playlist.KeyArtist)
	if !ok || artist == "" {
		return item, nil
	}
	item = item.Clone()

	if a.opts.Tags && !item.Has(KeyTopTags) {
		tags, err := cache.Memo(a.store, "artist-top-tags:"+artist, func() (*[]string, error) {
			return found(a.api.GetArtistTopTags(artist))
		})
		if err != nil {
			return nil, fmt.Errorf("annotate tags %q: %w", artist, err)
		}
		a.apply(item, KeyTopTags, tags)
	}

	if a.opts.Similar && !item.Has(KeySimilar) {
		key := fmt.Sprintf("artist-similar:%s:%d", artist, a.opts.SimilarLimit)
		names, err := cache.Memo(a.store, key, func() (*[]string, error) {
			similar, err := a.api.GetSimilarArtists(artist, a.opts.SimilarLimit)
			names := make([]string, 0, len(similar))
			for _, s := range similar {
				names = append(names, s.Name)
			}
			return found(names, err)
		})
		if err != nil {
			return nil, fmt.Errorf("annotate similar artists %q: %w", artist, err)
		}
		a.apply(item, KeySimilar, names)
	}
	return item, nil
}

func (a *annotator) apply(item playlist.Item, key string, values *[]string) {
	if values == nil {
		warnings, _ := item[KeyWarnings].([]any)
		if !slices.Contains(warnings, any(warnNotFound)) {
			item.Append(KeyWarnings, warnNotFound)
		}
		return
	}
	list := make([]any, len(*values))
	for n, v := range *values {
		list[n] = v
	}
	item[key] = list
}

// found turns ErrNotFound into a nil result so that it gets cached.
func found(values []string, err error) (*[]string, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return &values, nil
}
