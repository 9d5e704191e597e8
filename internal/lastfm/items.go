package lastfm

import (
	"fmt"

	"github.com/llehouerou/calliope/internal/playlist"
)

// Keys set on produced and annotated items.
const (
	KeyMatch       = "lastfm.match"
	KeyPlaycount   = "lastfm.playcount"
	KeyRank        = "lastfm.rank"
	KeyURL         = "lastfm.url"
	KeyUserRanking = "lastfm.user-ranking"
	KeyTopTags     = "lastfm.tags.top"
	KeySimilar     = "lastfm.similar-artists"
	KeyWarnings    = "lastfm.warnings"

	keyMusicBrainzArtist = "musicbrainz.artist"
)

// DefaultLimit is the number of entries asked for when no count is given.
const DefaultLimit = 20

const warnNotFound = "Unable to find artist on Last.fm"

// API is the part of the Last.fm web service the commands use.
type API interface {
	GetSimilarArtists(artist string, limit int) ([]SimilarArtist, error)
	GetArtistTopTracks(artist string, limit int) ([]TopTrack, error)
	GetArtistTopTags(artist string) ([]string, error)
	GetUserTopArtists(user, period string, limit int) ([]UserArtist, error)
}

// SimilarArtists returns one item per artist similar to artist, best match
// first.
func SimilarArtists(api API, artist string, limit int) (*playlist.SliceSource, error) {
	similar, err := api.GetSimilarArtists(artist, limit)
	if err != nil {
		return nil, fmt.Errorf("similar artists of %q: %w", artist, err)
	}
	items := make([]playlist.Item, 0, len(similar))
	for _, s := range similar {
		items = append(items, playlist.Item{
			playlist.KeyArtist: s.Name,
			KeyMatch:           s.MatchScore,
		})
	}
	return playlist.NewSliceSource(playlist.KindPlaylist, items), nil
}

// TopTracks returns the most played tracks of artist, in rank order.
func TopTracks(api API, artist string, limit int) (*playlist.SliceSource, error) {
	tracks, err := api.GetArtistTopTracks(artist, limit)
	if err != nil {
		return nil, fmt.Errorf("top tracks of %q: %w", artist, err)
	}
	items := make([]playlist.Item, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, playlist.Item{
			playlist.KeyArtist: artist,
			playlist.KeyTrack:  t.Name,
			KeyPlaycount:       float64(t.Playcount),
			KeyRank:            float64(t.Rank),
		})
	}
	return playlist.NewSliceSource(playlist.KindPlaylist, items), nil
}

// TopArtists returns the most played artists of user over period.
func TopArtists(api API, user, period string, limit int) (*playlist.SliceSource, error) {
	artists, err := api.GetUserTopArtists(user, period, limit)
	if err != nil {
		return nil, fmt.Errorf("top artists of %q: %w", user, err)
	}
	items := make([]playlist.Item, 0, len(artists))
	for _, a := range artists {
		item := playlist.Item{
			playlist.KeyArtist: a.Name,
			KeyPlaycount:       float64(a.Playcount),
			KeyUserRanking:     float64(a.Rank),
		}
		if a.MBID != "" {
			item[keyMusicBrainzArtist] = a.MBID
		}
		if a.URL != "" {
			item[KeyURL] = a.URL
		}
		items = append(items, item)
	}
	return playlist.NewSliceSource(playlist.KindPlaylist, items), nil
}
