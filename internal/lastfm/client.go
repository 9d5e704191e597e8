package lastfm

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/shkh/lastfm-go/lastfm"
)

// errInvalidParameters is the Last.fm code for an unknown artist or user.
const errInvalidParameters = 6

var (
	// ErrNotFound is returned when Last.fm doesn't know the artist or user.
	ErrNotFound = errors.New("not found on Last.fm")
	// ErrInvalidPeriod is returned for a time range Last.fm doesn't define.
	ErrInvalidPeriod = errors.New("invalid period")
)

// Periods lists the time ranges accepted by GetUserTopArtists.
var Periods = []string{"overall", "7day", "1month", "3month", "6month", "12month"}

// Client wraps the read-only parts of the Last.fm API.
type Client struct {
	api *lastfm.Api
}

// New creates a new Last.fm client with the given API credentials.
func New(apiKey, apiSecret string) *Client {
	return &Client{api: lastfm.New(apiKey, apiSecret)}
}

// GetSimilarArtists fetches similar artists from Last.fm.
func (c *Client) GetSimilarArtists(artist string, limit int) ([]SimilarArtist, error) {
	params := lastfm.P{
		"artist": artist,
		"limit":  limit,
	}

	result, err := c.api.Artist.GetSimilar(params)
	if err != nil {
		return nil, fmt.Errorf("get similar artists: %w", classify(err))
	}

	artists := make([]SimilarArtist, 0, len(result.Similars))
	for _, a := range result.Similars {
		artists = append(artists, SimilarArtist{
			Name:       a.Name,
			MatchScore: parseFloat(a.Match),
		})
	}

	return artists, nil
}

// GetArtistTopTracks fetches top tracks for an artist from Last.fm.
func (c *Client) GetArtistTopTracks(artist string, limit int) ([]TopTrack, error) {
	params := lastfm.P{
		"artist": artist,
		"limit":  limit,
	}

	result, err := c.api.Artist.GetTopTracks(params)
	if err != nil {
		return nil, fmt.Errorf("get artist top tracks: %w", classify(err))
	}

	tracks := make([]TopTrack, 0, len(result.Tracks))
	for i, t := range result.Tracks {
		tracks = append(tracks, TopTrack{
			Name:      t.Name,
			Playcount: parseInt(t.PlayCount),
			Rank:      i + 1,
		})
	}

	return tracks, nil
}

// GetArtistTopTags fetches the tag names most applied to an artist.
func (c *Client) GetArtistTopTags(artist string) ([]string, error) {
	result, err := c.api.Artist.GetTopTags(lastfm.P{"artist": artist})
	if err != nil {
		return nil, fmt.Errorf("get artist top tags: %w", classify(err))
	}

	tags := make([]string, 0, len(result.Tags))
	for _, t := range result.Tags {
		tags = append(tags, t.Name)
	}
	return tags, nil
}

// GetUserTopArtists fetches the most played artists of a user over period.
func (c *Client) GetUserTopArtists(user, period string, limit int) ([]UserArtist, error) {
	if !slices.Contains(Periods, period) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	params := lastfm.P{
		"user":   user,
		"period": period,
		"limit":  limit,
	}

	result, err := c.api.User.GetTopArtists(params)
	if err != nil {
		return nil, fmt.Errorf("get user top artists: %w", classify(err))
	}

	artists := make([]UserArtist, 0, len(result.Artists))
	for i, a := range result.Artists {
		rank := parseInt(a.Rank)
		if rank == 0 {
			rank = i + 1
		}
		artists = append(artists, UserArtist{
			Name:      a.Name,
			MBID:      a.Mbid,
			URL:       a.Url,
			Playcount: parseInt(a.PlayCount),
			Rank:      rank,
		})
	}
	return artists, nil
}

// classify maps the Last.fm "invalid parameters" answer to ErrNotFound.
func classify(err error) error {
	var apiErr *lastfm.LastfmError
	if errors.As(err, &apiErr) && apiErr.Code == errInvalidParameters {
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	}
	return err
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s) //nolint:errcheck // parse failure means count stays 0
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64) //nolint:errcheck // parse failure means score stays 0
	return f
}
