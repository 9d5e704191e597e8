// Package lastfm reads artist data from Last.fm and turns it into playlist
// items or annotations.
package lastfm

// SimilarArtist represents a similar artist from Last.fm.
type SimilarArtist struct {
	Name       string
	MatchScore float64 // 0.0-1.0 similarity score
}

// TopTrack represents a top track for an artist from Last.fm.
type TopTrack struct {
	Name      string
	Playcount int
	Rank      int
}

// UserArtist is one entry of a user's top artists chart.
type UserArtist struct {
	Name      string
	MBID      string
	URL       string
	Playcount int
	Rank      int
}
