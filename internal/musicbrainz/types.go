// Package musicbrainz provides a client for the MusicBrainz API and a stage
// that annotates items with MusicBrainz identifiers.
package musicbrainz

import "fmt"

// StatusError is returned for a non-200 response that retries didn't fix.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API status %d", e.Code)
	}
	return fmt.Sprintf("API status %d: %s", e.Code, e.Body)
}

// Artist represents a MusicBrainz artist.
type Artist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SortName       string `json:"sort-name,omitempty"`
	Type           string `json:"type,omitempty"` // Person, Group, etc.
	Country        string `json:"country,omitempty"`
	Score          int    `json:"score,omitempty"` // Search relevance score (0-100)
	Disambiguation string `json:"disambiguation,omitempty"`
}

// URLRelation is a link from an artist to a web resource.
type URLRelation struct {
	Type   string `json:"type"` // official homepage, wikidata, discogs...
	Target string `json:"target"`
}

// Recording represents a MusicBrainz recording.
type Recording struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Length       int    `json:"length,omitempty"` // Duration in milliseconds
	Score        int    `json:"score,omitempty"`
	Artist       string `json:"artist,omitempty"`
	ArtistID     string `json:"artist-id,omitempty"`
	ReleaseID    string `json:"release-id,omitempty"`
	ReleaseTitle string `json:"release-title,omitempty"`
}

// artistCredit represents an artist contribution.
type artistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"artist"`
	JoinPhrase string `json:"joinphrase"`
}

type artistSearchResponse struct {
	Artists []artistResult `json:"artists"`
}

type artistResult struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SortName       string `json:"sort-name"`
	Type           string `json:"type"`
	Country        string `json:"country"`
	Score          int    `json:"score"`
	Disambiguation string `json:"disambiguation"`
}

type artistLookupResponse struct {
	ID        string     `json:"id"`
	Relations []relation `json:"relations"`
}

type relation struct {
	Type string `json:"type"`
	URL  *struct {
		Resource string `json:"resource"`
	} `json:"url"`
}

type recordingSearchResponse struct {
	Recordings []recordingResult `json:"recordings"`
}

type recordingResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Length       int            `json:"length"`
	Score        int            `json:"score"`
	ArtistCredit []artistCredit `json:"artist-credit"`
	Releases     []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"releases"`
}
