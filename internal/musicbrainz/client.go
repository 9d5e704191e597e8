package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the public MusicBrainz web service.
	DefaultBaseURL = "https://musicbrainz.org/ws/2"
	userAgent      = "Calliope/0.1 (https://github.com/llehouerou/calliope)"
	rateLimitDur   = time.Second // MusicBrainz requires 1 request per second

	// Retry configuration
	maxRetries   = 3
	initialDelay = 2 * time.Second
	maxDelay     = 30 * time.Second

	searchLimit = "10"
)

// Client provides access to the MusicBrainz API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	coverArtURL string
	rateLimit   time.Duration
	lastRequest time.Time
	mu          sync.Mutex
}

// NewClient creates a MusicBrainz API client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		coverArtURL: coverArtBaseURL,
		rateLimit:   rateLimitDur,
	}
}

// SearchArtists searches for artists by name, best match first.
func (c *Client) SearchArtists(ctx context.Context, name string) ([]Artist, error) {
	params := url.Values{}
	params.Set("query", "artist:"+quote(name))
	params.Set("limit", searchLimit)

	var result artistSearchResponse
	if err := c.get(ctx, "/artist", params, &result); err != nil {
		return nil, err
	}
	return convertArtists(result.Artists), nil
}

// GetArtistURLs returns the URL relationships of an artist.
func (c *Client) GetArtistURLs(ctx context.Context, artistID string) ([]URLRelation, error) {
	params := url.Values{}
	params.Set("inc", "url-rels")

	var result artistLookupResponse
	if err := c.get(ctx, "/artist/"+url.PathEscape(artistID), params, &result); err != nil {
		return nil, err
	}

	urls := make([]URLRelation, 0, len(result.Relations))
	for _, r := range result.Relations {
		if r.URL == nil || r.URL.Resource == "" {
			continue
		}
		urls = append(urls, URLRelation{Type: r.Type, Target: r.URL.Resource})
	}
	return urls, nil
}

// SearchRecordings searches for recordings of title by artist, best match
// first.
func (c *Client) SearchRecordings(ctx context.Context, artist, title string) ([]Recording, error) {
	params := url.Values{}
	params.Set("query", "recording:"+quote(title)+" AND artist:"+quote(artist))
	params.Set("limit", searchLimit)

	var result recordingSearchResponse
	if err := c.get(ctx, "/recording", params, &result); err != nil {
		return nil, err
	}
	return convertRecordings(result.Recordings), nil
}

// get performs a rate limited JSON request against the web service.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.waitForRateLimit(ctx); err != nil {
		return err
	}

	params.Set("fmt", "json")
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// waitForRateLimit ensures we don't exceed MusicBrainz rate limits.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elapsed := time.Since(c.lastRequest); elapsed < c.rateLimit {
		if err := sleep(ctx, c.rateLimit-elapsed); err != nil {
			return err
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry.
// Retries on 5xx errors and network errors.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay = min(delay*2, maxDelay)
			if err := c.waitForRateLimit(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		// Success or client error (4xx) - don't retry
		if resp.StatusCode < 500 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries+1, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// quote builds a Lucene phrase, escaping the characters that would end it.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func convertArtists(results []artistResult) []Artist {
	artists := make([]Artist, 0, len(results))
	for _, r := range results {
		artists = append(artists, Artist{
			ID:             r.ID,
			Name:           r.Name,
			SortName:       r.SortName,
			Type:           r.Type,
			Country:        r.Country,
			Score:          r.Score,
			Disambiguation: r.Disambiguation,
		})
	}
	sort.SliceStable(artists, func(i, j int) bool {
		return artists[i].Score > artists[j].Score
	})
	return artists
}

func convertRecordings(results []recordingResult) []Recording {
	recordings := make([]Recording, 0, len(results))
	for _, r := range results {
		rec := Recording{
			ID:     r.ID,
			Title:  r.Title,
			Length: r.Length,
			Score:  r.Score,
			Artist: extractArtist(r.ArtistCredit),
		}
		if len(r.ArtistCredit) > 0 {
			rec.ArtistID = r.ArtistCredit[0].Artist.ID
		}
		if len(r.Releases) > 0 {
			rec.ReleaseID = r.Releases[0].ID
			rec.ReleaseTitle = r.Releases[0].Title
		}
		recordings = append(recordings, rec)
	}
	sort.SliceStable(recordings, func(i, j int) bool {
		return recordings[i].Score > recordings[j].Score
	})
	return recordings
}

// extractArtist extracts the artist name from artist credits.
func extractArtist(credits []artistCredit) string {
	parts := make([]string, 0, len(credits))
	for _, c := range credits {
		name := c.Name
		if name == "" {
			name = c.Artist.Name
		}
		parts = append(parts, name+c.JoinPhrase)
	}
	return strings.Join(parts, "")
}
