//nolint:bodyclose // Test file uses http.NoBody which doesn't require closing
package musicbrainz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_WaitForRateLimit_FirstRequest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &Client{rateLimit: rateLimitDur}

		start := time.Now()
		require.NoError(t, c.waitForRateLimit(context.Background()))

		// First request should not wait
		if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
			t.Errorf("first request waited %v, expected no wait", elapsed)
		}
	})
}

func TestClient_WaitForRateLimit_MultipleRequests(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &Client{rateLimit: rateLimitDur}

		start := time.Now()
		for range 5 {
			require.NoError(t, c.waitForRateLimit(context.Background()))
		}

		// first is instant, then 4 waits of 1s each
		if elapsed := time.Since(start); elapsed < 4*time.Second {
			t.Errorf("5 requests took %v, expected at least 4s", elapsed)
		}
	})
}

func TestClient_WaitForRateLimit_Canceled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &Client{rateLimit: rateLimitDur}
		require.NoError(t, c.waitForRateLimit(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		err := c.waitForRateLimit(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

// mockTransport is a mock http.RoundTripper for testing.
type mockTransport struct {
	responses []*http.Response
	errors    []error
	callCount int
}

func (m *mockTransport) RoundTrip(*http.Request) (*http.Response, error) {
	idx := m.callCount
	m.callCount++

	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	return nil, errors.New("no more responses configured")
}

func newMockResponse(statusCode int) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       http.NoBody,
	}
}

func TestClient_DoRequestWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		responses  []*http.Response
		errors     []error
		wantStatus int
		wantErr    bool
		wantCalls  int
		minElapsed time.Duration
	}{
		{
			name:       "success",
			responses:  []*http.Response{newMockResponse(http.StatusOK)},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name: "retries on 500",
			responses: []*http.Response{
				newMockResponse(http.StatusInternalServerError),
				newMockResponse(http.StatusInternalServerError),
				newMockResponse(http.StatusOK),
			},
			wantStatus: http.StatusOK,
			wantCalls:  3,
			minElapsed: 6 * time.Second, // 2s + 4s backoff
		},
		{
			name: "exhausts retries",
			responses: []*http.Response{
				newMockResponse(http.StatusBadGateway),
				newMockResponse(http.StatusBadGateway),
				newMockResponse(http.StatusBadGateway),
				newMockResponse(http.StatusBadGateway),
			},
			wantErr:    true,
			wantCalls:  4,
			minElapsed: 14 * time.Second, // 2s + 4s + 8s
		},
		{
			name:       "no retry on 4xx",
			responses:  []*http.Response{newMockResponse(http.StatusNotFound)},
			wantStatus: http.StatusNotFound,
			wantCalls:  1,
		},
		{
			name:       "retries on network error",
			errors:     []error{errors.New("connection refused"), errors.New("timeout")},
			responses:  []*http.Response{nil, nil, newMockResponse(http.StatusOK)},
			wantStatus: http.StatusOK,
			wantCalls:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				mock := &mockTransport{responses: tt.responses, errors: tt.errors}
				c := &Client{httpClient: &http.Client{Transport: mock}, rateLimit: rateLimitDur}

				start := time.Now()
				req, _ := http.NewRequest(http.MethodGet, "http://example.com", http.NoBody)
				resp, err := c.doRequestWithRetry(req)
				elapsed := time.Since(start)

				if tt.wantErr {
					require.Error(t, err)
					assert.Nil(t, resp)
				} else {
					require.NoError(t, err)
					assert.Equal(t, tt.wantStatus, resp.StatusCode)
				}
				assert.Equal(t, tt.wantCalls, mock.callCount)
				assert.GreaterOrEqual(t, elapsed, tt.minElapsed)
			})
		})
	}
}

func TestClient_DoRequestWithRetry_CanceledDuringBackoff(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		mock := &mockTransport{responses: []*http.Response{
			newMockResponse(http.StatusServiceUnavailable),
			newMockResponse(http.StatusOK),
		}}
		c := &Client{httpClient: &http.Client{Transport: mock}}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.com", http.NoBody)
		_, err := c.doRequestWithRetry(req)

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 1, mock.callCount)
	})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL + "/ws/2/")
	c.rateLimit = 0
	c.coverArtURL = srv.URL
	return c
}

func TestClient_SearchArtists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/2/artist", r.URL.Path)
		assert.Equal(t, `artist:"AC\"DC"`, r.URL.Query().Get("query"))
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Calliope")
		_, _ = w.Write([]byte(`{"artists": [
			{"id": "low", "name": "AC/DC tribute", "score": 40},
			{"id": "66c662b6", "name": "AC/DC", "country": "AU", "score": 100, "type": "Group"}
		]}`))
	})

	artists, err := c.SearchArtists(context.Background(), `AC"DC`)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, Artist{ID: "66c662b6", Name: "AC/DC", Country: "AU", Score: 100, Type: "Group"}, artists[0])
}

func TestClient_GetArtistURLs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/2/artist/abc", r.URL.Path)
		assert.Equal(t, "url-rels", r.URL.Query().Get("inc"))
		_, _ = w.Write([]byte(`{"id": "abc", "relations": [
			{"type": "official homepage", "url": {"resource": "https://example.com"}},
			{"type": "member of band", "artist": {"id": "x"}}
		]}`))
	})

	urls, err := c.GetArtistURLs(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []URLRelation{{Type: "official homepage", Target: "https://example.com"}}, urls)
}

func TestClient_SearchRecordings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/2/recording", r.URL.Path)
		assert.Equal(t, `recording:"Roads" AND artist:"Portishead"`, r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"recordings": [{
			"id": "rec", "title": "Roads", "length": 305000, "score": 100,
			"artist-credit": [{"name": "Portishead", "artist": {"id": "art", "name": "Portishead"}}],
			"releases": [{"id": "rel", "title": "Dummy"}]
		}]}`))
	})

	recs, err := c.SearchRecordings(context.Background(), "Portishead", "Roads")
	require.NoError(t, err)
	assert.Equal(t, []Recording{{
		ID: "rec", Title: "Roads", Length: 305000, Score: 100,
		Artist: "Portishead", ArtistID: "art", ReleaseID: "rel", ReleaseTitle: "Dummy",
	}}, recs)
}

func TestClient_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad query", http.StatusBadRequest)
	})

	_, err := c.SearchArtists(context.Background(), "x")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "bad query", se.Body)
}

func TestClient_HasCoverArt(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/release/with/front-500":
			w.WriteHeader(http.StatusOK)
		case "/release/broken/front-500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	tests := []struct {
		release string
		want    bool
		wantErr bool
	}{
		{"with", true, false},
		{"without", false, false},
		{"broken", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.release, func(t *testing.T) {
			got, err := c.HasCoverArt(context.Background(), tt.release)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, "https://coverartarchive.org/release/r/front-500", c.CoverArtURL("r"))
}
