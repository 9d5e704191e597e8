package stat

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/calliope/internal/playlist"
)

func TestMeasure(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	b := filepath.Join(dir, "album", "b.mp3")
	require.NoError(t, os.WriteFile(a, make([]byte, 1000), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Dir(b), 0o755))
	require.NoError(t, os.WriteFile(b, make([]byte, 24), 0o600))

	src := playlist.Items(
		playlist.Item{"track": "A", "location": playlist.PathToLocation(a), "duration": 61.5},
		playlist.Item{
			"album":  "X",
			"artist": "Band",
			"tracks": []any{
				map[string]any{"track": "B", "location": playlist.PathToLocation(b), "duration": 30.0},
				map[string]any{"track": "C", "location": playlist.PathToLocation(filepath.Join(dir, "gone.mp3"))},
				map[string]any{"track": "D", "location": "http://example.com/d.mp3"},
			},
		},
		playlist.Item{"location": a},
		playlist.Item{"artist": "nothing"},
	)

	s, err := Measure(src)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Items)
	assert.Equal(t, 5, s.Tracks)
	assert.Equal(t, 91500*time.Millisecond, s.Duration)
	assert.Equal(t, int64(2024), s.Size)
	assert.Equal(t, 3, s.Files)
	assert.Equal(t, 1, s.Missing)
}

func TestMeasure_BadTracks(t *testing.T) {
	_, err := Measure(playlist.Items(playlist.Item{"album": "X", "tracks": "oops"}))
	require.ErrorIs(t, err, playlist.ErrFieldType)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	s := Stats{Items: 1200, Tracks: 1500, Duration: 90*time.Minute + 400*time.Millisecond, Size: 5 * 1024 * 1024, Files: 3, Missing: 1}
	require.NoError(t, s.Report(&buf))

	out := buf.String()
	assert.Contains(t, out, "Items: 1,200\n")
	assert.Contains(t, out, "Tracks: 1,500\n")
	assert.Contains(t, out, "Duration: 1h30m0s\n")
	assert.Contains(t, out, "Files: 3 (1 missing)\n")
	assert.Contains(t, out, "Total size: 5.0 MiB\n")
}
