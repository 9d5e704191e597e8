package scan

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/calliope/internal/playlist"
)

type mp3Tags struct {
	title, artist, album, albumArtist, track, date string
}

func writeMP3(t *testing.T, path string, tags *mp3Tags) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	frame := make([]byte, 417)
	frame[0], frame[1], frame[2] = 0xff, 0xfb, 0x90
	require.NoError(t, os.WriteFile(path, frame, 0o600))
	if tags == nil {
		return
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(tags.title)
	tag.SetArtist(tags.artist)
	tag.SetAlbum(tags.album)
	if tags.albumArtist != "" {
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, tags.albumArtist)
	}
	if tags.track != "" {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, tags.track)
	}
	if tags.date != "" {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, tags.date)
	}
	require.NoError(t, tag.Save())
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	writeMP3(t, filepath.Join(root, "b.mp3"), &mp3Tags{
		title: "Second", artist: "Band", album: "Record", albumArtist: "Band & Friends",
		track: "2/9", date: "2001-05-04",
	})
	writeMP3(t, filepath.Join(root, "a", "c.mp3"), &mp3Tags{title: "First", artist: "Solo"})
	writeMP3(t, filepath.Join(root, "C.MP3"), nil)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "cover.jpg"), []byte("x"), 0o600))

	s := Dir(root)
	assert.Equal(t, playlist.KindCollection, s.Kind())
	items, err := playlist.Collect(s)
	require.NoError(t, err)
	require.Len(t, items, 3)

	var locations []string
	for _, item := range items {
		loc, _ := item.String(playlist.KeyLocation)
		locations = append(locations, loc)
	}
	assert.Equal(t, []string{
		playlist.PathToLocation(filepath.Join(root, "C.MP3")),
		playlist.PathToLocation(filepath.Join(root, "a", "c.mp3")),
		playlist.PathToLocation(filepath.Join(root, "b.mp3")),
	}, locations)

	assert.NotContains(t, items[0], playlist.KeyTrack)

	assert.Equal(t, "First", items[1][playlist.KeyTrack])
	assert.Equal(t, "Solo", items[1][playlist.KeyArtist])
	assert.NotContains(t, items[1], KeyAlbumArtist)
	assert.NotContains(t, items[1], KeyTrackNumber)

	full := items[2]
	assert.Equal(t, "Second", full[playlist.KeyTrack])
	assert.Equal(t, "Band", full[playlist.KeyArtist])
	assert.Equal(t, "Record", full[playlist.KeyAlbum])
	assert.Equal(t, "Band & Friends", full[KeyAlbumArtist])
	assert.InDelta(t, 2.0, full[KeyTrackNumber], 0)
	assert.Equal(t, "2001-05-04", full[KeyDate])
}

func TestDir_UnreadableFileKeepsLocation(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "broken.flac")
	require.NoError(t, os.WriteFile(path, []byte("not a flac stream"), 0o600))

	items, err := playlist.Collect(Dir(root))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, playlist.Item{playlist.KeyLocation: playlist.PathToLocation(path)}, items[0])
}

func TestDir_Empty(t *testing.T) {
	s := Dir(t.TempDir())
	_, err := s.Next()
	require.ErrorIs(t, err, io.EOF)
	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestDir_MissingRoot(t *testing.T) {
	s := Dir(filepath.Join(t.TempDir(), "missing"))
	_, err := s.Next()
	require.ErrorIs(t, err, os.ErrNotExist)

	// the failure is sticky
	_, err = s.Next()
	require.ErrorIs(t, err, os.ErrNotExist)
}
