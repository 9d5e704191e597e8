package tags

import (
	"encoding/binary"
	"strconv"
	"strings"

	goflac "github.com/go-flac/go-flac"
	"go.senan.xyz/taglib"
)

// readFLACExtended fills t from the Vorbis comment block of a FLAC file.
func readFLACExtended(path string, t *Tag) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return
	}
	for _, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			applyVorbis(parseVorbisComments(meta.Data), t)
			return
		}
	}
}

func applyVorbis(comments map[string]string, t *Tag) {
	if date := firstNonEmpty(comments["DATE"], comments["YEAR"]); date != "" {
		t.Date = date
	}
	if t.AlbumArtist == "" {
		t.AlbumArtist = firstNonEmpty(comments["ALBUMARTIST"], comments["ALBUM ARTIST"])
	}
	t.ISRC = comments["ISRC"]
	t.MBArtistID = comments["MUSICBRAINZ_ARTISTID"]
	t.MBReleaseID = comments["MUSICBRAINZ_ALBUMID"]
	t.MBRecordingID = comments["MUSICBRAINZ_TRACKID"]

	if t.TotalTracks == 0 {
		t.TotalTracks, _ = strconv.Atoi(firstNonEmpty(comments["TOTALTRACKS"], comments["TRACKTOTAL"]))
	}
	if t.TotalDiscs == 0 {
		t.TotalDiscs, _ = strconv.Atoi(firstNonEmpty(comments["TOTALDISCS"], comments["DISCTOTAL"]))
	}
}

// parseVorbisComments decodes a Vorbis comment block. Keys are uppercased
// and the first value of a repeated key wins.
func parseVorbisComments(data []byte) map[string]string {
	comments := make(map[string]string)

	next := func(pos int) (int, int, bool) {
		if pos+4 > len(data) {
			return 0, pos, false
		}
		return int(binary.LittleEndian.Uint32(data[pos:])), pos + 4, true
	}

	vendorLen, pos, ok := next(0)
	if !ok {
		return comments
	}
	pos += vendorLen
	count, pos, ok := next(pos)
	if !ok {
		return comments
	}

	for range count {
		var n int
		n, pos, ok = next(pos)
		if !ok || n < 0 || pos+n > len(data) {
			break
		}
		comment := string(data[pos : pos+n])
		pos += n

		key, value, found := strings.Cut(comment, "=")
		if !found || key == "" {
			continue
		}
		key = strings.ToUpper(key)
		if _, seen := comments[key]; !seen {
			comments[key] = value
		}
	}
	return comments
}

// readTaglib reads any supported file through TagLib.
func readTaglib(path string) (*Tag, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}
	tags := taglibTags(raw)

	track, totalTracks := parseNumberPair(tags.get(taglib.TrackNumber))
	disc, totalDiscs := parseNumberPair(tags.get(taglib.DiscNumber))

	t := &Tag{
		Path:        path,
		Title:       tags.get(taglib.Title),
		Artist:      tags.get(taglib.Artist),
		AlbumArtist: tags.get(taglib.AlbumArtist),
		Album:       tags.get(taglib.Album),
		Genre:       tags.get(taglib.Genre),
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
	}
	applyTaglib(tags, t)
	return t, nil
}

func readTaglibExtended(path string, t *Tag) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return
	}
	applyTaglib(taglibTags(raw), t)
}

func applyTaglib(tags taglibTags, t *Tag) {
	if date := tags.get(taglib.Date); date != "" {
		t.Date = date
	}
	if t.AlbumArtist == "" {
		t.AlbumArtist = tags.get(taglib.AlbumArtist)
	}
	t.ISRC = tags.get(taglib.ISRC)

	// MP4 files written by Picard use spaced, mixed case atom names
	t.MBArtistID = tags.get(taglib.MusicBrainzArtistID, "MusicBrainz Artist Id")
	t.MBReleaseID = tags.get(taglib.MusicBrainzAlbumID, "MusicBrainz Album Id")
	t.MBRecordingID = tags.get(taglib.MusicBrainzTrackID, "MusicBrainz Track Id")

	if t.TotalTracks == 0 {
		t.TotalTracks = tags.getInt("TOTALTRACKS")
	}
	if t.TotalDiscs == 0 {
		t.TotalDiscs = tags.getInt("TOTALDISCS")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
