package tags

import (
	"github.com/bogem/id3v2/v2"
)

// MusicBrainz recording IDs live in a UFID frame with this owner.
const musicBrainzOwner = "http://musicbrainz.org"

// readID3 reads an MP3 file with the id3v2 library alone.
func readID3(path string) (*Tag, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	track, totalTracks := parseNumberPair(id3Text(id3tag, "TRCK"))
	disc, totalDiscs := parseNumberPair(id3Text(id3tag, "TPOS"))

	t := &Tag{
		Path:        path,
		Title:       id3tag.Title(),
		Artist:      id3tag.Artist(),
		AlbumArtist: id3Text(id3tag, "TPE2"),
		Album:       id3tag.Album(),
		Genre:       id3tag.Genre(),
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
	}
	applyID3Extended(id3tag, t)
	return t, nil
}

func readID3Extended(path string, t *Tag) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	defer id3tag.Close()
	applyID3Extended(id3tag, t)
}

func applyID3Extended(id3tag *id3v2.Tag, t *Tag) {
	if date := id3Date(id3tag); date != "" {
		t.Date = date
	}
	if t.AlbumArtist == "" {
		t.AlbumArtist = id3Text(id3tag, "TPE2")
	}
	t.ISRC = id3Text(id3tag, "TSRC")
	t.MBArtistID = id3UserText(id3tag, "MusicBrainz Artist Id")
	t.MBReleaseID = id3UserText(id3tag, "MusicBrainz Album Id")

	for _, frame := range id3tag.GetFrames("UFID") {
		if ufid, ok := frame.(id3v2.UFIDFrame); ok && ufid.OwnerIdentifier == musicBrainzOwner {
			t.MBRecordingID = string(ufid.Identifier)
			break
		}
	}
}

// id3Date prefers the ID3v2.4 TDRC frame and falls back to the ID3v2.3
// TYER year combined with the TDAT day and month.
func id3Date(id3tag *id3v2.Tag) string {
	if date := id3Text(id3tag, "TDRC"); date != "" {
		return date
	}
	year := id3Text(id3tag, "TYER")
	if year == "" {
		return ""
	}
	// TDAT is DDMM
	if tdat := id3Text(id3tag, "TDAT"); len(tdat) == 4 {
		return year + "-" + tdat[2:4] + "-" + tdat[0:2]
	}
	return year
}

func id3Text(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}

func id3UserText(id3tag *id3v2.Tag, description string) string {
	for _, frame := range id3tag.GetFrames("TXXX") {
		if txxx, ok := frame.(id3v2.UserDefinedTextFrame); ok && txxx.Description == description {
			return txxx.Value
		}
	}
	return ""
}
