package importer

import (
	"encoding/xml"
	"errors"
	"strconv"
	"strings"

	"github.com/llehouerou/calliope/internal/logging"
	"github.com/llehouerou/calliope/internal/playlist"
)

type xspfDocument struct {
	XMLName    xml.Name       `xml:"http://xspf.org/ns/0/ playlist"`
	Title      *string        `xml:"http://xspf.org/ns/0/ title"`
	Creator    *string        `xml:"http://xspf.org/ns/0/ creator"`
	Annotation *string        `xml:"http://xspf.org/ns/0/ annotation"`
	Info       *string        `xml:"http://xspf.org/ns/0/ info"`
	Location   *string        `xml:"http://xspf.org/ns/0/ location"`
	Identifier *string        `xml:"http://xspf.org/ns/0/ identifier"`
	Image      *string        `xml:"http://xspf.org/ns/0/ image"`
	Date       *string        `xml:"http://xspf.org/ns/0/ date"`
	License    *string        `xml:"http://xspf.org/ns/0/ license"`
	TrackList  *xspfTrackList `xml:"http://xspf.org/ns/0/ trackList"`
}

type xspfTrackList struct {
	Tracks []xspfTrack `xml:"http://xspf.org/ns/0/ track"`
}

// xspfTrack ignores <link>, <meta> and <extension>.
type xspfTrack struct {
	Location   []string `xml:"http://xspf.org/ns/0/ location"`
	Identifier []string `xml:"http://xspf.org/ns/0/ identifier"`
	Title      *string  `xml:"http://xspf.org/ns/0/ title"`
	Creator    *string  `xml:"http://xspf.org/ns/0/ creator"`
	Annotation *string  `xml:"http://xspf.org/ns/0/ annotation"`
	Info       *string  `xml:"http://xspf.org/ns/0/ info"`
	Image      *string  `xml:"http://xspf.org/ns/0/ image"`
	Album      *string  `xml:"http://xspf.org/ns/0/ album"`
	TrackNum   *string  `xml:"http://xspf.org/ns/0/ trackNum"`
	Duration   *string  `xml:"http://xspf.org/ns/0/ duration"`
}

// Canonical keys of the XSPF/JSPF track fields that are not core keys.
const (
	keyXSPFInfo    = "xspf.info"
	keyTrackNumber = "album.track-number"
)

func parseXSPF(text []byte) (*playlist.Document, error) {
	var doc xspfDocument
	if err := xml.Unmarshal(text, &doc); err != nil {
		var unexpected xml.UnmarshalError
		if errors.As(err, &unexpected) {
			return nil, parseErrorf(FormatXSPF, "no top-level <playlist> element: %v", err)
		}
		return nil, &ParseError{Format: FormatXSPF, Err: err}
	}
	if doc.TrackList == nil {
		return nil, parseErrorf(FormatXSPF, "no <trackList> section")
	}

	items := make([]playlist.Item, 0, len(doc.TrackList.Tracks))
	for n, t := range doc.TrackList.Tracks {
		item := playlist.Item{}
		if len(t.Location) > 0 {
			item[playlist.KeyLocation] = t.Location[0]
		}
		if len(t.Identifier) > 0 {
			item[playlist.KeyID] = t.Identifier[0]
		}
		setText(item, playlist.KeyTrack, t.Title)
		setText(item, playlist.KeyArtist, t.Creator)
		setText(item, playlist.KeyComment, t.Annotation)
		setText(item, keyXSPFInfo, t.Info)
		setText(item, playlist.KeyImage, t.Image)
		setText(item, playlist.KeyAlbum, t.Album)
		setText(item, keyTrackNumber, t.TrackNum)
		if t.Duration != nil {
			seconds, err := millisToSeconds(*t.Duration)
			if err != nil {
				return nil, parseErrorf(FormatXSPF, "track %d: %v", n+1, err)
			}
			item[playlist.KeyDuration] = seconds
		}

		if len(item) == 0 {
			logging.Warn("empty <track> entry found")
		}
		items = append(items, item)
	}

	meta := playlist.Metadata{
		Title:      deref(doc.Title),
		Creator:    deref(doc.Creator),
		Annotation: deref(doc.Annotation),
		Info:       deref(doc.Info),
		Location:   deref(doc.Location),
		Identifier: deref(doc.Identifier),
		Image:      deref(doc.Image),
		Date:       deref(doc.Date),
		License:    deref(doc.License),
	}
	return &playlist.Document{Kind: playlist.KindPlaylist, Metadata: meta, Items: items}, nil
}

func setText(item playlist.Item, key string, v *string) {
	if v != nil {
		item[key] = *v
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func millisToSeconds(v string) (float64, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, errors.New("invalid duration " + strconv.Quote(v))
	}
	return float64(ms) / 1000, nil
}
