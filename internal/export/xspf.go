package export

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"

	"github.com/llehouerou/calliope/internal/playlist"
)

// Canonical keys without an XSPF element of the same name.
const (
	keyXSPFInfo    = "xspf.info"
	keyTrackNumber = "album.track-number"
)

// xspfPlaylist marshals with the default (unprefixed) XSPF namespace.
type xspfPlaylist struct {
	XMLName    xml.Name    `xml:"http://xspf.org/ns/0/ playlist"`
	Version    string      `xml:"version,attr"`
	Title      string      `xml:"title,omitempty"`
	Creator    string      `xml:"creator,omitempty"`
	Annotation string      `xml:"annotation,omitempty"`
	Info       string      `xml:"info,omitempty"`
	Location   string      `xml:"location,omitempty"`
	Identifier string      `xml:"identifier,omitempty"`
	Image      string      `xml:"image,omitempty"`
	Date       string      `xml:"date,omitempty"`
	License    string      `xml:"license,omitempty"`
	Tracks     []xspfTrack `xml:"trackList>track"`
}

type xspfTrack struct {
	Location   string `xml:"location,omitempty"`
	Identifier string `xml:"identifier,omitempty"`
	Title      string `xml:"title,omitempty"`
	Creator    string `xml:"creator,omitempty"`
	Annotation string `xml:"annotation,omitempty"`
	Info       string `xml:"info,omitempty"`
	Image      string `xml:"image,omitempty"`
	Album      string `xml:"album,omitempty"`
	TrackNum   string `xml:"trackNum,omitempty"`
	Duration   string `xml:"duration,omitempty"`
}

// trackFields is the canonical side of the XSPF/JSPF track mapping.
type trackFields struct {
	location, identifier, title, creator, annotation, info, image, album, trackNum string
	duration                                                                     *int64
}

func fieldsOf(item playlist.Item) trackFields {
	var f trackFields
	f.location, _ = text(item, playlist.KeyLocation)
	f.identifier, _ = text(item, playlist.KeyID)
	f.title, _ = text(item, playlist.KeyTrack)
	f.creator, _ = text(item, playlist.KeyArtist)
	f.annotation, _ = text(item, playlist.KeyComment)
	f.info, _ = text(item, keyXSPFInfo)
	f.image, _ = text(item, playlist.KeyImage)
	f.album, _ = text(item, playlist.KeyAlbum)
	f.trackNum, _ = text(item, keyTrackNumber)
	if d, ok := item.Float(playlist.KeyDuration); ok {
		ms := int64(math.Round(d * 1000))
		f.duration = &ms
	}
	return f
}

// collectForDocument materializes src for a dialect that needs at least one
// item and the first item's metadata.
func collectForDocument(src playlist.Source, opts Options) ([]playlist.Item, playlist.Metadata, error) {
	items, err := playlist.Collect(src)
	if err != nil {
		return nil, playlist.Metadata{}, err
	}
	if len(items) == 0 {
		return nil, playlist.Metadata{}, ErrEmptyPlaylist
	}
	return items, opts.metadata(items[0]), nil
}

func writeXSPF(w io.Writer, src playlist.Source, opts Options) error {
	items, meta, err := collectForDocument(src, opts)
	if err != nil {
		return err
	}

	doc := xspfPlaylist{
		Version:    "1",
		Title:      meta.Title,
		Creator:    meta.Creator,
		Annotation: meta.Annotation,
		Info:       meta.Info,
		Location:   meta.Location,
		Identifier: meta.Identifier,
		Image:      meta.Image,
		Date:       meta.Date,
		License:    meta.License,
		Tracks:     make([]xspfTrack, 0, len(items)),
	}
	for _, item := range items {
		f := fieldsOf(item)
		t := xspfTrack{
			Location:   f.location,
			Identifier: f.identifier,
			Title:      f.title,
			Creator:    f.creator,
			Annotation: f.annotation,
			Info:       f.info,
			Image:      f.image,
			Album:      f.album,
			TrackNum:   f.trackNum,
		}
		if f.duration != nil {
			t.Duration = strconv.FormatInt(*f.duration, 10)
		}
		doc.Tracks = append(doc.Tracks, t)
	}

	out, err := xml.MarshalIndent(doc, "", "\t")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}
