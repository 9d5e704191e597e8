package export

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/llehouerou/calliope/internal/playlist"
)

type jspfDocument struct {
	Playlist jspfPlaylist `json:"playlist"`
}

type jspfPlaylist struct {
	Title      string      `json:"title,omitempty"`
	Creator    string      `json:"creator,omitempty"`
	Annotation string      `json:"annotation,omitempty"`
	Info       string      `json:"info,omitempty"`
	Location   string      `json:"location,omitempty"`
	Identifier string      `json:"identifier,omitempty"`
	Image      string      `json:"image,omitempty"`
	Date       string      `json:"date,omitempty"`
	License    string      `json:"license,omitempty"`
	Track      []jspfTrack `json:"track"`
}

type jspfTrack struct {
	Location   []string `json:"location,omitempty"`
	Identifier []string `json:"identifier,omitempty"`
	Title      string   `json:"title,omitempty"`
	Creator    string   `json:"creator,omitempty"`
	Annotation string   `json:"annotation,omitempty"`
	Info       string   `json:"info,omitempty"`
	Image      string   `json:"image,omitempty"`
	Album      string   `json:"album,omitempty"`
	TrackNum   any      `json:"trackNum,omitempty"`
	Duration   *int64   `json:"duration,omitempty"`
}

func writeJSPF(w io.Writer, src playlist.Source, opts Options) error {
	items, meta, err := collectForDocument(src, opts)
	if err != nil {
		return err
	}

	doc := jspfDocument{Playlist: jspfPlaylist{
		Title:      meta.Title,
		Creator:    meta.Creator,
		Annotation: meta.Annotation,
		Info:       meta.Info,
		Location:   meta.Location,
		Identifier: meta.Identifier,
		Image:      meta.Image,
		Date:       meta.Date,
		License:    meta.License,
		Track:      make([]jspfTrack, 0, len(items)),
	}}
	for _, item := range items {
		f := fieldsOf(item)
		t := jspfTrack{
			Title:      f.title,
			Creator:    f.creator,
			Annotation: f.annotation,
			Info:       f.info,
			Image:      f.image,
			Album:      f.album,
			Duration:   f.duration,
		}
		if f.location != "" {
			t.Location = []string{f.location}
		}
		if f.identifier != "" {
			t.Identifier = []string{f.identifier}
		}
		if f.trackNum != "" {
			if n, err := strconv.Atoi(f.trackNum); err == nil {
				t.TrackNum = n
			} else {
				t.TrackNum = f.trackNum
			}
		}
		doc.Playlist.Track = append(doc.Playlist.Track, t)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
