package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/llehouerou/calliope/internal/playlist"
)

// parsePLS reads File<i>, Title<i> and Length<i> for i in 1..NumberOfEntries.
func parsePLS(text []byte) (*playlist.Document, error) {
	f, err := loadINI(text)
	if err != nil {
		return nil, &ParseError{Format: FormatPLS, Err: err}
	}
	section, err := f.GetSection(plsSection)
	if err != nil {
		return nil, parseErrorf(FormatPLS, "no [%s] section", plsSection)
	}

	if !section.HasKey("NumberOfEntries") {
		return nil, parseErrorf(FormatPLS, "missing NumberOfEntries")
	}
	raw := strings.TrimSpace(section.Key("NumberOfEntries").Value())
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return nil, parseErrorf(FormatPLS, "invalid NumberOfEntries %q", raw)
	}

	items := make([]playlist.Item, 0, count)
	for i := 1; i <= count; i++ {
		fileKey := fmt.Sprintf("File%d", i)
		if !section.HasKey(fileKey) {
			return nil, parseErrorf(FormatPLS, "missing %s (NumberOfEntries=%d)", fileKey, count)
		}
		item := playlist.Item{playlist.KeyLocation: section.Key(fileKey).Value()}

		if key := fmt.Sprintf("Title%d", i); section.HasKey(key) {
			item[playlist.KeyTrack] = section.Key(key).Value()
		}
		if key := fmt.Sprintf("Length%d", i); section.HasKey(key) {
			v := strings.TrimSpace(section.Key(key).Value())
			length, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, parseErrorf(FormatPLS, "invalid %s %q", key, v)
			}
			if length >= 0 {
				item[playlist.KeyDuration] = length
			}
		}
		items = append(items, item)
	}

	return &playlist.Document{Kind: playlist.KindPlaylist, Items: items}, nil
}
