package tags

import (
	"encoding/binary"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2/v2"
)

// createMinimalMP3 writes one MPEG1 Layer3 frame (128kbps, 44100Hz, stereo).
func createMinimalMP3(t *testing.T, path string) {
	t.Helper()
	frame := make([]byte, 417)
	frame[0] = 0xff
	frame[1] = 0xfb
	frame[2] = 0x90
	frame[3] = 0x00
	if err := os.WriteFile(path, frame, 0o600); err != nil {
		t.Fatalf("failed to create test MP3: %v", err)
	}
}

func createTaggedMP3(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tagged.mp3")
	createMinimalMP3(t, path)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("failed to open MP3 for tagging: %v", err)
	}
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle("Test Title")
	tag.SetArtist("Test Artist")
	tag.SetAlbum("Test Album")
	tag.SetGenre("Rock")
	tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, "2023-06-15")
	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, "3/12")
	tag.AddTextFrame("TPOS", id3v2.EncodingUTF8, "1/2")
	tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, "Test Album Artist")
	tag.AddTextFrame("TSRC", id3v2.EncodingUTF8, "USRC12345678")
	tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: "MusicBrainz Artist Id",
		Value:       "artist-uuid",
	})
	tag.AddUFIDFrame(id3v2.UFIDFrame{
		OwnerIdentifier: musicBrainzOwner,
		Identifier:      []byte("recording-uuid"),
	})
	if err := tag.Save(); err != nil {
		t.Fatalf("failed to save ID3 tags: %v", err)
	}
	tag.Close()
	return path
}

func assertTagged(t *testing.T, got *Tag, path string) {
	t.Helper()
	checks := []struct {
		field     string
		got, want any
	}{
		{"Path", got.Path, path},
		{"Title", got.Title, "Test Title"},
		{"Artist", got.Artist, "Test Artist"},
		{"Album", got.Album, "Test Album"},
		{"AlbumArtist", got.AlbumArtist, "Test Album Artist"},
		{"Genre", got.Genre, "Rock"},
		{"Date", got.Date, "2023-06-15"},
		{"TrackNumber", got.TrackNumber, 3},
		{"TotalTracks", got.TotalTracks, 12},
		{"DiscNumber", got.DiscNumber, 1},
		{"ISRC", got.ISRC, "USRC12345678"},
		{"MBArtistID", got.MBArtistID, "artist-uuid"},
		{"MBRecordingID", got.MBRecordingID, "recording-uuid"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.field, c.got, c.want)
		}
	}
}

func TestRead_MP3(t *testing.T) {
	path := createTaggedMP3(t, t.TempDir())

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	assertTagged(t, got, path)
}

func TestReadID3(t *testing.T) {
	path := createTaggedMP3(t, t.TempDir())

	got, err := readID3(path)
	if err != nil {
		t.Fatalf("readID3() error: %v", err)
	}
	assertTagged(t, got, path)
}

func TestRead_UntaggedKeepsFieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untagged.mp3")
	createMinimalMP3(t, path)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	tag.SetArtist("Only Artist")
	if err := tag.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	tag.Close()

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got.Title != "" || got.AlbumArtist != "" || got.Date != "" {
		t.Errorf("Read() invented values: %+v", got)
	}
	if got.Artist != "Only Artist" {
		t.Errorf("Artist = %q", got.Artist)
	}
}

func TestID3Date_V23(t *testing.T) {
	tests := []struct {
		name string
		tyer string
		tdat string
		want string
	}{
		{"year only", "1998", "", "1998"},
		{"year and day month", "1998", "2512", "1998-12-25"},
		{"bad tdat", "1998", "25", "1998"},
		{"nothing", "", "2512", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag := id3v2.NewEmptyTag()
			tag.SetVersion(3)
			if tt.tyer != "" {
				tag.AddTextFrame("TYER", id3v2.EncodingISO, tt.tyer)
			}
			if tt.tdat != "" {
				tag.AddTextFrame("TDAT", id3v2.EncodingISO, tt.tdat)
			}
			if got := id3Date(tag); got != tt.want {
				t.Errorf("id3Date() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"unsupported extension", txt},
		{"missing file", filepath.Join(dir, "missing.mp3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(tt.path); err == nil {
				t.Error("Read() error = nil, want error")
			}
			if _, err := ReadAudioInfo(tt.path); err == nil {
				t.Error("ReadAudioInfo() error = nil, want error")
			}
		})
	}
}

func TestReadAudioInfo_MP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mp3")
	createMinimalMP3(t, path)

	info, err := ReadAudioInfo(path)
	if err != nil {
		t.Fatalf("ReadAudioInfo() error: %v", err)
	}
	if info.Format != "MP3" {
		t.Errorf("Format = %q, want MP3", info.Format)
	}
	if info.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", info.SampleRate)
	}
}

// oggPage builds a page with a single packet. CRCs are left zero.
func oggPage(granule uint64, packet []byte) []byte {
	b := []byte(oggMagic)
	b = append(b, 0, 0)
	b = binary.LittleEndian.AppendUint64(b, granule)
	b = append(b, make([]byte, 12)...) // serial, sequence, crc
	b = append(b, 1, byte(len(packet)))
	return append(b, packet...)
}

func opusHead(preSkip uint16) []byte {
	b := []byte("OpusHead")
	b = append(b, 1, 2)
	b = binary.LittleEndian.AppendUint16(b, preSkip)
	b = binary.LittleEndian.AppendUint32(b, 44100)
	return append(b, 0, 0, 0)
}

func vorbisHead(rate uint32) []byte {
	b := []byte("\x01vorbis")
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = append(b, 2)
	b = binary.LittleEndian.AppendUint32(b, rate)
	return append(b, make([]byte, 14)...)
}

func TestReadAudioInfo_SyntheticOgg(t *testing.T) {
	tests := []struct {
		name     string
		ext      string
		head     []byte
		granule  uint64
		format   string
		rate     int
		duration time.Duration
	}{
		{"opus with pre-skip", ExtOPUS, opusHead(312), 48000*2 + 312, "OPUS", 48000, 2 * time.Second},
		{"vorbis 44.1k", ExtOGG, vorbisHead(44100), 44100 * 3, "VORBIS", 44100, 3 * time.Second},
		{"vorbis in oga", ExtOGA, vorbisHead(22050), 11025, "VORBIS", 22050, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := oggPage(0, tt.head)
			data = append(data, oggPage(tt.granule/2, make([]byte, 100))...)
			data = append(data, oggPage(tt.granule, make([]byte, 50))...)
			path := filepath.Join(t.TempDir(), "stream"+tt.ext)
			if err := os.WriteFile(path, data, 0o600); err != nil {
				t.Fatal(err)
			}

			info, err := ReadAudioInfo(path)
			if err != nil {
				t.Fatalf("ReadAudioInfo() error: %v", err)
			}
			if info.Format != tt.format || info.SampleRate != tt.rate {
				t.Errorf("info = %+v, want %s at %d", info, tt.format, tt.rate)
			}
			if info.Duration != tt.duration {
				t.Errorf("Duration = %v, want %v", info.Duration, tt.duration)
			}
		})
	}
}

func TestParseOggIDHeader_Errors(t *testing.T) {
	tests := []struct {
		name string
		page []byte
	}{
		{"empty", nil},
		{"not ogg", make([]byte, 64)},
		{"unknown codec", oggPage(0, []byte("\x80theora-ish-packet"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseOggIDHeader(tt.page); err == nil {
				t.Error("parseOggIDHeader() error = nil, want error")
			}
		})
	}
}

// createWithFFmpeg encodes a one second tone with the given tags.
func createWithFFmpeg(t *testing.T, name, codec string, metadata ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	args := []string{"-y", "-f", "lavfi", "-i", "sine=frequency=440:duration=1", "-c:a", codec}
	for _, m := range metadata {
		args = append(args, "-metadata", m)
	}
	cmd := exec.Command("ffmpeg", append(args, path)...)
	if err := cmd.Run(); err != nil {
		t.Skipf("ffmpeg not available: %v", err)
	}
	return path
}

func TestRead_Encoded(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		codec string
	}{
		{"FLAC", "test.flac", "flac"},
		{"Opus", "test.opus", "libopus"},
		{"Vorbis", "test.ogg", "libvorbis"},
		{"M4A", "test.m4a", "aac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createWithFFmpeg(t, tt.file, tt.codec,
				"title=Tone", "artist=Generator", "album=Signals", "date=2020")

			got, err := Read(path)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if got.Title != "Tone" || got.Artist != "Generator" || got.Album != "Signals" {
				t.Errorf("Read() = %+v", got)
			}
			if got.Year() != 2020 {
				t.Errorf("Year() = %d, want 2020", got.Year())
			}

			info, err := ReadAudioInfo(path)
			if err != nil {
				t.Fatalf("ReadAudioInfo() error: %v", err)
			}
			if info.Duration < 900*time.Millisecond || info.Duration > 1100*time.Millisecond {
				t.Errorf("Duration = %v, want approximately 1s", info.Duration)
			}
		})
	}
}
