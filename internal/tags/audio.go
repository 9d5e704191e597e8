package tags

import (
	"errors"
	"fmt"
	"os"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2/flac"
	"github.com/llehouerou/go-m4a"
	"github.com/llehouerou/go-mp3"
)

// AudioInfo contains audio stream properties.
type AudioInfo struct {
	Duration   time.Duration
	Format     string // MP3, FLAC, VORBIS, OPUS, AAC, ALAC, M4A
	SampleRate int
}

// ReadAudioInfo reads stream properties without decoding the whole file
// where the container allows it.
func ReadAudioInfo(path string) (*AudioInfo, error) {
	ext := Ext(path)
	if !IsMusicFile(path) {
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}

	switch {
	case ext == ExtFLAC:
		return readFLACStreamInfo(path)
	case isOgg(ext):
		return readOggInfo(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if ext == ExtMP3 {
		return readMP3Info(f)
	}
	return readM4AInfo(f)
}

func readMP3Info(f *os.File) (*AudioInfo, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}
	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}
	samples := int64(max(decoder.SampleCount(), 0))
	return &AudioInfo{
		Duration:   samplesToDuration(samples, sampleRate),
		Format:     "MP3",
		SampleRate: sampleRate,
	}, nil
}

// readFLACStreamInfo decodes the STREAMINFO block. Files that go-flac
// rejects, such as those with a prepended ID3 tag, go through beep.
func readFLACStreamInfo(path string) (*AudioInfo, error) {
	file, err := goflac.ParseFile(path)
	if err != nil {
		return readFLACWithBeep(path)
	}
	for _, meta := range file.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		data := meta.Data
		// 20 bits of sample rate start at byte 10, 36 bits of sample count
		// end at byte 17
		sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
		samples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 |
			int64(data[16])<<8 | int64(data[17])
		return &AudioInfo{
			Duration:   samplesToDuration(samples, sampleRate),
			Format:     "FLAC",
			SampleRate: sampleRate,
		}, nil
	}
	return readFLACWithBeep(path)
}

func readFLACWithBeep(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		return nil, err
	}
	streamer, format, err := flac.Decode(f)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	return &AudioInfo{
		Duration:   format.SampleRate.D(streamer.Len()),
		Format:     "FLAC",
		SampleRate: int(format.SampleRate),
	}, nil
}

func readM4AInfo(f *os.File) (*AudioInfo, error) {
	container, err := m4a.Open(f)
	if err != nil {
		return nil, err
	}
	format := "M4A"
	switch container.Codec() {
	case m4a.CodecAAC:
		format = "AAC"
	case m4a.CodecALAC:
		format = "ALAC"
	case m4a.CodecUnknown:
	}
	return &AudioInfo{
		Duration:   container.Duration(),
		Format:     format,
		SampleRate: int(container.SampleRate()),
	}, nil
}

func samplesToDuration(samples int64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}
