package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

const (
	oggMagic       = "OggS"
	oggHeaderSize  = 27
	opusSampleRate = 48000
	// the last page of a stream sits in the file's tail
	oggTailSize = 65536
)

var (
	vorbisIDHeader = []byte("\x01vorbis")
	opusIDHeader   = []byte("OpusHead")
)

var errOggDuration = errors.New("could not determine Ogg duration")

// readOggInfo derives the duration from the granule position of the last
// page. The first page identifies the codec and its granule rate.
func readOggInfo(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !isShortRead(err) {
		return nil, err
	}
	info, preSkip, err := parseOggIDHeader(head[:n])
	if err != nil {
		return nil, err
	}

	granule, err := lastGranule(f)
	if err != nil {
		return nil, err
	}
	info.Duration = samplesToDuration(max(granule-preSkip, 0), info.SampleRate)
	return info, nil
}

// parseOggIDHeader reads the codec identification packet of the first page.
func parseOggIDHeader(page []byte) (*AudioInfo, int64, error) {
	if len(page) < oggHeaderSize || string(page[:4]) != oggMagic {
		return nil, 0, errors.New("not an Ogg stream")
	}
	segments := int(page[26])
	start := oggHeaderSize + segments
	if start > len(page) {
		return nil, 0, errOggDuration
	}
	packet := page[start:]

	switch {
	case bytes.HasPrefix(packet, opusIDHeader) && len(packet) >= 12:
		preSkip := int64(binary.LittleEndian.Uint16(packet[10:12]))
		return &AudioInfo{Format: "OPUS", SampleRate: opusSampleRate}, preSkip, nil
	case bytes.HasPrefix(packet, vorbisIDHeader) && len(packet) >= 16:
		rate := int(binary.LittleEndian.Uint32(packet[12:16]))
		return &AudioInfo{Format: "VORBIS", SampleRate: rate}, 0, nil
	}
	return nil, 0, errors.New("unsupported Ogg codec")
}

func lastGranule(r io.ReadSeeker) (int64, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	searchSize := min(int64(oggTailSize), size)
	if _, err := r.Seek(-searchSize, io.SeekEnd); err != nil {
		return 0, err
	}
	buf := make([]byte, searchSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !isShortRead(err) {
		return 0, err
	}
	buf = buf[:n]

	for i := bytes.LastIndex(buf, []byte(oggMagic)); i >= 0; i = bytes.LastIndex(buf[:i], []byte(oggMagic)) {
		if i+14 > len(buf) {
			continue
		}
		if granule := int64(binary.LittleEndian.Uint64(buf[i+6 : i+14])); granule > 0 {
			return granule, nil
		}
	}
	return 0, errOggDuration
}

// skipID3v2 positions r after an ID3v2 tag, or at the start when there is
// none.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !isShortRead(err) {
		return err
	}
	if n < 10 || string(header[:3]) != id3Magic {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	// syncsafe size in bytes 6 to 9
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}

func isShortRead(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
