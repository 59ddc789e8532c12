// Package audio handles the wire-to-playback transforms for generated
// speech: base64 payload decoding and RIFF/WAVE container inspection. All
// functions are pure and stateless; a decode failure here is a local
// playback-preparation error, never a network error.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DecodeBase64 decodes a base64 audio payload to its raw bytes. Both padded
// and unpadded encodings are accepted; whitespace is stripped first.
func DecodeBase64(payload string) ([]byte, error) {
	s := strings.TrimSpace(payload)
	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	b, rawErr := base64.RawStdEncoding.DecodeString(s)
	if rawErr == nil {
		return b, nil
	}
	return nil, fmt.Errorf("audio: decode base64 payload: %w", err)
}

// EncodeBase64 is the inverse of DecodeBase64, producing a padded standard
// encoding.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Info holds the format metadata extracted from a RIFF/WAVE header.
type Info struct {
	// DataOffset is the byte offset of the first PCM sample.
	DataOffset int

	// DataLen is the length of the data chunk in bytes.
	DataLen int

	// SampleRate in samples per second (e.g. 24000).
	SampleRate int

	// Channels: 1 = mono, 2 = stereo.
	Channels int

	// BitsPerSample, typically 16.
	BitsPerSample int
}

// Duration returns the audio length in seconds, or 0 when the header did not
// allow computing it.
func (i Info) Duration() float64 {
	bytesPerSecond := i.SampleRate * i.Channels * i.BitsPerSample / 8
	if bytesPerSecond <= 0 {
		return 0
	}
	return float64(i.DataLen) / float64(bytesPerSecond)
}

// ParseWAV scans the RIFF/WAVE container in wav and returns format metadata
// from the "fmt " sub-chunk plus the location of the data chunk. Walking the
// chunks is more robust than assuming a fixed 44-byte header because the fmt
// chunk size may vary.
func ParseWAV(wav []byte) (Info, error) {
	if len(wav) < 12 {
		return Info{}, errors.New("audio: WAV payload too short to be a valid RIFF file")
	}
	if string(wav[0:4]) != "RIFF" {
		return Info{}, errors.New("audio: WAV payload missing RIFF header")
	}
	if string(wav[8:12]) != "WAVE" {
		return Info{}, errors.New("audio: WAV payload missing WAVE identifier")
	}

	var info Info

	// Walk RIFF chunks starting immediately after the 12-byte RIFF/WAVE header.
	offset := 12
	for offset+8 <= len(wav) {
		chunkID := string(wav[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[offset+4 : offset+8]))

		switch chunkID {
		case "fmt ":
			if chunkSize >= 16 && offset+8+16 <= len(wav) {
				fmtData := wav[offset+8:]
				info.Channels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
				info.SampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
				info.BitsPerSample = int(binary.LittleEndian.Uint16(fmtData[14:16]))
			}
		case "data":
			info.DataOffset = offset + 8
			info.DataLen = chunkSize
			if info.DataOffset+info.DataLen > len(wav) {
				info.DataLen = len(wav) - info.DataOffset
			}
			return info, nil
		}

		// Advance past this chunk (chunks are word-aligned: pad by 1 if odd size).
		offset += 8 + chunkSize
		if chunkSize%2 != 0 {
			offset++
		}
	}
	return Info{}, errors.New("audio: WAV payload missing data chunk")
}

// WAVFromPCM16 wraps raw little-endian 16-bit PCM samples in a canonical
// RIFF/WAVE container. Streamed generation delivers bare sample chunks, so
// the container has to be rebuilt client-side before the audio is playable.
func WAVFromPCM16(pcm []byte, sampleRate, channels int) []byte {
	const headerLen = 44
	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8

	buf := make([]byte, headerLen+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(headerLen-8+len(pcm)))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[44:], pcm)
	return buf
}

// WriteFile persists WAV bytes to path, creating parent directories as
// needed.
func WriteFile(path string, wav []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("audio: create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return fmt.Errorf("audio: write %s: %w", path, err)
	}
	return nil
}
