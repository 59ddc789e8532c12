package audio

import (
	"encoding/base64"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// makeWAV builds a minimal mono 16-bit WAV with the given sample rate and
// payload.
func makeWAV(sampleRate int, pcm []byte) []byte {
	return WAVFromPCM16(pcm, sampleRate, 1)
}

// TestBase64RoundTrip decodes what EncodeBase64 produced, and accepts
// unpadded input too.
func TestBase64RoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xFE, 0xFF}
	decoded, err := DecodeBase64(EncodeBase64(raw))
	if err != nil {
		t.Fatalf("DecodeBase64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Errorf("round trip = %v, want %v", decoded, raw)
	}

	unpadded := base64.RawStdEncoding.EncodeToString(raw)
	if _, err := DecodeBase64(unpadded); err != nil {
		t.Errorf("DecodeBase64 unpadded: %v", err)
	}

	if _, err := DecodeBase64("$$definitely not base64$$"); err == nil {
		t.Error("garbage input should fail")
	}
}

// TestParseWAV reads format metadata out of a canonical header.
func TestParseWAV(t *testing.T) {
	pcm := make([]byte, 48000) // 1 second of 24 kHz mono s16le
	wav := makeWAV(24000, pcm)

	info, err := ParseWAV(wav)
	if err != nil {
		t.Fatalf("ParseWAV: %v", err)
	}
	if info.SampleRate != 24000 {
		t.Errorf("sample rate = %d, want 24000", info.SampleRate)
	}
	if info.Channels != 1 || info.BitsPerSample != 16 {
		t.Errorf("format = %d ch / %d bit, want 1 ch / 16 bit", info.Channels, info.BitsPerSample)
	}
	if info.DataLen != len(pcm) {
		t.Errorf("data length = %d, want %d", info.DataLen, len(pcm))
	}
	if d := info.Duration(); d < 0.999 || d > 1.001 {
		t.Errorf("duration = %v, want 1s", d)
	}
}

// TestParseWAV_SkipsExtraChunks walks past a LIST chunk before data.
func TestParseWAV_SkipsExtraChunks(t *testing.T) {
	wav := makeWAV(24000, []byte{1, 2, 3, 4})

	// Splice a LIST chunk between fmt and data.
	list := make([]byte, 8+6) // odd-ish content padded to even
	copy(list[0:4], "LIST")
	binary.LittleEndian.PutUint32(list[4:8], 6)
	spliced := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)
	binary.LittleEndian.PutUint32(spliced[4:8], uint32(len(spliced)-8))

	info, err := ParseWAV(spliced)
	if err != nil {
		t.Fatalf("ParseWAV: %v", err)
	}
	if info.DataLen != 4 {
		t.Errorf("data length = %d, want 4", info.DataLen)
	}
}

// TestParseWAV_Invalid rejects truncated and non-RIFF payloads.
func TestParseWAV_Invalid(t *testing.T) {
	cases := map[string][]byte{
		"empty":       nil,
		"too short":   []byte("RIFF"),
		"not riff":    append([]byte("JUNK1234WAVE"), make([]byte, 64)...),
		"no data":     append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 4)...),
		"wrong magic": append([]byte("RIFF\x00\x00\x00\x00MP3 "), make([]byte, 64)...),
	}
	for name, payload := range cases {
		if _, err := ParseWAV(payload); err == nil {
			t.Errorf("%s: ParseWAV should fail", name)
		}
	}
}

// TestWAVFromPCM16 produces a container ParseWAV agrees with.
func TestWAVFromPCM16(t *testing.T) {
	pcm := []byte{0x10, 0x20, 0x30, 0x40}
	wav := WAVFromPCM16(pcm, 24000, 1)

	info, err := ParseWAV(wav)
	if err != nil {
		t.Fatalf("ParseWAV: %v", err)
	}
	if info.SampleRate != 24000 || info.Channels != 1 || info.BitsPerSample != 16 {
		t.Errorf("format = %+v", info)
	}
	if got := wav[info.DataOffset : info.DataOffset+info.DataLen]; string(got) != string(pcm) {
		t.Errorf("data = %v, want %v", got, pcm)
	}
}

// TestWriteFile creates missing parent directories.
func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "audio.wav")
	wav := makeWAV(24000, []byte{0, 0})

	if err := WriteFile(path, wav); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(wav) {
		t.Error("written bytes differ from input")
	}
}
