package wave_test

import (
	"encoding/binary"
	"testing"

	"github.com/go-shn/shn/wave"
)

func littleWAVHeader(sampleRate uint32, channels, bitsPerSample uint16) []byte {
	var buf []byte
	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, 0, 0, 0, 0) // chunk size, unchecked by the probe
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	le := binary.LittleEndian
	fmtBody := make([]byte, 16)
	le.PutUint16(fmtBody[0:], 1) // PCM
	le.PutUint16(fmtBody[2:], channels)
	le.PutUint32(fmtBody[4:], sampleRate)
	byteRate := sampleRate * uint32(channels) * uint32(bitsPerSample) / 8
	le.PutUint32(fmtBody[8:], byteRate)
	le.PutUint16(fmtBody[12:], channels*bitsPerSample/8)
	le.PutUint16(fmtBody[14:], bitsPerSample)
	size := make([]byte, 4)
	le.PutUint32(size, uint32(len(fmtBody)))
	buf = append(buf, size...)
	buf = append(buf, fmtBody...)
	buf = append(buf, []byte("data")...)
	buf = append(buf, 0, 0, 0, 0)
	return buf
}

func TestProbeResolvesWAVHeader(t *testing.T) {
	p := wave.NewProbe()
	p.Feed(littleWAVHeader(44100, 2, 16))
	if !p.Populated() {
		t.Fatalf("expected probe to resolve a WAV header")
	}
	if p.SampleRate() != 44100 {
		t.Errorf("sample rate: got %d, want 44100", p.SampleRate())
	}
	if p.BitsPerSample() != 16 {
		t.Errorf("bits per sample: got %d, want 16", p.BitsPerSample())
	}
	if p.Channels() != 2 {
		t.Errorf("channels: got %d, want 2", p.Channels())
	}
	if p.Container() != wave.ContainerWAV {
		t.Errorf("container: got %v, want wav", p.Container())
	}
}

func aiffHeader(sampleRate int, channels, bits uint16) []byte {
	var buf []byte
	buf = append(buf, []byte("FORM")...)
	buf = append(buf, 0, 0, 0, 0)
	buf = append(buf, []byte("AIFF")...)
	buf = append(buf, []byte("COMM")...)
	be := binary.BigEndian
	size := make([]byte, 4)
	be.PutUint32(size, 18)
	buf = append(buf, size...)
	body := make([]byte, 18)
	be.PutUint16(body[0:], channels)
	be.PutUint32(body[2:], 1000) // sample frames, unchecked
	be.PutUint16(body[6:], bits)
	copy(body[8:18], extendedFromInt(sampleRate))
	buf = append(buf, body...)
	return buf
}

// extendedFromInt encodes an integer Hz value as an 80-bit IEEE extended
// float covering the common sample rates exercised by the tests.
func extendedFromInt(hz int) []byte {
	// A handful of known encodings for the sample rates this test uses,
	// matching what a real AIFF encoder emits.
	switch hz {
	case 44100:
		return []byte{0x40, 0x0E, 0xAC, 0x44, 0, 0, 0, 0, 0, 0}
	case 48000:
		return []byte{0x40, 0x0E, 0xBB, 0x80, 0, 0, 0, 0, 0, 0}
	default:
		panic("extendedFromInt: unsupported test sample rate")
	}
}

func TestProbeResolvesAIFFHeader(t *testing.T) {
	p := wave.NewProbe()
	p.Feed(aiffHeader(44100, 1, 16))
	if !p.Populated() {
		t.Fatalf("expected probe to resolve an AIFF header")
	}
	if p.SampleRate() != 44100 {
		t.Errorf("sample rate: got %d, want 44100", p.SampleRate())
	}
	if p.Container() != wave.ContainerAIFF {
		t.Errorf("container: got %v, want aiff", p.Container())
	}
	if p.ByteOrder() != binary.BigEndian {
		t.Errorf("expected big-endian byte order for an AIFF header")
	}
}

func TestProbeIgnoresGarbage(t *testing.T) {
	p := wave.NewProbe()
	p.Feed([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B})
	if p.Populated() {
		t.Fatalf("garbage input must not populate the probe")
	}
	if p.SampleRate() != 0 {
		t.Errorf("sample rate must stay 0 on unresolved input, got %d", p.SampleRate())
	}
}

func TestProbeIgnoresFurtherFeedsOncePopulated(t *testing.T) {
	p := wave.NewProbe()
	p.Feed(littleWAVHeader(48000, 1, 16))
	if !p.Populated() {
		t.Fatalf("expected probe to resolve a WAV header")
	}
	p.Feed(aiffHeader(44100, 2, 24))
	if p.SampleRate() != 48000 {
		t.Errorf("second feed must be ignored once populated; got sample rate %d", p.SampleRate())
	}
}
