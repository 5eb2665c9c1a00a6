// Package wave implements the passive WAVE/AIFF header probe fed by a
// Shorten stream's FN_VERBATIM bytes: it sniffs a leading RIFF/WAVE or
// FORM/AIFF container for sample rate, bits-per-sample and channel count,
// grounded on the teacher's meta package (meta/meta.go's NewBlock, a
// sub-stream-driven format dispatcher) but aimed at the two PCM container
// formats a Shorten verbatim block actually carries.
package wave

import (
	"bytes"
	"encoding/binary"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Container identifies which header format a Probe resolved, if any.
type Container int

// Recognized container kinds.
const (
	ContainerNone Container = iota
	ContainerWAV
	ContainerAIFF
)

func (c Container) String() string {
	switch c {
	case ContainerWAV:
		return "wav"
	case ContainerAIFF:
		return "aiff"
	default:
		return ""
	}
}

// Probe accumulates verbatim bytes and, until populated, repeatedly
// attempts to resolve a leading RIFF/WAVE or FORM/AIFF container from
// them. It never fails: a header it cannot yet (or ever) parse just leaves
// its fields unset, per the non-fatal verbatim-parsing policy in §7.
type Probe struct {
	buf       []byte
	populated bool

	sampleRate    int
	bitsPerSample int
	channels      int
	container     Container
	byteOrder     binary.ByteOrder
}

// NewProbe returns an empty, unpopulated Probe.
func NewProbe() *Probe {
	return &Probe{byteOrder: binary.LittleEndian}
}

// Populated reports whether the probe has resolved sample rate and
// bits-per-sample from a container header.
func (p *Probe) Populated() bool { return p.populated }

// SampleRate returns the discovered sample rate in Hz, or 0 if unresolved.
func (p *Probe) SampleRate() int { return p.sampleRate }

// BitsPerSample returns the discovered sample depth, or 0 if unresolved.
func (p *Probe) BitsPerSample() int { return p.bitsPerSample }

// Channels returns the channel count found in the container header, for
// cross-checking against the stream header's own channel count.
func (p *Probe) Channels() int { return p.channels }

// Container reports which container kind, if any, was resolved.
func (p *Probe) Container() Container { return p.container }

// ByteOrder reports the sample byte order implied by the resolved
// container: little-endian for WAVE, big-endian for AIFF.
func (p *Probe) ByteOrder() binary.ByteOrder { return p.byteOrder }

// Feed absorbs more verbatim bytes. Once the probe is populated, further
// bytes are ignored; it is a passive sink and must never block or reject
// input.
func (p *Probe) Feed(b []byte) {
	if p.populated {
		return
	}
	p.buf = append(p.buf, b...)
	p.tryParse()
}

func (p *Probe) tryParse() {
	if len(p.buf) < 12 {
		return
	}
	switch {
	case string(p.buf[0:4]) == "RIFF" && string(p.buf[8:12]) == "WAVE":
		p.tryParseWAV()
	case string(p.buf[0:4]) == "FORM" && isAIFFFormType(p.buf[8:12]):
		p.tryParseAIFF()
	}
}

func isAIFFFormType(formType []byte) bool {
	s := string(formType)
	return s == "AIFF" || s == "AIFC"
}

// tryParseWAV hands the accumulated buffer to go-audio/wav, the same
// decoder the teacher's cmd/wav2flac drives (dec.IsValidFile(), then
// dec.SampleRate/.NumChans/.BitDepth).
func (p *Probe) tryParseWAV() {
	dec := wav.NewDecoder(bytes.NewReader(p.buf))
	if !dec.IsValidFile() || dec.SampleRate == 0 {
		return
	}
	p.sampleRate = int(dec.SampleRate)
	p.bitsPerSample = int(dec.BitDepth)
	p.channels = int(dec.NumChans)
	p.container = ContainerWAV
	p.byteOrder = binary.LittleEndian
	p.populated = true
}

// aiffCommHeaderSize is the byte length of a COMM chunk's fixed fields:
// channels(2) + sample frames(4) + sample size(2) + sample rate(10, IEEE
// 80-bit extended).
const aiffCommHeaderSize = 18

// tryParseAIFF walks FORM/AIFF chunks looking for COMM, decoding its
// 80-bit extended sample rate with go-audio/audio.IEEEFloatToInt the same
// way go-audio/aiff's own COMM parser does.
func (p *Probe) tryParseAIFF() {
	off := 12
	for off+8 <= len(p.buf) {
		id := string(p.buf[off : off+4])
		size := binary.BigEndian.Uint32(p.buf[off+4 : off+8])
		body := off + 8

		if id == "COMM" {
			if body+aiffCommHeaderSize > len(p.buf) {
				return // wait for more verbatim bytes
			}
			channels := binary.BigEndian.Uint16(p.buf[body : body+2])
			bits := binary.BigEndian.Uint16(p.buf[body+6 : body+8])
			var rateBytes [10]byte
			copy(rateBytes[:], p.buf[body+8:body+18])

			p.sampleRate = audio.IEEEFloatToInt(rateBytes)
			p.bitsPerSample = int(bits)
			p.channels = int(channels)
			p.container = ContainerAIFF
			p.byteOrder = binary.BigEndian
			p.populated = true
			return
		}

		next := body + int(size)
		if size%2 != 0 {
			next++ // chunks are word-aligned; padding byte isn't counted in size
		}
		if next <= off || next > len(p.buf) {
			return // chunk not fully buffered yet, or malformed; wait or give up
		}
		off = next
	}
}
