/*
Links:
	http://shnutils.freeshell.org/shorten/
	http://etree.org/shnutils/shorten/docs/shorten.html

The bit-stream layout, predictor arithmetic and rounding rules implemented
here follow those references; see spec.md and SPEC_FULL.md in this module
for the normative description this package is built against.
*/

// Package shn provides a streaming decoder for the Shorten (SHN) lossless
// audio codec, versions 1 through 3. Given a byte stream containing a
// valid SHN file, it yields a sequence of interleaved PCM samples together
// with the channel count, sample rate and sample depth discovered along
// the way.
//
// Encoding, seeking, non-PCM sample formats and lossless reconstruction of
// non-audio container chunks are out of scope; see SPEC_FULL.md.
package shn

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/pkg/errors"
)

// Magic is the four-byte signature present at the beginning of every
// Shorten file.
const Magic = "ajkg"

// AudioInfo describes the channel count, sample rate and sample depth of a
// decoded stream. SampleRate and BitsPerSample are discovered from a
// verbatim-embedded RIFF/WAVE or FORM/AIFF header and remain 0 if the
// stream carried none, or the decoder never reached one before FN_QUIT.
type AudioInfo struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
	// Container names the verbatim container the header was resolved
	// from ("wav", "aiff", or "" if none was found).
	Container string
	// ByteOrder is the sample byte order: that of the resolved container
	// when a header was found (binary.BigEndian for AIFF,
	// binary.LittleEndian for WAVE); otherwise binary.BigEndian for the
	// big-endian file_type and binary.LittleEndian for the rest.
	ByteOrder binary.ByteOrder
	// Format mirrors Channels and SampleRate in the shape the
	// go-audio ecosystem expects, for callers already working with
	// github.com/go-audio/audio buffers.
	Format *audio.Format
}

// Stream is an open Shorten bitstream. Its sample sequence is single-pass:
// once consumed via Samples, it cannot be replayed.
type Stream struct {
	dec *Decoder
	rc  io.Closer // non-nil when New was handed an io.ReadCloser
}

// Open opens the named file and returns a parsed Stream header, ready to
// decode samples from. The caller must call Close when done.
func Open(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "shn: open")
	}
	s, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// New parses a Shorten stream header from r and returns a Stream ready to
// decode samples from. r is read exactly once, front to back; New never
// seeks.
func New(r io.Reader) (*Stream, error) {
	dec, err := newDecoder(r)
	if err != nil {
		return nil, err
	}
	s := &Stream{dec: dec}
	if rc, ok := r.(io.Closer); ok {
		s.rc = rc
	}
	return s, nil
}

// Close releases the underlying byte source, if it implements io.Closer
// (as the *os.File returned by Open always does).
func (s *Stream) Close() error {
	if s.rc != nil {
		return s.rc.Close()
	}
	return nil
}

// Info returns the channel count and, once discovered, the sample rate
// and bit depth of the stream.
func (s *Stream) Info() AudioInfo {
	channels := s.dec.channels
	info := AudioInfo{
		Channels:      len(channels),
		SampleRate:    0,
		BitsPerSample: 0,
		ByteOrder:     binary.LittleEndian,
	}
	if s.dec.header.fileType == fileTypeAIFF {
		info.ByteOrder = binary.BigEndian
	}
	if s.dec.probe != nil && s.dec.probe.Populated() {
		info.SampleRate = s.dec.probe.SampleRate()
		info.BitsPerSample = s.dec.probe.BitsPerSample()
		info.Container = s.dec.probe.Container().String()
		info.ByteOrder = s.dec.probe.ByteOrder()
	}
	info.Format = &audio.Format{
		NumChannels: info.Channels,
		SampleRate:  info.SampleRate,
	}
	return info
}

// Samples returns the stream's sample sequence. It is lazy, single-pass,
// and non-restartable: calling Samples again returns an iterator whose Next
// immediately returns false if the underlying decoder already reached
// FN_QUIT (Err is then nil) or a terminal error (Err reports that error).
func (s *Stream) Samples() *SampleIterator {
	return newSampleIterator(s.dec)
}
