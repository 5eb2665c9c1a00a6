package shn

import "io"

// SampleIterator yields a Shorten stream's decoded samples one at a time,
// in interleaved channel order. It is lazy: each frame group is decoded
// only when its samples are exhausted, and it is single-pass, since the
// underlying Decoder advances through the bitstream and cannot rewind.
type SampleIterator struct {
	dec *Decoder

	buf []int32
	pos int

	err  error
	done bool
}

func newSampleIterator(dec *Decoder) *SampleIterator {
	return &SampleIterator{dec: dec}
}

// Next advances to the next sample and reports whether one is available.
// Once Next returns false, Err reports why: nil for a clean end of stream,
// non-nil for a decode failure. Next keeps returning false afterward.
func (it *SampleIterator) Next() bool {
	if it.done {
		return false
	}
	for it.pos >= len(it.buf) {
		blocks, err := it.dec.nextFrameGroup()
		if err != nil {
			it.done = true
			if err != io.EOF {
				it.err = err
			}
			return false
		}
		it.buf = it.dec.emit(blocks)
		it.pos = 0
		if len(it.buf) == 0 {
			// A frame group with zero-length blocks (blocksize was set
			// to 0 is rejected earlier, so this only happens for an
			// empty channel set, which newDecoder also rejects) would
			// spin forever; guard defensively and treat it as done.
			it.done = true
			return false
		}
	}
	it.pos++
	return true
}

// Sample returns the sample most recently made current by Next.
func (it *SampleIterator) Sample() int32 {
	return it.buf[it.pos-1]
}

// Err returns the first error encountered, or nil if the stream ended
// cleanly (FN_QUIT reached; an incomplete final frame group is dropped
// without an error).
func (it *SampleIterator) Err() error {
	return it.err
}
