// Package bits provides a minimal MSB-first bit reader over an io.Reader.
package bits

import (
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// ErrUnexpectedEOF is returned when the underlying byte source is exhausted
// before a requested value has been fully read.
var ErrUnexpectedEOF = errors.New("bits: unexpected end of stream")

// Reader extracts bits from an underlying byte source, most-significant-bit
// first. It has no look-back, no rewind and no seek; bytes are consumed one
// at a time as bits are needed. A source that is not an io.ByteReader is
// wrapped in a buffered reader, so it may be read ahead of the bits consumed.
type Reader struct {
	br *bitio.Reader
}

// NewReader returns a Reader that reads bits from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bitio.NewReader(r)}
}

// ReadBits returns the next n bits (1 <= n <= 32) as an unsigned integer,
// most-significant-bit first.
func (r *Reader) ReadBits(n uint) (uint32, error) {
	if n == 0 || n > 32 {
		panic("bits: ReadBits: n out of range")
	}
	u, err := r.br.ReadBits(uint8(n))
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, ErrUnexpectedEOF
		}
		return 0, errors.Wrap(err, "bits: read")
	}
	return uint32(u), nil
}

// ReadBit returns the next single bit as 0 or 1.
func (r *Reader) ReadBit() (uint32, error) {
	return r.ReadBits(1)
}
