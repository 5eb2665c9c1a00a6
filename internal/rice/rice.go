// Package rice implements the Rice-coded integer primitives used throughout
// a Shorten bitstream: uvar, var and the two-level ulong code, layered on
// top of the MSB-first internal/bits.Reader.
package rice

import (
	"github.com/pkg/errors"

	"github.com/go-shn/shn/internal/bits"
)

// ULONGSIZE is the mantissa width, in bits, used by the leading uvar that
// selects the bit width of an Ulong's trailing uvar.
const ULONGSIZE = 2

// maxQuotient bounds the unary quotient prefix of an Uvar; a quotient larger
// than this is almost certainly a desynchronized bitstream rather than a
// legitimately huge value.
const maxQuotient = 64

// Decoder reads Rice-coded values from an underlying bit reader.
type Decoder struct {
	br *bits.Reader
}

// NewDecoder returns a Decoder reading from br.
func NewDecoder(br *bits.Reader) *Decoder {
	return &Decoder{br: br}
}

// Uvar reads an unsigned Rice-coded integer with k remainder bits: a unary
// quotient (counted as leading zero bits terminated by a one bit, read via
// internal/bits.Reader.ReadUnary) followed by a k-bit remainder, combined
// as (q << k) | r.
func (d *Decoder) Uvar(k uint) (uint32, error) {
	q64, err := d.br.ReadUnary()
	if err != nil {
		return 0, err
	}
	if q64 > maxQuotient {
		return 0, errors.New("rice: Uvar: quotient exceeds sane bound; corrupt bitstream")
	}
	q := uint32(q64)
	if k == 0 {
		return q, nil
	}
	if k > 32 {
		return 0, errors.New("rice: Uvar: remainder width exceeds 32 bits; corrupt bitstream")
	}
	r, err := d.br.ReadBits(k)
	if err != nil {
		return 0, err
	}
	return q<<k | r, nil
}

// Var reads a signed Rice-coded integer with k mantissa bits. It reads
// Uvar(k+1) and unfolds the extra bit to recover the sign via
// internal/bits.DecodeZigZag: even values map to non-negative numbers, odd
// values map to negative numbers.
func (d *Decoder) Var(k uint) (int32, error) {
	u, err := d.Uvar(k + 1)
	if err != nil {
		return 0, err
	}
	return bits.DecodeZigZag(u), nil
}

// Ulong reads the two-level code used for header scalars and FN_BLOCKSIZE:
// an Uvar(ULONGSIZE) selects the bit width of a following Uvar.
func (d *Decoder) Ulong() (uint32, error) {
	nbits, err := d.Uvar(ULONGSIZE)
	if err != nil {
		return 0, err
	}
	if nbits > 32 {
		return 0, errors.New("rice: Ulong: bit width exceeds 32; corrupt bitstream")
	}
	return d.Uvar(uint(nbits))
}
