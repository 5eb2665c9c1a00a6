package shn

import (
	"io"

	"github.com/pkg/errors"

	"github.com/go-shn/shn/internal/bits"
	"github.com/go-shn/shn/internal/rice"
	"github.com/go-shn/shn/predict"
	"github.com/go-shn/shn/wave"
)

// Shorten command ids, read via rice.Decoder.Uvar(FNSIZE).
const (
	fnDiff0 = iota
	fnDiff1
	fnDiff2
	fnDiff3
	fnQuit
	fnBlocksize
	fnBitshift
	fnQLPC
	fnZero
	fnVerbatim
)

// Bitstream field widths, named after the constants in §6 of spec.md.
const (
	fnsize       = 2
	bitshiftsize = 2
	verbatimsize = 5
	verbatimbyte = 8
)

// file_type codes. Of these, fileTypeSupported accepts only 16-bit signed
// PCM, little-endian (the common case) and its AIFF-equivalent big-endian
// counterpart.
const (
	fileTypeU8      = 2
	fileTypeS8      = 3
	fileTypeU16LE   = 4
	fileTypeS16LE   = 5 // the file_type value named in spec.md §6
	fileTypeU16BE   = 6
	fileTypeS16BE   = 7 // AIFF-equivalent big-endian 16-bit signed PCM
	fileTypeAIFF    = fileTypeS16BE
)

func fileTypeSupported(ft uint32) bool {
	switch ft {
	case fileTypeS16LE, fileTypeS16BE:
		return true
	default:
		return false
	}
}

// header holds the immutable-after-parse stream header fields from §3 of
// spec.md.
type header struct {
	version  uint8
	fileType uint32
	channels int
	maxnlpc  int
	nmean    int
	nskip    uint32
}

// decoderState names the top-level states from §4.5 of spec.md.
type decoderState int

const (
	stateInit decoderState = iota
	stateDecode
	stateDone
)

// Decoder is the top-level Shorten state machine: it owns one BitReader,
// dispatches commands into the predict package and the WaveHeaderProbe,
// and tracks the channel round-robin cursor and mutable blocksize/bitshift
// parameters shared across blocks.
type Decoder struct {
	header header
	br     *bits.Reader
	rd     *rice.Decoder

	state     decoderState
	channels  []*predict.ChannelState
	cur       int // round-robin channel cursor
	blocksize int
	bitshift  uint

	probe *wave.Probe

	err error // sticky terminal error, once set every call fails
}

// newDecoder parses the stream header (Init, HeaderV and HeaderFields in
// §4.5) and returns a Decoder positioned at the start of Decode. The magic
// and version byte precede the bitstream proper (§6) and are read as plain
// bytes directly from r, before any bits.Reader is constructed over it;
// bitstream-mode MSB reading begins only once those five bytes are past.
func newDecoder(r io.Reader) (*Decoder, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, errors.Wrap(ErrUnexpectedEOF, "shn: reading magic")
	}
	if string(magic) != Magic {
		return nil, ErrBadMagic
	}

	vbuf := make([]byte, 1)
	if _, err := io.ReadFull(r, vbuf); err != nil {
		return nil, errors.Wrap(ErrUnexpectedEOF, "shn: reading version")
	}
	version := vbuf[0]
	if version < 1 || version > 3 {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d", version)
	}

	br := bits.NewReader(r)
	d := &Decoder{
		header: header{version: version},
		br:     br,
		rd:     rice.NewDecoder(br),
		probe:  wave.NewProbe(),
	}
	if err := d.parseHeaderFields(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decoder) parseHeaderFields() error {
	version := d.header.version
	// HeaderFields.
	fileType, err := d.rd.Ulong()
	if err != nil {
		return d.ioErr(err)
	}
	if !fileTypeSupported(fileType) {
		return errors.Wrapf(ErrUnsupportedFileType, "file_type %d", fileType)
	}
	d.header.fileType = fileType

	channels, err := d.rd.Ulong()
	if err != nil {
		return d.ioErr(err)
	}
	if channels == 0 {
		return errors.Wrap(ErrInvalidParameter, "channels == 0")
	}
	d.header.channels = int(channels)

	var blocksize, maxnlpc, nmean, nskip uint32
	if version >= 2 {
		if blocksize, err = d.rd.Ulong(); err != nil {
			return d.ioErr(err)
		}
		if maxnlpc, err = d.rd.Ulong(); err != nil {
			return d.ioErr(err)
		}
		if nmean, err = d.rd.Ulong(); err != nil {
			return d.ioErr(err)
		}
		if nskip, err = d.rd.Ulong(); err != nil {
			return d.ioErr(err)
		}
		for i := uint32(0); i < nskip; i++ {
			if _, err := d.rd.Ulong(); err != nil {
				return d.ioErr(err)
			}
		}
	} else {
		if blocksize, err = d.rd.Ulong(); err != nil {
			return d.ioErr(err)
		}
		maxnlpc, nmean, nskip = 0, 0, 0
	}
	if blocksize == 0 {
		return errors.Wrap(ErrInvalidParameter, "blocksize == 0")
	}
	d.header.maxnlpc = int(maxnlpc)
	d.header.nmean = int(nmean)
	d.header.nskip = nskip
	d.blocksize = int(blocksize)

	histLen := predict.NWRAP
	if d.header.maxnlpc > histLen {
		histLen = d.header.maxnlpc
	}
	d.channels = make([]*predict.ChannelState, d.header.channels)
	for i := range d.channels {
		d.channels[i] = predict.NewChannelState(histLen, d.header.nmean)
	}

	d.state = stateDecode
	return nil
}

// ioErr classifies an error surfaced from the bit/Rice layers: an
// unexpected end of stream maps to ErrUnexpectedEOF, anything else is
// wrapped as a generic I/O failure.
func (d *Decoder) ioErr(err error) error {
	if err == bits.ErrUnexpectedEOF {
		return ErrUnexpectedEOF
	}
	return errors.Wrap(err, "shn: read")
}

// nextFrameGroup decodes commands until one block has been produced for
// every channel (a full interleaved frame group of d.blocksize frames), or
// the stream reaches FN_QUIT, or a terminal error occurs. It returns
// io.EOF once Done is reached with no further data.
func (d *Decoder) nextFrameGroup() ([][]int32, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.state == stateDone {
		return nil, io.EOF
	}

	blocks := make([][]int32, len(d.channels))
	got := 0
	for got < len(d.channels) {
		cmd, err := d.rd.Uvar(fnsize)
		if err != nil {
			d.err = d.ioErr(err)
			return nil, d.err
		}

		switch cmd {
		case fnDiff0, fnDiff1, fnDiff2, fnDiff3:
			block, err := d.decodeFixedBlock(int(cmd))
			if err != nil {
				d.err = err
				return nil, err
			}
			blocks[d.cur] = block
			d.advanceChannel()
			got++

		case fnQuit:
			d.state = stateDone
			if got == 0 {
				return nil, io.EOF
			}
			// A partial frame group at FN_QUIT is not emitted: §8
			// requires the total sample count to be a multiple of
			// channels. Drop it and report clean end of stream.
			return nil, io.EOF

		case fnBlocksize:
			bs, err := d.rd.Ulong()
			if err != nil {
				d.err = d.ioErr(err)
				return nil, d.err
			}
			if bs == 0 {
				d.err = errors.Wrap(ErrInvalidParameter, "blocksize == 0")
				return nil, d.err
			}
			d.blocksize = int(bs)

		case fnBitshift:
			shift, err := d.rd.Uvar(bitshiftsize)
			if err != nil {
				d.err = d.ioErr(err)
				return nil, d.err
			}
			d.bitshift = uint(shift)

		case fnQLPC:
			block, err := d.decodeQLPCBlock()
			if err != nil {
				d.err = err
				return nil, err
			}
			blocks[d.cur] = block
			d.advanceChannel()
			got++

		case fnZero:
			block := predict.DecodeZero(d.blocksize)
			d.channels[d.cur].Update(block)
			blocks[d.cur] = block
			d.advanceChannel()
			got++

		case fnVerbatim:
			if err := d.decodeVerbatim(); err != nil {
				d.err = err
				return nil, err
			}

		default:
			d.err = errors.Wrapf(ErrInvalidData, "unknown command id %d", cmd)
			return nil, d.err
		}
	}
	return blocks, nil
}

func (d *Decoder) advanceChannel() {
	d.cur = (d.cur + 1) % len(d.channels)
}

func (d *Decoder) decodeFixedBlock(cmd int) ([]int32, error) {
	residual, err := predict.DecodeResiduals(d.rd, d.blocksize)
	if err != nil {
		return nil, d.ioErr(err)
	}
	ch := d.channels[d.cur]
	coffset := int32(0)
	if cmd == predict.Diff0 {
		coffset = ch.Coffset(d.header.nmean)
	}
	block := predict.DecodeFixed(cmd, residual, ch, coffset)
	ch.Update(block)
	return block, nil
}

func (d *Decoder) decodeQLPCBlock() ([]int32, error) {
	order, err := d.rd.Uvar(predict.LPCQSIZE)
	if err != nil {
		return nil, d.ioErr(err)
	}
	if int(order) > d.header.maxnlpc {
		return nil, errors.Wrapf(ErrInvalidData, "LPC order %d exceeds maxnlpc %d", order, d.header.maxnlpc)
	}
	coeffs := make([]int32, order)
	for i := range coeffs {
		c, err := d.rd.Var(predict.LPCQSIZE)
		if err != nil {
			return nil, d.ioErr(err)
		}
		coeffs[i] = c
	}
	residual, err := predict.DecodeResiduals(d.rd, d.blocksize)
	if err != nil {
		return nil, d.ioErr(err)
	}
	ch := d.channels[d.cur]
	offsetEst := int32(0)
	if d.header.nmean > 0 {
		offsetEst = ch.Coffset(d.header.nmean)
	}
	block := predict.DecodeQLPC(residual, coeffs, ch, offsetEst)
	ch.Update(block)
	return block, nil
}

func (d *Decoder) decodeVerbatim() error {
	n, err := d.rd.Uvar(verbatimsize)
	if err != nil {
		return d.ioErr(err)
	}
	buf := make([]byte, n)
	for i := range buf {
		b, err := d.rd.Uvar(verbatimbyte)
		if err != nil {
			return d.ioErr(err)
		}
		buf[i] = byte(b)
	}
	d.probe.Feed(buf)
	return nil
}

// emit applies the current bitshift to a pre-shift block, producing the
// samples the consumer actually receives: every sample equals
// (prediction + residual) << bitshift.
func (d *Decoder) emit(blocks [][]int32) []int32 {
	if len(blocks) == 0 {
		return nil
	}
	n := len(blocks[0])
	out := make([]int32, 0, n*len(blocks))
	for i := 0; i < n; i++ {
		for _, block := range blocks {
			out = append(out, block[i]<<d.bitshift)
		}
	}
	return out
}
