package shn

import "github.com/pkg/errors"

// Sentinel error kinds, matching §7 of the specification. Wrapped errors
// returned by this package satisfy errors.Is against these values.
var (
	// ErrBadMagic is returned when a stream does not begin with "ajkg".
	ErrBadMagic = errors.New("shn: bad magic; expected \"ajkg\"")
	// ErrUnsupportedVersion is returned when the version byte is not 1, 2 or 3.
	ErrUnsupportedVersion = errors.New("shn: unsupported version")
	// ErrUnsupportedFileType is returned when file_type is not a recognized
	// 16-bit PCM code.
	ErrUnsupportedFileType = errors.New("shn: unsupported file type")
	// ErrInvalidData is returned for a malformed bitstream: an unknown
	// command id or an LPC order exceeding maxnlpc. A pathological Rice
	// code is reported as a wrapped read error that does not match
	// ErrInvalidData.
	ErrInvalidData = errors.New("shn: invalid data")
	// ErrInvalidParameter is returned for header values that are
	// structurally nonsensical: channels == 0, blocksize == 0, nmean < 0,
	// or a negative bitshift.
	ErrInvalidParameter = errors.New("shn: invalid parameter")
	// ErrUnexpectedEOF is returned when the byte source is exhausted
	// mid-value or before FN_QUIT.
	ErrUnexpectedEOF = errors.New("shn: unexpected end of stream")
)
