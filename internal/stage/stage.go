// Package stage names the steps of the hide and dig pipelines and tracks how far into the
// carrier they have read.
package stage

import (
	"fmt"
)

// Stage identifies a single pipeline step.
type Stage int

const (
	Unknown Stage = iota // An unknown stage.

	// Hide pipeline, in order.
	Open
	CheckCapacity
	CopyHeader
	WriteMagic
	WriteExtnLen
	WriteExtn
	WritePayloadLen
	WritePayload
	CopyRemaining
	Commit

	// Dig pipeline, in order (Open and Commit are shared).
	VerifyMagic
	ReadExtnLen
	ReadExtn
	ReadPayloadLen
	ReadPayload

	maxStage = ReadPayload // The maximum stage value, used for validity checking.
)

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	return s > Unknown && s <= maxStage
}

// String returns the name of the stage, or "<unknown>" if unknown.
func (s Stage) String() string {
	switch s {
	case Open:
		return "open"
	case CheckCapacity:
		return "check capacity"
	case CopyHeader:
		return "copy header"
	case WriteMagic:
		return "write magic"
	case WriteExtnLen:
		return "write extension length"
	case WriteExtn:
		return "write extension"
	case WritePayloadLen:
		return "write payload length"
	case WritePayload:
		return "write payload"
	case CopyRemaining:
		return "copy remaining carrier bytes"
	case Commit:
		return "commit"
	case VerifyMagic:
		return "verify magic"
	case ReadExtnLen:
		return "read extension length"
	case ReadExtn:
		return "read extension"
	case ReadPayloadLen:
		return "read payload length"
	case ReadPayload:
		return "read payload"
	default:
		return "<unknown>"
	}
}

// EmptyPoolError is returned when a Cursor is asked for more carrier bytes than remain.
type EmptyPoolError struct {
	Requested int64
	Remaining int64
}

func (e *EmptyPoolError) Error() string {
	return fmt.Sprintf("The pool of carrier bytes is exhausted: requested %d, %d remaining.", e.Requested, e.Remaining)
}

// Cursor hands out consecutive windows of the carrier. Positions only move forward,
// so no carrier byte is ever handed out twice.
type Cursor struct {
	pos int64
	max int64
}

// NewCursor returns a Cursor over the carrier range [start, max).
func NewCursor(start, max int64) *Cursor {
	if start > max {
		start = max
	}
	return &Cursor{pos: start, max: max}
}

// Next reserves the next n carrier bytes and returns the offset of the first one.
// Nothing is reserved when the request does not fit.
func (c *Cursor) Next(n int64) (int64, error) {
	if n < 0 || n > c.Remaining() {
		return -1, &EmptyPoolError{Requested: n, Remaining: c.Remaining()}
	}
	start := c.pos
	c.pos += n
	return start, nil
}

// Fits reports whether n more bytes can be reserved.
func (c *Cursor) Fits(n int64) bool {
	return n >= 0 && n <= c.Remaining()
}

// Pos returns the offset of the next unreserved carrier byte.
func (c *Cursor) Pos() int64 {
	return c.pos
}

// Remaining returns the number of carrier bytes not yet reserved.
func (c *Cursor) Remaining() int64 {
	return c.max - c.pos
}
