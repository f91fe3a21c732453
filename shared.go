// Package bmpsteg hides a file inside the pixel data of a BMP image, one bit per pixel byte,
// and digs it back out.
package bmpsteg

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zedseven/bmpsteg/internal/bitpack"
	"github.com/zedseven/bmpsteg/internal/stage"
)

const (
	// HeaderSize is the number of leading image bytes copied verbatim and never used for hiding.
	HeaderSize = 54
	// MagicString marks images produced by this package.
	MagicString = "#*"

	widthOffset  = 18
	heightOffset = 22

	// lengthFieldBytes is the width of each length field in value bytes (32 bits).
	lengthFieldBytes = bitpack.BitsPerUint32 / bitpack.BitsPerByte
	// nominalExtnLen is the extension length assumed by HasCapacity.
	nominalExtnLen = 4
	// maxFieldLen is the largest length a 32-bit length field can carry.
	maxFieldLen = 1<<32 - 1

	VersionMax uint8 = 1
	VersionMid uint8 = 0
	VersionMin uint8 = 0
)

// Secret is the hidden file: its extension (with the leading dot) and its raw contents.
type Secret struct {
	Extension string
	Payload   []byte
}

// Error types

// FileAccessError is returned when a file is missing, unreadable or unwritable.
type FileAccessError struct {
	Path       string
	Op         string
	InnerError error
}

func (e *FileAccessError) Error() string {
	ret := fmt.Sprintf("Unable to %v the file '%v'.", e.Op, e.Path)
	if e.InnerError != nil {
		return fmt.Sprintf("%v Inner error: %v", ret, e.InnerError.Error())
	}
	return ret
}

func (e *FileAccessError) Unwrap() error {
	return e.InnerError
}

// InsufficientCapacityError is returned when the carrier is too small for the envelope.
type InsufficientCapacityError struct {
	Available      uint64
	Required       uint64
	AdditionalInfo string
	InnerError     error
}

func (e *InsufficientCapacityError) Error() string {
	ret := "There is not enough space available to store the provided file within the provided image."
	if e.Required > 0 {
		ret = fmt.Sprintf("%v Available carrier bytes: %d, required: more than %d.", ret, e.Available, e.Required)
	}
	if len(e.AdditionalInfo) > 0 {
		ret = fmt.Sprintf("%v Additional info: %v", ret, e.AdditionalInfo)
	}
	if e.InnerError != nil {
		ret = fmt.Sprintf("%v Inner error: %v", ret, e.InnerError.Error())
	}
	return ret
}

func (e *InsufficientCapacityError) Unwrap() error {
	return e.InnerError
}

// ProtocolMismatchError is returned when an image does not start with MagicString.
type ProtocolMismatchError struct {
	Found string
}

func (e *ProtocolMismatchError) Error() string {
	return fmt.Sprintf("The image does not carry a hidden file: expected the marker %q, found %q.", MagicString, e.Found)
}

// MalformedArgumentError is returned for invalid caller input, such as a wrong file extension.
type MalformedArgumentError struct {
	ErrorDesc string
}

func (e *MalformedArgumentError) Error() string {
	if len(e.ErrorDesc) > 0 {
		return e.ErrorDesc
	}
	return "The provided argument is malformed."
}

// CorruptStreamError is returned when a decoded length points past the end of the image.
type CorruptStreamError struct {
	Field      string
	Declared   uint64
	Remaining  uint64
	InnerError error
}

func (e *CorruptStreamError) Error() string {
	return fmt.Sprintf("The hidden stream is corrupt: %v declares %d bytes (%d carrier bytes) but only %d carrier bytes remain.",
		e.Field, e.Declared, e.Declared*bitpack.BitsPerByte, e.Remaining)
}

func (e *CorruptStreamError) Unwrap() error {
	return e.InnerError
}

// StageError attributes a failure to the pipeline stage it happened in.
type StageError struct {
	Stage stage.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%v: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage err was attributed to, or stage.Unknown if there is none or it is
// not a known stage.
func StageOf(err error) stage.Stage {
	var se *StageError
	if errors.As(err, &se) && se.Stage.IsValid() {
		return se.Stage
	}
	return stage.Unknown
}

// Library methods

// Version returns the library version as "MM.mm.nn".
func Version() string {
	return fmt.Sprintf("%02d.%02d.%02d", VersionMax, VersionMid, VersionMin)
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
