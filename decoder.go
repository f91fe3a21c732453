package bmpsteg

import (
	"go.uber.org/zap"

	"github.com/zedseven/bmpsteg/internal/bitpack"
	"github.com/zedseven/bmpsteg/internal/stage"
)

// Decoder reads a Secret back out of a stego image.
type Decoder struct {
	logger *zap.Logger
}

// NewDecoder returns a Decoder. A nil logger discards all output.
func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: orNop(logger)}
}

type decodeState struct {
	stego      []byte
	cursor     *stage.Cursor
	extnLen    uint64
	payloadLen uint64
	secret     Secret
}

type decodeStep struct {
	stage stage.Stage
	run   func(*decodeState) error
}

var decodeSteps = []decodeStep{
	{stage.VerifyMagic, verifyMagic},
	{stage.ReadExtnLen, func(s *decodeState) error {
		v, err := s.readUint32("extension length")
		s.extnLen = uint64(v)
		return err
	}},
	{stage.ReadExtn, func(s *decodeState) error {
		b, err := s.readBytes("extension", s.extnLen)
		s.secret.Extension = string(b)
		return err
	}},
	{stage.ReadPayloadLen, func(s *decodeState) error {
		v, err := s.readUint32("payload length")
		s.payloadLen = uint64(v)
		return err
	}},
	{stage.ReadPayload, func(s *decodeState) error {
		b, err := s.readBytes("payload", s.payloadLen)
		s.secret.Payload = b
		return err
	}},
}

// Decode extracts the Secret hidden in stego. Errors are *StageError values naming the step
// that failed; nothing is returned on failure.
func (d *Decoder) Decode(stego []byte) (*Secret, error) {
	s := &decodeState{
		stego:  stego,
		cursor: stage.NewCursor(HeaderSize, int64(len(stego))),
	}

	for _, step := range decodeSteps {
		if err := step.run(s); err != nil {
			return nil, &StageError{Stage: step.stage, Err: err}
		}
		d.logger.Debug("stage complete", zap.Stringer("stage", step.stage), zap.Int64("carrier_pos", s.cursor.Pos()))
	}

	return &s.secret, nil
}

func verifyMagic(s *decodeState) error {
	n := int64(len(MagicString)) * bitpack.BitsPerByte
	off, err := s.cursor.Next(n)
	if err != nil {
		return &ProtocolMismatchError{}
	}
	found := string(bitpack.UnpackBytes(s.stego[off:off+n], len(MagicString)))
	if found != MagicString {
		return &ProtocolMismatchError{Found: found}
	}
	return nil
}

func (s *decodeState) readUint32(field string) (uint32, error) {
	off, err := s.cursor.Next(bitpack.BitsPerUint32)
	if err != nil {
		return 0, &CorruptStreamError{
			Field:      field,
			Declared:   lengthFieldBytes,
			Remaining:  uint64(s.cursor.Remaining()),
			InnerError: err,
		}
	}
	return bitpack.UnpackUint32(s.stego[off : off+bitpack.BitsPerUint32]), nil
}

func (s *decodeState) readBytes(field string, n uint64) ([]byte, error) {
	remaining := uint64(s.cursor.Remaining())
	// n is at most a uint32, so size cannot overflow.
	size := int64(n) * bitpack.BitsPerByte
	if !s.cursor.Fits(size) {
		return nil, &CorruptStreamError{Field: field, Declared: n, Remaining: remaining}
	}
	off, err := s.cursor.Next(size)
	if err != nil {
		return nil, &CorruptStreamError{Field: field, Declared: n, Remaining: remaining, InnerError: err}
	}
	return bitpack.UnpackBytes(s.stego[off:off+size], int(n)), nil
}

// HasMarker reports whether stego starts with the magic marker.
func HasMarker(stego []byte) bool {
	return verifyMagic(&decodeState{stego: stego, cursor: stage.NewCursor(HeaderSize, int64(len(stego)))}) == nil
}
