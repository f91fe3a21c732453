package bmpsteg

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/zedseven/bmpsteg/internal/bitpack"
	"github.com/zedseven/bmpsteg/internal/stage"
)

// EncodeOptions stores the tunables of the hide pipeline.
type EncodeOptions struct {
	// StrictCapacity checks capacity against the exact envelope size instead of the
	// 4-byte-extension approximation.
	StrictCapacity bool
	// NullTerminated stops writing the payload at its first zero byte, as older encoders did.
	// The payload length field still carries the full length.
	NullTerminated bool
}

// Encoder writes a Secret into the pixel bytes of a carrier image.
type Encoder struct {
	logger *zap.Logger
	opts   EncodeOptions
}

// NewEncoder returns an Encoder. A nil logger discards all output.
func NewEncoder(logger *zap.Logger, opts EncodeOptions) *Encoder {
	return &Encoder{logger: orNop(logger), opts: opts}
}

type encodeState struct {
	carrier []byte
	out     []byte
	secret  Secret
	cursor  *stage.Cursor
}

type encodeStep struct {
	stage stage.Stage
	run   func(*encodeState) error
}

// Encode returns a copy of carrier with secret hidden in it. carrier is left untouched.
// Errors are *StageError values naming the step that failed.
func (e *Encoder) Encode(carrier []byte, secret Secret) ([]byte, error) {
	s := &encodeState{
		carrier: carrier,
		out:     make([]byte, len(carrier)),
		secret:  secret,
		cursor:  stage.NewCursor(HeaderSize, int64(len(carrier))),
	}

	for _, step := range e.steps() {
		if err := step.run(s); err != nil {
			return nil, &StageError{Stage: step.stage, Err: err}
		}
		e.logger.Debug("stage complete", zap.Stringer("stage", step.stage), zap.Int64("carrier_pos", s.cursor.Pos()))
	}

	return s.out, nil
}

func (e *Encoder) steps() []encodeStep {
	return []encodeStep{
		{stage.CheckCapacity, e.checkCapacity},
		{stage.CopyHeader, func(s *encodeState) error {
			copy(s.out[:HeaderSize], s.carrier[:HeaderSize])
			return nil
		}},
		{stage.WriteMagic, func(s *encodeState) error {
			return s.writeBytes([]byte(MagicString))
		}},
		{stage.WriteExtnLen, func(s *encodeState) error {
			return s.writeUint32(uint32(len(s.secret.Extension)))
		}},
		{stage.WriteExtn, func(s *encodeState) error {
			return s.writeBytes([]byte(s.secret.Extension))
		}},
		{stage.WritePayloadLen, func(s *encodeState) error {
			return s.writeUint32(uint32(len(s.secret.Payload)))
		}},
		{stage.WritePayload, e.writePayload},
		{stage.CopyRemaining, func(s *encodeState) error {
			pos := s.cursor.Pos()
			copy(s.out[pos:], s.carrier[pos:])
			return nil
		}},
	}
}

func (e *Encoder) checkCapacity(s *encodeState) error {
	extnLen, payloadLen := uint64(len(s.secret.Extension)), uint64(len(s.secret.Payload))
	if extnLen > maxFieldLen {
		return &MalformedArgumentError{fmt.Sprintf("The extension is %d bytes long, the limit is %d.", extnLen, uint64(maxFieldLen))}
	}
	if payloadLen > maxFieldLen {
		return &MalformedArgumentError{fmt.Sprintf("The file is %d bytes long, the limit is %d.", payloadLen, uint64(maxFieldLen))}
	}

	pixelBytes, err := CarrierCapacity(s.carrier)
	if err != nil {
		return err
	}

	required := approxRequired(payloadLen)
	ok := HasCapacity(pixelBytes, extnLen, payloadLen)
	if e.opts.StrictCapacity {
		// Strict mode wants pixelBytes >= required; report it as "more than required-1".
		required = RequiredCarrierBytes(extnLen, payloadLen) - 1
		ok = HasStrictCapacity(pixelBytes, extnLen, payloadLen)
	}

	e.logger.Debug("carrier capacity",
		zap.Uint64("pixel_bytes", pixelBytes),
		zap.Uint64("required", required),
		zap.Bool("strict", e.opts.StrictCapacity))

	if !ok {
		return &InsufficientCapacityError{Available: pixelBytes, Required: required}
	}
	return nil
}

func (e *Encoder) writePayload(s *encodeState) error {
	data := s.secret.Payload
	if e.opts.NullTerminated {
		if i := bytes.IndexByte(data, 0); i >= 0 {
			e.logger.Warn("payload truncated at first zero byte",
				zap.Int("written", i), zap.Int("declared", len(data)))
			data = data[:i]
		}
	}
	return s.writeBytes(data)
}

// window reserves n carrier bytes, copies them to the output and returns the output slice
// ready for packing.
func (s *encodeState) window(n int64) ([]byte, error) {
	off, err := s.cursor.Next(n)
	if err != nil {
		return nil, &InsufficientCapacityError{
			Available:      uint64(len(s.carrier) - HeaderSize),
			AdditionalInfo: "The image data ended before the hidden file was fully written.",
			InnerError:     err,
		}
	}
	w := s.out[off : off+n]
	copy(w, s.carrier[off:off+n])
	return w, nil
}

func (s *encodeState) writeBytes(data []byte) error {
	w, err := s.window(int64(len(data)) * bitpack.BitsPerByte)
	if err != nil {
		return err
	}
	bitpack.PackBytes(w, data)
	return nil
}

func (s *encodeState) writeUint32(v uint32) error {
	w, err := s.window(bitpack.BitsPerUint32)
	if err != nil {
		return err
	}
	bitpack.PackUint32(w, v)
	return nil
}
