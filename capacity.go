package bmpsteg

import (
	"encoding/binary"
	"fmt"

	"github.com/zedseven/bmpsteg/internal/bitpack"
)

// channelsPerPixel is the number of colour bytes per pixel assumed when sizing a carrier.
const channelsPerPixel = 3

// CarrierCapacity returns width * height * 3 as declared by the BMP header.
// A negative height marks a top-down bitmap; its magnitude is used.
func CarrierCapacity(header []byte) (uint64, error) {
	if len(header) < HeaderSize {
		return 0, &MalformedArgumentError{fmt.Sprintf("The image header is %d bytes long, expected at least %d.", len(header), HeaderSize)}
	}
	w := int64(int32(binary.LittleEndian.Uint32(header[widthOffset:])))
	h := int64(int32(binary.LittleEndian.Uint32(header[heightOffset:])))
	if w < 0 {
		return 0, &MalformedArgumentError{fmt.Sprintf("The image header declares a negative width (%d).", w)}
	}
	if h < 0 {
		h = -h
	}
	return uint64(w) * uint64(h) * channelsPerPixel, nil
}

// HasCapacity reports whether pixelBytes carrier bytes can hold the envelope for a payload of
// payloadLen bytes. The extension is always sized at 4 bytes, whatever extnLen is, so stego
// images stay interchangeable with older encoders.
func HasCapacity(pixelBytes, extnLen, payloadLen uint64) bool {
	return pixelBytes > approxRequired(payloadLen)
}

// HasStrictCapacity is HasCapacity using the real extension length.
func HasStrictCapacity(pixelBytes, extnLen, payloadLen uint64) bool {
	return pixelBytes >= RequiredCarrierBytes(extnLen, payloadLen)
}

// RequiredCarrierBytes returns the exact number of carrier bytes the envelope occupies.
func RequiredCarrierBytes(extnLen, payloadLen uint64) uint64 {
	return (uint64(len(MagicString)) + lengthFieldBytes + extnLen + lengthFieldBytes + payloadLen) * bitpack.BitsPerByte
}

// MaxPayload returns the largest payload HasCapacity accepts for pixelBytes carrier bytes.
func MaxPayload(pixelBytes uint64) uint64 {
	overhead := approxRequired(0)
	if pixelBytes <= overhead {
		return 0
	}
	// Largest p with (overhead/8 + p) * 8 < pixelBytes.
	return (pixelBytes - overhead - 1) / bitpack.BitsPerByte
}

func approxRequired(payloadLen uint64) uint64 {
	return (uint64(len(MagicString)) + lengthFieldBytes + nominalExtnLen + lengthFieldBytes + payloadLen) * bitpack.BitsPerByte
}
