// Package bitpack hides values in the least-significant bits of carrier bytes, one bit per
// carrier byte, most-significant bit first.
package bitpack

import (
	"github.com/zedseven/binmani"
)

const (
	// BitsPerByte is the number of carrier bytes needed to hold one value byte.
	BitsPerByte = 8
	// BitsPerUint32 is the number of carrier bytes needed to hold one 32-bit length.
	BitsPerUint32 = 32
)

// PackBit returns into with its LSB replaced by bit. Only the lowest bit of bit is used.
func PackBit(into byte, bit uint8) byte {
	return byte(binmani.WriteTo(uint16(into), 0, 1, uint16(bit&1)))
}

// UnpackBit returns the LSB of from.
func UnpackBit(from byte) uint8 {
	return uint8(binmani.ReadFrom(uint16(from), 0, 1))
}

// PackByte writes value into the LSBs of carrier[0:8], MSB first.
// carrier must hold at least BitsPerByte bytes.
func PackByte(carrier []byte, value byte) {
	for i := 0; i < BitsPerByte; i++ {
		carrier[i] = PackBit(carrier[i], value>>(BitsPerByte-1-i))
	}
}

// UnpackByte rebuilds a byte from the LSBs of carrier[0:8], MSB first.
func UnpackByte(carrier []byte) byte {
	var b byte
	for i := 0; i < BitsPerByte; i++ {
		b = b<<1 | UnpackBit(carrier[i])
	}
	return b
}

// PackUint32 writes value into the LSBs of carrier[0:32], MSB first.
// carrier must hold at least BitsPerUint32 bytes.
func PackUint32(carrier []byte, value uint32) {
	for i := 0; i < BitsPerUint32; i++ {
		carrier[i] = PackBit(carrier[i], uint8(value>>(BitsPerUint32-1-i)))
	}
}

// UnpackUint32 rebuilds a 32-bit value from the LSBs of carrier[0:32], MSB first.
func UnpackUint32(carrier []byte) uint32 {
	var v uint32
	for i := 0; i < BitsPerUint32; i++ {
		v = v<<1 | uint32(UnpackBit(carrier[i]))
	}
	return v
}

// PackBytes writes every byte of data into consecutive 8-byte groups of carrier.
// carrier must hold at least len(data)*BitsPerByte bytes.
func PackBytes(carrier []byte, data []byte) {
	for i, b := range data {
		PackByte(carrier[i*BitsPerByte:], b)
	}
}

// UnpackBytes reads n bytes from consecutive 8-byte groups of carrier.
func UnpackBytes(carrier []byte, n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = UnpackByte(carrier[i*BitsPerByte:])
	}
	return data
}
