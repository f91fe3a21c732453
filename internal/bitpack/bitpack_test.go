package bitpack_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zedseven/bmpsteg/internal/bitpack"
)

func randomCarrier(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

func TestPackBit(t *testing.T) {
	req := require.New(t)

	req.Equal(byte(0xFF), bitpack.PackBit(0xFE, 1))
	req.Equal(byte(0xFE), bitpack.PackBit(0xFF, 0))
	req.Equal(byte(0x00), bitpack.PackBit(0x00, 0))
	req.Equal(byte(0x81), bitpack.PackBit(0x80, 1))
	// Only the lowest bit of the argument counts.
	req.Equal(byte(0x80), bitpack.PackBit(0x81, 2))
	req.Equal(uint8(1), bitpack.UnpackBit(0x03))
	req.Equal(uint8(0), bitpack.UnpackBit(0xFE))
}

func TestByteRoundTrip(t *testing.T) {
	req := require.New(t)
	rng := rand.New(rand.NewSource(1))

	for b := 0; b < 256; b++ {
		for _, carrier := range [][]byte{
			make([]byte, bitpack.BitsPerByte),
			{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			randomCarrier(rng, bitpack.BitsPerByte),
		} {
			orig := append([]byte(nil), carrier...)
			bitpack.PackByte(carrier, byte(b))
			req.Equal(byte(b), bitpack.UnpackByte(carrier))
			for i := range carrier {
				req.Equal(orig[i]&0xFE, carrier[i]&0xFE, "high bits changed at %d", i)
			}
		}
	}
}

func TestByteOrder(t *testing.T) {
	req := require.New(t)

	carrier := make([]byte, bitpack.BitsPerByte)
	bitpack.PackByte(carrier, '#') // 0b00100011
	req.Equal([]byte{0, 0, 1, 0, 0, 0, 1, 1}, carrier)
}

func TestUint32RoundTrip(t *testing.T) {
	req := require.New(t)
	rng := rand.New(rand.NewSource(2))

	values := []uint32{0, 1, 4, 25, 0x80000000, 0xDEADBEEF, math.MaxUint32}
	for i := 0; i < 1000; i++ {
		values = append(values, rng.Uint32())
	}

	for _, v := range values {
		carrier := randomCarrier(rng, bitpack.BitsPerUint32)
		orig := append([]byte(nil), carrier...)
		bitpack.PackUint32(carrier, v)
		req.Equal(v, bitpack.UnpackUint32(carrier))
		for i := range carrier {
			req.Equal(orig[i]&0xFE, carrier[i]&0xFE)
		}
	}
}

func TestUint32Order(t *testing.T) {
	req := require.New(t)

	carrier := make([]byte, bitpack.BitsPerUint32)
	bitpack.PackUint32(carrier, 4)
	for i, b := range carrier {
		if i == 29 {
			req.Equal(byte(1), b)
			continue
		}
		req.Equal(byte(0), b, "index %d", i)
	}
}

func TestBytes(t *testing.T) {
	req := require.New(t)
	rng := rand.New(rand.NewSource(3))

	data := []byte("My password is secret :)\n\x00tail")
	carrier := randomCarrier(rng, len(data)*bitpack.BitsPerByte)
	bitpack.PackBytes(carrier, data)
	req.Equal(data, bitpack.UnpackBytes(carrier, len(data)))
	req.Empty(bitpack.UnpackBytes(carrier, 0))
}
