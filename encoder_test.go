package bmpsteg

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zedseven/bmpsteg/internal/bitpack"
	"github.com/zedseven/bmpsteg/internal/stage"
)

func TestEncodeScenario(t *testing.T) {
	req := require.New(t)

	carrier := syntheticBMP(100, 34, 10000, 7)
	orig := append([]byte(nil), carrier...)

	out, err := NewEncoder(zaptest.NewLogger(t), EncodeOptions{}).Encode(carrier, Secret{".txt", []byte(scenarioSecret)})
	req.NoError(err)
	req.Len(out, len(carrier))
	req.Equal(orig, carrier, "carrier must not be modified")

	// Header preserved verbatim.
	req.Equal(carrier[:HeaderSize], out[:HeaderSize])

	// Only LSBs change.
	for i := HeaderSize; i < len(out); i++ {
		req.Equal(carrier[i]&0xFE, out[i]&0xFE, "byte %d", i)
	}

	// Bytes past the envelope are copied unmodified.
	end := HeaderSize + int(RequiredCarrierBytes(4, uint64(len(scenarioSecret))))
	req.Equal(carrier[end:], out[end:])

	// Field layout.
	pos := HeaderSize
	req.Equal(MagicString, string(bitpack.UnpackBytes(out[pos:], 2)))
	pos += 16
	req.Equal(uint32(4), bitpack.UnpackUint32(out[pos:]))
	pos += 32
	req.Equal(".txt", string(bitpack.UnpackBytes(out[pos:], 4)))
	pos += 32
	req.Equal(uint32(25), bitpack.UnpackUint32(out[pos:]))
	pos += 32
	req.Equal(scenarioSecret, string(bitpack.UnpackBytes(out[pos:], 25)))
}

func TestEncodeInsufficientCapacity(t *testing.T) {
	req := require.New(t)

	// A header declares width*height*3 pixel bytes, so it cannot declare exactly 100. 99 and
	// 102 bracket it and are refused the same way as 100.
	req.False(HasCapacity(100, 4, 50))
	req.False(HasCapacity(102, 4, 50))

	big := syntheticBMP(34, 1, 102, 1)
	_, err := NewEncoder(nil, EncodeOptions{}).Encode(big, Secret{".txt", make([]byte, 50)})
	req.Equal(stage.CheckCapacity, StageOf(err))

	carrier := syntheticBMP(33, 1, 100, 1)
	_, err = NewEncoder(nil, EncodeOptions{}).Encode(carrier, Secret{".txt", make([]byte, 50)})
	req.Error(err)

	var capErr *InsufficientCapacityError
	req.True(errors.As(err, &capErr))
	req.Equal(uint64(99), capErr.Available)
	req.Equal(stage.CheckCapacity, StageOf(err))
}

func TestEncodeCarrierEndsEarly(t *testing.T) {
	req := require.New(t)

	// The header claims plenty of room but the file holds only 150 pixel bytes.
	carrier := syntheticBMP(1000, 1000, 150, 1)
	_, err := NewEncoder(nil, EncodeOptions{}).Encode(carrier, Secret{".txt", []byte(scenarioSecret)})

	var capErr *InsufficientCapacityError
	req.True(errors.As(err, &capErr))
	req.Equal(stage.WritePayload, StageOf(err))

	var poolErr *stage.EmptyPoolError
	req.True(errors.As(err, &poolErr))
}

func TestEncodeLongExtension(t *testing.T) {
	req := require.New(t)

	payload := []byte("0123456789")
	ext := ".averyveryverylongextension"

	// 300 pixel bytes sits above the nominal requirement ((2+4+4+4+10)*8 = 192) and below the
	// exact one ((2+4+27+4+10)*8 = 376).
	carrier := syntheticBMP(100, 1, 300, 3)
	req.True(HasCapacity(300, uint64(len(ext)), uint64(len(payload))))
	req.False(HasStrictCapacity(300, uint64(len(ext)), uint64(len(payload))))

	// The nominal check passes and the carrier runs out once the payload starts.
	_, err := NewEncoder(nil, EncodeOptions{}).Encode(carrier, Secret{ext, payload})
	req.Error(err)
	req.Equal(stage.WritePayload, StageOf(err))

	// Strict mode refuses up front. Both report as insufficient capacity.
	_, strictErr := NewEncoder(nil, EncodeOptions{StrictCapacity: true}).Encode(carrier, Secret{ext, payload})
	req.Equal(stage.CheckCapacity, StageOf(strictErr))
	var capErr *InsufficientCapacityError
	req.True(errors.As(err, &capErr))
	req.True(errors.As(strictErr, &capErr))
}

func TestEncodeShortHeader(t *testing.T) {
	_, err := NewEncoder(nil, EncodeOptions{}).Encode(make([]byte, 20), Secret{".txt", nil})
	var malformed *MalformedArgumentError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, stage.CheckCapacity, StageOf(err))
}

func TestEncodeNullTerminated(t *testing.T) {
	req := require.New(t)

	payload := []byte("abc\x00def")
	carrier := syntheticBMP(100, 100, 30000, 9)

	exact, err := NewEncoder(nil, EncodeOptions{}).Encode(carrier, Secret{".txt", payload})
	req.NoError(err)
	compat, err := NewEncoder(zaptest.NewLogger(t), EncodeOptions{NullTerminated: true}).Encode(carrier, Secret{".txt", payload})
	req.NoError(err)

	payloadStart := HeaderSize + int(RequiredCarrierBytes(4, 0))
	req.Equal(exact[:payloadStart], compat[:payloadStart])

	// Both declare the full length.
	req.Equal(uint32(len(payload)), bitpack.UnpackUint32(compat[payloadStart-32:]))

	// Compat mode stops after "abc"; the rest is untouched carrier.
	req.Equal("abc", string(bitpack.UnpackBytes(compat[payloadStart:], 3)))
	tail := payloadStart + 3*8
	req.Equal(carrier[tail:], compat[tail:])
	req.False(bytes.Equal(exact[tail:], compat[tail:]))
}

func TestEncodeRandomRoundTrip(t *testing.T) {
	req := require.New(t)
	rng := rand.New(rand.NewSource(11))

	enc := NewEncoder(nil, EncodeOptions{})
	dec := NewDecoder(nil)
	for i := 0; i < 50; i++ {
		payload := make([]byte, rng.Intn(300))
		rng.Read(payload)
		ext := []string{"", ".txt", ".c", ".tar.gz", ".jpeg"}[rng.Intn(5)]

		pixelBytes := int(RequiredCarrierBytes(uint64(len(ext)), uint64(len(payload)))) + 32 + rng.Intn(500)
		carrier := syntheticBMP(int32(pixelBytes), 1, pixelBytes, int64(i))

		out, err := enc.Encode(carrier, Secret{ext, payload})
		req.NoError(err)
		secret, err := dec.Decode(out)
		req.NoError(err)
		req.Equal(ext, secret.Extension)
		req.Equal(payload, secret.Payload)
	}
}
