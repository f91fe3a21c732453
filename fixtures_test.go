package bmpsteg

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// syntheticBMP builds a header-only "BMP": a 54-byte header declaring w x h followed by
// pixelBytes random bytes. Only the fields this package reads are filled in.
func syntheticBMP(w, h int32, pixelBytes int, seed int64) []byte {
	img := make([]byte, HeaderSize+pixelBytes)
	copy(img, "BM")
	binary.LittleEndian.PutUint32(img[2:], uint32(len(img)))
	binary.LittleEndian.PutUint32(img[10:], HeaderSize)
	binary.LittleEndian.PutUint32(img[14:], 40)
	binary.LittleEndian.PutUint32(img[widthOffset:], uint32(w))
	binary.LittleEndian.PutUint32(img[heightOffset:], uint32(h))
	binary.LittleEndian.PutUint16(img[26:], 1)
	binary.LittleEndian.PutUint16(img[28:], 24)
	rand.New(rand.NewSource(seed)).Read(img[HeaderSize:])
	return img
}

// realBMP encodes an opaque w x h noise image as a 24-bit BMP.
func realBMP(t *testing.T, w, h int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, m))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

const scenarioSecret = "My password is secret :)\n"
