package bmpsteg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"code.cloudfoundry.org/bytefmt"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"
)

// ImageInfo describes a carrier or stego image.
type ImageInfo struct {
	Path       string
	FileSize   uint64
	Width      int32
	Height     int32
	PixelBytes uint64 // width * height * 3, as used for capacity checks
	DataBytes  uint64 // bytes after the header actually present in the file
	MaxPayload uint64 // largest secret accepted by the capacity check
	// Model is the colour model reported by the BMP decoder, or "" if the file could not be
	// decoded as a BMP.
	Model     string
	HasSecret bool
}

// Inspect reads the image at path and reports its capacity and whether it carries a secret.
func Inspect(path string, logger *zap.Logger) (*ImageInfo, error) {
	logger = orNop(logger)

	img, err := loadFile(path, logger)
	if err != nil {
		return nil, err
	}

	pixelBytes, err := CarrierCapacity(img)
	if err != nil {
		return nil, err
	}

	info := &ImageInfo{
		Path:       path,
		FileSize:   uint64(len(img)),
		Width:      int32(binary.LittleEndian.Uint32(img[widthOffset:])),
		Height:     int32(binary.LittleEndian.Uint32(img[heightOffset:])),
		PixelBytes: pixelBytes,
		DataBytes:  uint64(len(img) - HeaderSize),
		MaxPayload: MaxPayload(pixelBytes),
		HasSecret:  HasMarker(img),
	}

	if model, err := bmpModel(img); err == nil {
		info.Model = model
	} else {
		logger.Debug("image is not a decodable BMP", zap.String("path", path), zap.Error(err))
	}

	return info, nil
}

// Helper functions

// loadFile reads the whole file at path, closing it on every path.
func loadFile(path string, logger *zap.Logger) (data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "open", InnerError: err}
	}

	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("error closing the file", zap.String("path", path), zap.Error(cerr))
		}
	}()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "read", InnerError: err}
	}

	logger.Debug("loaded file", zap.String("path", path), zap.String("size", bytefmt.ByteSize(uint64(len(data)))))
	return data, nil
}

// checkWritable makes sure the directory path would be created in exists.
func checkWritable(path string) error {
	dir := filepath.Dir(path)
	st, err := os.Stat(dir)
	if err != nil {
		return &FileAccessError{Path: path, Op: "create", InnerError: err}
	}
	if !st.IsDir() {
		return &FileAccessError{Path: path, Op: "create", InnerError: fmt.Errorf("%v is not a directory", dir)}
	}
	return nil
}

// commitFile writes data to a temporary file next to path and renames it into place,
// so path either holds all of data or is left as it was.
func commitFile(path string, data []byte) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return &FileAccessError{Path: path, Op: "write", InnerError: err}
	}
	return nil
}

func bmpModel(img []byte) (string, error) {
	cfg, err := bmp.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return "", err
	}
	return colourModelToStr(cfg.ColorModel), nil
}

func colourModelToStr(model color.Model) string {
	if _, ok := model.(color.Palette); ok {
		return "Paletted"
	}
	switch model {
	case color.NRGBAModel:
		return "NRGBA"
	case color.RGBAModel:
		return "RGBA"
	case color.GrayModel:
		return "Gray"
	default:
		return "<Unknown>"
	}
}
