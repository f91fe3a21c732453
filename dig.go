package bmpsteg

import (
	"fmt"

	"code.cloudfoundry.org/bytefmt"
	"go.uber.org/zap"

	"github.com/zedseven/bmpsteg/internal/stage"
	"github.com/zedseven/bmpsteg/internal/util"
)

// DigConfig stores the configuration options for the Dig operation.
type DigConfig struct {
	ImagePath string   // The path on disk to the stego image.
	OutPath   string   // The path on disk to write the recovered file to.
	ImageExts []string // Accepted extensions for ImagePath. Empty accepts any.
	OutExts   []string // Accepted extensions for OutPath. Empty accepts any.
}

func (config *DigConfig) validate() error {
	if len(config.ImagePath) <= 0 {
		return &MalformedArgumentError{"ImagePath is empty."}
	}
	if len(config.OutPath) <= 0 {
		return &MalformedArgumentError{"OutPath is empty."}
	}
	if len(config.ImageExts) > 0 && !util.HasExt(config.ImagePath, config.ImageExts...) {
		return &MalformedArgumentError{fmt.Sprintf("The image '%v' must have one of the extensions: %v.",
			config.ImagePath, util.JoinExts(config.ImageExts))}
	}
	if len(config.OutExts) > 0 && !util.HasExt(config.OutPath, config.OutExts...) {
		return &MalformedArgumentError{fmt.Sprintf("The output file '%v' must have one of the extensions: %v.",
			config.OutPath, util.JoinExts(config.OutExts))}
	}
	return nil
}

// Dig extracts the file hidden in the image at config.ImagePath and writes its contents to
// config.OutPath. Nothing is written unless the whole envelope decodes.
func Dig(config *DigConfig, logger *zap.Logger) (*Secret, error) {
	logger = orNop(logger)

	// Input validation
	if err := config.validate(); err != nil {
		return nil, err
	}

	logger.Info("loading the image", zap.String("path", config.ImagePath))
	stego, err := loadFile(config.ImagePath, logger)
	if err != nil {
		return nil, &StageError{Stage: stage.Open, Err: err}
	}

	if err = checkWritable(config.OutPath); err != nil {
		return nil, &StageError{Stage: stage.Open, Err: err}
	}

	logger.Info("reading the file from the image")
	secret, err := NewDecoder(logger).Decode(stego)
	if err != nil {
		return nil, err
	}

	logger.Info("decoded the hidden file",
		zap.String("extension", secret.Extension),
		zap.String("size", bytefmt.ByteSize(uint64(len(secret.Payload)))))

	if ext := util.Ext(config.OutPath); ext != secret.Extension {
		logger.Warn("output extension differs from the hidden file's",
			zap.String("output", ext), zap.String("hidden", secret.Extension))
	}

	logger.Info("writing the output file", zap.String("path", config.OutPath))
	if err = commitFile(config.OutPath, secret.Payload); err != nil {
		return nil, &StageError{Stage: stage.Commit, Err: err}
	}

	logger.Info("all done", zap.String("path", config.OutPath))
	return secret, nil
}
