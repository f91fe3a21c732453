package bmpsteg

import (
	"fmt"

	"code.cloudfoundry.org/bytefmt"
	"go.uber.org/zap"

	"github.com/zedseven/bmpsteg/internal/stage"
	"github.com/zedseven/bmpsteg/internal/util"
)

// HideConfig stores the configuration options for the Hide operation.
type HideConfig struct {
	// ImagePath is the path on disk to the carrier BMP.
	ImagePath string
	// FilePath is the path on disk to the file to hide.
	FilePath string
	// OutPath is the path on disk to write the stego image to.
	OutPath string
	// CarrierExts lists the accepted extensions for ImagePath and OutPath. Empty accepts any.
	CarrierExts []string
	// SecretExts lists the accepted extensions for FilePath. Empty accepts any.
	SecretExts []string
	// VerifyCarrier requires the carrier to decode as a BMP before anything is written.
	VerifyCarrier bool
	// Options tune the encoder itself.
	Options EncodeOptions
}

func (config *HideConfig) validate() error {
	if len(config.ImagePath) <= 0 {
		return &MalformedArgumentError{"ImagePath is empty."}
	}
	if len(config.FilePath) <= 0 {
		return &MalformedArgumentError{"FilePath is empty."}
	}
	if len(config.OutPath) <= 0 {
		return &MalformedArgumentError{"OutPath is empty."}
	}
	if len(config.CarrierExts) > 0 {
		if !util.HasExt(config.ImagePath, config.CarrierExts...) {
			return &MalformedArgumentError{fmt.Sprintf("The image '%v' must have one of the extensions: %v.",
				config.ImagePath, util.JoinExts(config.CarrierExts))}
		}
		if !util.HasExt(config.OutPath, config.CarrierExts...) {
			return &MalformedArgumentError{fmt.Sprintf("The output image '%v' must have one of the extensions: %v.",
				config.OutPath, util.JoinExts(config.CarrierExts))}
		}
	}
	if len(config.SecretExts) > 0 && !util.HasExt(config.FilePath, config.SecretExts...) {
		return &MalformedArgumentError{fmt.Sprintf("The file '%v' must have one of the extensions: %v.",
			config.FilePath, util.JoinExts(config.SecretExts))}
	}
	return nil
}

// Hide hides the file at config.FilePath inside the image at config.ImagePath and writes the
// result to config.OutPath. The output file only appears once every stage has succeeded.
func Hide(config *HideConfig, logger *zap.Logger) error {
	logger = orNop(logger)

	// Input validation
	if err := config.validate(); err != nil {
		return err
	}

	logger.Info("loading the image", zap.String("path", config.ImagePath))
	carrier, err := loadFile(config.ImagePath, logger)
	if err != nil {
		return &StageError{Stage: stage.Open, Err: err}
	}

	if config.VerifyCarrier {
		model, err := bmpModel(carrier)
		if err != nil {
			return &StageError{Stage: stage.Open, Err: &MalformedArgumentError{
				fmt.Sprintf("The image '%v' is not a readable BMP: %v.", config.ImagePath, err)}}
		}
		logger.Debug("carrier verified", zap.String("model", model))
	}

	logger.Info("loading the file to hide", zap.String("path", config.FilePath))
	payload, err := loadFile(config.FilePath, logger)
	if err != nil {
		return &StageError{Stage: stage.Open, Err: err}
	}

	if err = checkWritable(config.OutPath); err != nil {
		return &StageError{Stage: stage.Open, Err: err}
	}

	secret := Secret{Extension: util.Ext(config.FilePath), Payload: payload}
	logger.Info("encoding the file into the image",
		zap.String("extension", secret.Extension),
		zap.String("size", bytefmt.ByteSize(uint64(len(payload)))))

	out, err := NewEncoder(logger, config.Options).Encode(carrier, secret)
	if err != nil {
		return err
	}

	logger.Info("writing the encoded image", zap.String("path", config.OutPath))
	if err = commitFile(config.OutPath, out); err != nil {
		return &StageError{Stage: stage.Commit, Err: err}
	}

	logger.Info("all done", zap.String("path", config.OutPath))
	return nil
}
