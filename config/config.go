package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	DefaultStegoOut  = "stego.bmp"
	DefaultDecodeOut = "decode.txt"
	DefaultLogLevel  = "info"
)

var (
	DefaultCarrierExts = []string{".bmp"}
	DefaultSecretExts  = []string{".txt"}
	DefaultDecodeExts  = []string{".txt"}
)

type Config struct {
	CarrierExts []string `mapstructure:"carrier-exts"`
	SecretExts  []string `mapstructure:"secret-exts"`
	DecodeExts  []string `mapstructure:"decode-exts"`

	StegoOut  string `mapstructure:"stego-out"`
	DecodeOut string `mapstructure:"decode-out"`

	// Encoder behaviour.
	StrictCapacity bool `mapstructure:"strict-capacity"`
	NullTerminated bool `mapstructure:"null-terminated"`
	VerifyCarrier  bool `mapstructure:"verify-carrier"`

	LogLevel string `mapstructure:"log-level"`
}

func (cfg *Config) Validate() error {
	for name, exts := range map[string][]string{
		"CarrierExts": cfg.CarrierExts,
		"SecretExts":  cfg.SecretExts,
		"DecodeExts":  cfg.DecodeExts,
	} {
		if len(exts) == 0 {
			return fmt.Errorf("invalid `%v`; expected: at least one extension", name)
		}
		for _, ext := range exts {
			if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("invalid `%v`; expected: extensions starting with '.', given: %q", name, ext)
			}
		}
	}

	if cfg.StegoOut == "" {
		return fmt.Errorf("invalid `StegoOut`; expected: a file name")
	}
	if cfg.DecodeOut == "" {
		return fmt.Errorf("invalid `DecodeOut`; expected: a file name")
	}

	if _, err := cfg.Level(); err != nil {
		return fmt.Errorf("invalid `LogLevel`; given: %q: %w", cfg.LogLevel, err)
	}

	return nil
}

// Level parses LogLevel.
func (cfg *Config) Level() (zapcore.Level, error) {
	var lvl zapcore.Level
	err := lvl.UnmarshalText([]byte(cfg.LogLevel))
	return lvl, err
}

func DefaultConfig() *Config {
	return &Config{
		CarrierExts: append([]string(nil), DefaultCarrierExts...),
		SecretExts:  append([]string(nil), DefaultSecretExts...),
		DecodeExts:  append([]string(nil), DefaultDecodeExts...),

		StegoOut:  DefaultStegoOut,
		DecodeOut: DefaultDecodeOut,

		LogLevel: DefaultLogLevel,
	}
}
