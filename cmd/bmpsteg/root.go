package main

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/zedseven/bmpsteg"
	"github.com/zedseven/bmpsteg/config"
)

const envPrefix = "BMPSTEG"

type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger

	cfgFile     string
	printConfig bool
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), cfg: config.DefaultConfig()}

	root := &cobra.Command{
		Use:   "bmpsteg",
		Short: "Hide a file inside a BMP image, or dig it back out",
		Long: `bmpsteg hides a file in the least-significant bits of a BMP image's pixel bytes,
one bit per byte, and extracts it again. The image looks the same; its size does not change.`,
		Version:           bmpsteg.Version(),
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	a.bindFlags(root.PersistentFlags())
	root.AddCommand(a.encodeCmd(), a.decodeCmd(), a.inspectCmd())
	return root
}

func (a *app) bindFlags(flags *pflag.FlagSet) {
	def := a.cfg

	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.BoolVar(&a.printConfig, "print-config", false, "print the resolved config before running")

	flags.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	flags.StringSlice("carrier-exts", def.CarrierExts, "accepted image extensions")
	flags.StringSlice("secret-exts", def.SecretExts, "accepted extensions for the file to hide")
	flags.StringSlice("decode-exts", def.DecodeExts, "accepted extensions for the decoded output")
	flags.String("stego-out", def.StegoOut, "default output image for encode")
	flags.String("decode-out", def.DecodeOut, "default output file for decode")
	flags.Bool("strict-capacity", def.StrictCapacity, "check capacity against the exact envelope size")
	flags.Bool("null-terminated", def.NullTerminated, "stop writing the payload at its first zero byte (legacy encoders)")
	flags.Bool("verify-carrier", def.VerifyCarrier, "require the carrier to decode as a BMP")
}

// load resolves the config from flags, environment and the optional config file, then builds
// the logger.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := a.v.Unmarshal(a.cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	lvl, _ := a.cfg.Level()
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.DisableStacktrace = true
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	a.logger = logger.Named("bmpsteg")

	if a.printConfig {
		spew.Fdump(cmd.OutOrStdout(), a.cfg)
	}

	return nil
}
