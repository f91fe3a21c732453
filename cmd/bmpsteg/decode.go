package main

import (
	"fmt"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"

	"github.com/zedseven/bmpsteg"
)

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode STEGO [OUTPUT]",
		Short: "Extract the file hidden in STEGO",
		Long: `Extract the file hidden in the STEGO image and write it to OUTPUT
(default: decode.txt). Nothing is written if the image carries no hidden file.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.cfg.DecodeOut
			if len(args) == 2 {
				out = args[1]
			}

			secret, err := bmpsteg.Dig(&bmpsteg.DigConfig{
				ImagePath: args[0],
				OutPath:   out,
				ImageExts: a.cfg.CarrierExts,
				OutExts:   a.cfg.DecodeExts,
			}, a.logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Decoded %v (%v) into '%v'.\n",
				describeExtension(secret.Extension), bytefmt.ByteSize(uint64(len(secret.Payload))), out)
			return nil
		},
	}
}

func describeExtension(ext string) string {
	if ext == "" {
		return "a file with no extension"
	}
	return fmt.Sprintf("a %v file", ext)
}
