package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zedseven/bmpsteg"
)

func (a *app) encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode CARRIER SECRET [OUTPUT]",
		Short: "Hide SECRET inside the CARRIER image",
		Long: `Hide SECRET inside the CARRIER image and write the result to OUTPUT
(default: stego.bmp). The output is only created if encoding succeeds.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := a.cfg.StegoOut
			if len(args) == 3 {
				out = args[2]
			}

			err := bmpsteg.Hide(&bmpsteg.HideConfig{
				ImagePath:     args[0],
				FilePath:      args[1],
				OutPath:       out,
				CarrierExts:   a.cfg.CarrierExts,
				SecretExts:    a.cfg.SecretExts,
				VerifyCarrier: a.cfg.VerifyCarrier,
				Options: bmpsteg.EncodeOptions{
					StrictCapacity: a.cfg.StrictCapacity,
					NullTerminated: a.cfg.NullTerminated,
				},
			}, a.logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Encoded '%v' into '%v'.\n", args[1], out)
			return nil
		},
	}
}
