package main

import (
	"fmt"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/zedseven/bmpsteg"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect IMAGE",
		Short: "Show the capacity of IMAGE and whether it carries a hidden file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := bmpsteg.Inspect(args[0], a.logger)
			if err != nil {
				return err
			}

			model := info.Model
			if model == "" {
				model = "not a decodable BMP"
			}
			hidden := "no"
			if info.HasSecret {
				hidden = "yes"
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Property", "Value"})
			table.Append([]string{"Path", info.Path})
			table.Append([]string{"Dimensions", fmt.Sprintf("%dx%d px", info.Width, info.Height)})
			table.Append([]string{"Colour model", model})
			table.Append([]string{"File size", bytefmt.ByteSize(info.FileSize)})
			table.Append([]string{"Pixel bytes", fmt.Sprintf("%d", info.PixelBytes)})
			table.Append([]string{"Data bytes", fmt.Sprintf("%d", info.DataBytes)})
			table.Append([]string{"Max hidden file", bytefmt.ByteSize(info.MaxPayload)})
			table.Append([]string{"Carries a hidden file", hidden})
			table.Render()
			return nil
		},
	}
}
