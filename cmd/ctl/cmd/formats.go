package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/jpfielding/dtex.go/pkg/dtex"
	"github.com/spf13/cobra"
)

// NewFormatsCmd lists registered containers and, with --pixel, the pixel format table
func NewFormatsCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "registered container decoders",
		Long:  "Lists the container decoders Open dispatches to.",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, d := range dtex.Decoders() {
				fmt.Fprintln(w, d.FileFormat())
			}
			if pixel, _ := cmd.Flags().GetBool("pixel"); !pixel {
				return nil
			}
			fmt.Fprintln(w)
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FORMAT\tBLOCK\tBYTES\tCOMPRESSED")
			for f := dtex.FormatInvalid + 1; f.Valid(); f++ {
				b := dtex.BlockInfoFor(f)
				fmt.Fprintf(tw, "%v\t%dx%dx%d\t%d\t%t\n", f, b.Width, b.Height, b.Depth, b.Size, dtex.IsCompressed(f))
			}
			return tw.Flush()
		},
	}
	cmd.PersistentFlags().Bool("pixel", false, "also list pixel formats and their block sizes")
	return cmd
}
