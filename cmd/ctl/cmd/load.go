package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jpfielding/dtex.go/pkg/dtex"
	"github.com/jpfielding/dtex.go/pkg/util"
	"github.com/spf13/cobra"
)

// NewLoadCmd runs both load phases into exactly sized buffers
func NewLoadCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [uri]",
		Short: "decode texture image data",
		Long:  "Opens a texture, allocates the destination and scratch buffers it asks for, loads the image data and prints a content id of the packed buffer.",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readURI(ctx, cmd, args)
			if err != nil {
				return err
			}
			ob, err := dtex.Open(src)
			if err != nil {
				return err
			}
			dst := make([]byte, ob.MemoryRequired())
			scratch := make([]byte, ob.WorkingMemoryRequired())
			start := time.Now()
			if err := dtex.LoadImageData(ob, dst, scratch); err != nil {
				return err
			}
			slog.InfoContext(ctx, "loaded texture",
				"format", ob.MetaData().SourceFileFormat,
				"bytes", len(dst),
				"scratch", len(scratch),
				"elapsed", time.Since(start))

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d %v\n", util.ContentUUID(dst), len(dst), ob.MetaData().PixelFormat)
			if out, _ := cmd.Flags().GetString("out"); out != "" {
				if err := os.WriteFile(out, dst, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
			}
			return nil
		},
	}
	addURIFlag(cmd)
	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "", "write the packed image data to this path")
	return cmd
}
