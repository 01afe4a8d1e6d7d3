package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpfielding/dtex.go/pkg/dtex"
	"github.com/jpfielding/dtex.go/pkg/dtex/imgconv"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type encodeFunc func(io.Writer, image.Image) error

func imageEncoder(kind string) (encodeFunc, error) {
	switch kind {
	case "png":
		return png.Encode, nil
	case "bmp":
		return bmp.Encode, nil
	case "tiff", "tif":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unknown image type %q (png|bmp|tiff)", kind)
	}
}

// NewExportCmd writes one layer and level of an uncompressed texture as an image
func NewExportCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [uri]",
		Short: "export a texture image as png, bmp or tiff",
		Long:  "Loads a texture and writes one layer and mip level of an 8-bit uncompressed format as an image file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("output path is required. Use --out flag")
			}
			layer, _ := cmd.Flags().GetUint32("layer")
			level, _ := cmd.Flags().GetUint32("level")
			kind, _ := cmd.Flags().GetString("type")
			if kind == "" {
				kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
			}
			encode, err := imageEncoder(kind)
			if err != nil {
				return err
			}

			src, err := readURI(ctx, cmd, args)
			if err != nil {
				return err
			}
			doc, err := dtex.LoadDocument(src)
			if err != nil {
				return err
			}
			img, err := imgconv.ToImage(doc, layer, level)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := encode(f, img); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	addURIFlag(cmd)
	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "", "image path to write")
	pf.StringP("type", "t", "", "image type (png|bmp|tiff), defaults to the --out extension")
	pf.Uint32("layer", 0, "array layer or cube face")
	pf.Uint32("level", 0, "mip level")
	return cmd
}
