package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jpfielding/dtex.go/pkg/dtex"
	"github.com/jpfielding/dtex.go/pkg/util"
	"github.com/spf13/cobra"
)

type levelInfo struct {
	Level      uint32          `json:"level"`
	Dimensions dtex.Dimensions `json:"dimensions"`
	Offset     int             `json:"offset"`
	Size       int             `json:"size"`
}

type textureInfo struct {
	ID                    string           `json:"id"`
	MetaData              dtex.MetaData    `json:"metadata"`
	TextureType           dtex.TextureType `json:"textureType"`
	BlockInfo             dtex.BlockInfo   `json:"blockInfo"`
	MemoryRequired        int              `json:"memoryRequired"`
	WorkingMemoryRequired int              `json:"workingMemoryRequired"`
	Levels                []levelInfo      `json:"levels"`
}

func describe(ob *dtex.OpenBuffer) textureInfo {
	md := ob.MetaData()
	info := textureInfo{
		ID:                    util.HashUUID(md),
		MetaData:              md,
		TextureType:           md.TextureType(),
		BlockInfo:             dtex.BlockInfoFor(md.PixelFormat),
		MemoryRequired:        ob.MemoryRequired(),
		WorkingMemoryRequired: ob.WorkingMemoryRequired(),
	}
	for level := uint32(0); level < md.MipLevelCount; level++ {
		offset, _ := dtex.MipOffset(md, level)
		size, _ := dtex.MipLevelSize(md, level)
		info.Levels = append(info.Levels, levelInfo{
			Level:      level,
			Dimensions: dtex.MipDimensions(md.BaseDimensions, level),
			Offset:     offset,
			Size:       size,
		})
	}
	return info
}

func (info textureInfo) writeText(w io.Writer) error {
	md := info.MetaData
	fmt.Fprintf(w, "ID: %s\n", info.ID)
	fmt.Fprintf(w, "Container: %v\n", md.SourceFileFormat)
	fmt.Fprintf(w, "Type: %v\n", info.TextureType)
	fmt.Fprintf(w, "Dimensions: %v\n", md.BaseDimensions)
	fmt.Fprintf(w, "PixelFormat: %v (%dx%dx%d blocks of %d bytes)\n", md.PixelFormat,
		info.BlockInfo.Width, info.BlockInfo.Height, info.BlockInfo.Depth, info.BlockInfo.Size)
	fmt.Fprintf(w, "ColorSpace: %v\n", md.ColorSpace)
	fmt.Fprintf(w, "Layers: %d (cube: %t)\n", md.ArrayLayerCount, md.Cube)
	fmt.Fprintf(w, "MemoryRequired: %d\n", info.MemoryRequired)
	fmt.Fprintf(w, "WorkingMemoryRequired: %d\n\n", info.WorkingMemoryRequired)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tDIMENSIONS\tOFFSET\tSIZE")
	for _, l := range info.Levels {
		fmt.Fprintf(tw, "%d\t%v\t%d\t%d\n", l.Level, l.Dimensions, l.Offset, l.Size)
	}
	return tw.Flush()
}

// NewInfoCmd prints what Open learns from a texture header
func NewInfoCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [uri]",
		Short: "texture header summary",
		Long:  "Opens a texture without decoding its image data and prints the metadata, buffer sizes and mip level layout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readURI(ctx, cmd, args)
			if err != nil {
				return err
			}
			ob, err := dtex.Open(src)
			if err != nil {
				return err
			}
			info := describe(ob)
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "text":
				return info.writeText(cmd.OutOrStdout())
			default:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
		},
	}
	addURIFlag(cmd)
	pf := cmd.PersistentFlags()
	pf.StringP("format", "f", "text", "output format (text|json)")
	return cmd
}
