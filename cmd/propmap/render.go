package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"propmap/internal/config"
	"propmap/internal/propsym"
	"propmap/internal/surface"
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a layer to PNG, SVG or terminal text",
	Long:  "Loads features, binds the size and colour fields and draws symbols, size legend and colour legend to every -o output. Outputs are rendered in parallel, each on its own surface.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outs, _ := cmd.Flags().GetStringArray("out")
		outs = uniqueOutputs(outs)
		if len(outs) == 0 {
			return eris.New("render: at least one -o output is required")
		}
		l, err := loadLayer(args[0])
		if err != nil {
			return eris.Wrap(err, "render")
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		for _, out := range outs {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return renderFile(l, out, cfg.Output)
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "render")
		}
		for _, out := range outs {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

// uniqueOutputs drops repeated paths so no file is written twice at once.
func uniqueOutputs(outs []string) []string {
	seen := make(map[string]bool, len(outs))
	out := outs[:0:0]
	for _, o := range outs {
		key := filepath.Clean(o)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
	}
	return out
}

// output is a surface that can be written to a file.
type output interface {
	surface.Surface
	Encode(w io.Writer) error
}

type termOutput struct{ *surface.Term }

func (t termOutput) Encode(w io.Writer) error {
	_, err := io.WriteString(w, t.String()+"\n")
	return err
}

func newOutput(path string, oc config.OutputConfig) (output, error) {
	bg, err := surface.ParseColor(oc.Background)
	if err != nil {
		return nil, eris.Wrap(err, "output.background")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return surface.NewPNG(oc.Width, oc.Height, oc.DPI, bg), nil
	case ".svg":
		return surface.NewSVG(oc.Width, oc.Height, oc.DPI, bg), nil
	case ".txt", ".ans":
		return termOutput{surface.NewTerm(max(oc.Width/10, 20), max(oc.Height/20, 10), oc.TermDPI)}, nil
	}
	return nil, eris.Errorf("unsupported output %q (want .png, .svg or .txt)", path)
}

// baseStyles are the polygon and line styles of the base map.
func baseStyles(oc config.OutputConfig, dpi float64) (poly, line surface.Style, err error) {
	fill, err := surface.ParseColor(oc.BaseFill)
	if err != nil {
		return poly, line, eris.Wrap(err, "output.base_fill")
	}
	border, err := surface.ParseColor(oc.BaseBorder)
	if err != nil {
		return poly, line, eris.Wrap(err, "output.base_border")
	}
	w := 0.5 * dpi / 72
	return surface.Style{Fill: fill, Stroke: border, StrokeWidth: w}, surface.Style{Stroke: border, StrokeWidth: w}, nil
}

// drawBase fits the surface to the whole collection and draws the outlines
// of its lines and polygons.
func drawBase(s surface.Surface, l *layer, oc config.OutputConfig) error {
	surface.Setup(s, l.coll.BBox, oc.Margin)
	if !oc.Basemap {
		return nil
	}
	poly, line, err := baseStyles(oc, s.DPI())
	if err != nil {
		return err
	}
	return surface.Outline(s, l.coll.Data(), poly, line)
}

func renderFile(l *layer, path string, oc config.OutputConfig) error {
	s, err := newOutput(path, oc)
	if err != nil {
		return err
	}
	if c, ok := s.(io.Closer); ok {
		defer c.Close()
	}
	if err := drawBase(s, l, oc); err != nil {
		return err
	}
	r, err := propsym.Render(s, l.records, l.opts)
	if err != nil {
		return eris.Wrapf(err, "render %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "close %s", path)
	}
	zap.L().Info("rendered",
		zap.String("path", path),
		zap.Int("symbols", len(r.Symbols)),
		zap.Int("classes", r.Classes.NClasses()),
		zap.Bool("reference", r.Sizes.Reference != nil))
	return nil
}

func init() {
	addLayerFlags(renderCmd)
	renderCmd.Flags().StringArrayP("out", "o", nil, "output file (.png, .svg, .txt), repeatable")
	renderCmd.Flags().Int("width", 1000, "output width in pixels")
	renderCmd.Flags().Int("height", 800, "output height in pixels")
	renderCmd.Flags().Float64("dpi", 96, "output resolution")
	renderCmd.Flags().Bool("basemap", true, "draw line and polygon outlines under the symbols")
	rootCmd.AddCommand(renderCmd)
}
