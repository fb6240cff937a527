package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"propmap/internal/legend"
	"propmap/internal/propsym"
	"propmap/internal/surface"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the resolved sizes, legends and symbols of a layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		l, err := loadLayer(args[0])
		if err != nil {
			return eris.Wrap(err, "inspect")
		}
		rec := surface.NewRecorder(float64(cfg.Output.Width), float64(cfg.Output.Height), cfg.Output.DPI)
		surface.Setup(rec, l.coll.BBox, cfg.Output.Margin)
		r, err := propsym.Render(rec, l.records, l.opts)
		if err != nil {
			return eris.Wrap(err, "inspect")
		}
		return writeReport(cmd.OutOrStdout(), newReport(l.path, r, rec), format)
	},
}

type symbolRow struct {
	ID         string   `json:"id" yaml:"id"`
	X          float64  `json:"x" yaml:"x"`
	Y          float64  `json:"y" yaml:"y"`
	Value      float64  `json:"value" yaml:"value"`
	ColorValue *float64 `json:"color_value" yaml:"color_value"`
	Size       float64  `json:"size" yaml:"size"`
	Class      int      `json:"class" yaml:"class"`
	Fill       string   `json:"fill" yaml:"fill"`
	Reference  bool     `json:"reference,omitempty" yaml:"reference,omitempty"`
}

type report struct {
	Path      string             `json:"path" yaml:"path"`
	Kind      string             `json:"kind" yaml:"kind"`
	Inches    float64            `json:"inches" yaml:"inches"`
	Fixmax    float64            `json:"fixmax" yaml:"fixmax"`
	Largest   float64            `json:"largest" yaml:"largest"`
	Reference *propsym.Reference `json:"reference,omitempty" yaml:"reference,omitempty"`
	SizeTicks []legend.Tick      `json:"size_ticks" yaml:"size_ticks"`
	Breaks    []float64          `json:"breaks" yaml:"breaks"`
	Palette   []string           `json:"palette" yaml:"palette"`
	NoData    bool               `json:"no_data" yaml:"no_data"`
	Ops       int                `json:"draw_ops" yaml:"draw_ops"`
	Symbols   []symbolRow        `json:"symbols" yaml:"symbols"`
}

func newReport(path string, r *propsym.Rendering, rec *surface.Recorder) report {
	rep := report{
		Path:      path,
		Kind:      r.Kind.String(),
		Inches:    r.Sizes.Max,
		Fixmax:    r.Sizes.Fixmax,
		Largest:   r.Sizes.Largest,
		Reference: r.Sizes.Reference,
		SizeTicks: r.SizeLegend.Ticks,
		Breaks:    r.ColorLegend.Breaks,
		NoData:    r.ColorLegend.NoData,
		Ops:       len(rec.Ops),
	}
	for _, c := range r.ColorLegend.Palette {
		rep.Palette = append(rep.Palette, surface.Hex(c))
	}
	for _, s := range r.Symbols {
		row := symbolRow{
			ID:        s.ID,
			X:         s.Position[0],
			Y:         s.Position[1],
			Value:     s.Value,
			Size:      s.Size,
			Class:     s.Class,
			Fill:      surface.Hex(s.Fill),
			Reference: s.Reference,
		}
		if !math.IsNaN(s.ColorValue) {
			v := s.ColorValue
			row.ColorValue = &v
		}
		rep.Symbols = append(rep.Symbols, row)
	}
	return rep
}

func writeReport(w io.Writer, rep report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return eris.Wrap(err, "inspect: encode json")
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return eris.Wrap(err, "inspect: encode yaml")
		}
		return enc.Close()
	case "table", "":
	default:
		return eris.Errorf("inspect: unknown format %q", format)
	}

	bold := lipgloss.NewStyle().Bold(true)
	fmt.Fprintf(w, "%s %s\n", bold.Render("layer"), rep.Path)
	fmt.Fprintf(w, "kind %s, inches %g, fixmax %g, largest %.4g\n", rep.Kind, rep.Inches, rep.Fixmax, rep.Largest)
	if rep.Reference != nil {
		fmt.Fprintf(w, "reference symbol for %g at %.4g inches\n", rep.Reference.Value, rep.Reference.Size)
	}

	ticks := table.New().Border(lipgloss.NormalBorder()).Headers("size tick", "inches")
	for _, t := range rep.SizeTicks {
		ticks.Row(strconv.FormatFloat(t.Value, 'g', 6, 64), strconv.FormatFloat(t.Size, 'f', 4, 64))
	}
	fmt.Fprintln(w, ticks.Render())

	classes := table.New().Border(lipgloss.NormalBorder()).Headers("class", "from", "to", "colour")
	for i, c := range rep.Palette {
		classes.Row(strconv.Itoa(i), fmt.Sprint(rep.Breaks[i]), fmt.Sprint(rep.Breaks[i+1]),
			lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("■ "+c))
	}
	fmt.Fprintln(w, classes.Render())
	if rep.NoData {
		fmt.Fprintln(w, "some symbols have no colour value")
	}

	syms := table.New().Border(lipgloss.NormalBorder()).Headers("id", "x", "y", "value", "colour value", "inches", "class", "fill")
	for _, s := range rep.Symbols {
		cv := "NA"
		if s.ColorValue != nil {
			cv = strconv.FormatFloat(*s.ColorValue, 'g', 6, 64)
		}
		id := s.ID
		if s.Reference {
			id = "(reference)"
		}
		syms.Row(id,
			strconv.FormatFloat(s.X, 'g', 6, 64),
			strconv.FormatFloat(s.Y, 'g', 6, 64),
			strconv.FormatFloat(s.Value, 'g', 6, 64),
			cv,
			strconv.FormatFloat(s.Size, 'f', 4, 64),
			strconv.Itoa(s.Class),
			s.Fill)
	}
	fmt.Fprintln(w, syms.Render())
	return nil
}

func init() {
	addLayerFlags(inspectCmd)
	inspectCmd.Flags().String("format", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(inspectCmd)
}
