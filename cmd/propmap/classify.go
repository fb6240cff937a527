package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"propmap/internal/classify"
	"propmap/internal/legend"
	"propmap/internal/surface"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Print the classification of the colour field",
	Long:  "Classifies --color with the configured method and palette and prints breaks, colours and the number of features per class.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Layer.SizeVar == "" {
			cfg.Layer.SizeVar = cfg.Layer.ColorVar
		}
		l, err := loadLayer(args[0])
		if err != nil {
			return eris.Wrap(err, "classify")
		}
		values := make([]float64, len(l.records))
		for i, r := range l.records {
			values[i] = r.Color
		}
		res, err := classify.Engine{}.Classify(values, l.opts.Classification)
		if err != nil {
			return eris.Wrap(err, "classify")
		}

		counts := make([]int, res.NClasses())
		missing := 0
		for _, c := range res.Classes {
			if c < 0 {
				missing++
				continue
			}
			counts[c]++
		}
		digits := l.opts.ColorLegend.Round
		t := table.New().Border(lipgloss.NormalBorder()).Headers("class", "from", "to", "count", "colour")
		for i, c := range res.Palette {
			hex := surface.Hex(c)
			t.Row(strconv.Itoa(i),
				legend.Label(res.Breaks[i], digits),
				legend.Label(res.Breaks[i+1], digits),
				strconv.Itoa(counts[i]),
				lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■ "+hex))
		}
		if missing > 0 {
			t.Row("-", "", "", strconv.Itoa(missing), l.opts.ColorLegend.NoDataLabel)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: %d values in %d classes\n", cfg.Layer.ColorVar, len(values), res.NClasses())
		fmt.Fprintln(w, t.Render())
		return nil
	},
}

func init() {
	addLayerFlags(classifyCmd)
	rootCmd.AddCommand(classifyCmd)
}
