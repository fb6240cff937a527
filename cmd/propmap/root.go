package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"propmap/internal/config"
)

var cfg *config.Config

// flagKeys maps command flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"log-format":  "log.format",
	"log-file":    "log.file",
	"size":        "layer.size_var",
	"color":       "layer.color_var",
	"id":          "layer.id",
	"table":       "layer.table",
	"keep-order":  "layer.keep_order",
	"kind":        "layer.kind",
	"inches":      "layer.inches",
	"fixmax":      "layer.fixmax",
	"col-na":      "layer.col_na",
	"border":      "layer.border",
	"lwd":         "layer.lwd",
	"method":      "classify.method",
	"nbreaks":     "classify.nbreaks",
	"breaks":      "classify.breaks",
	"palette":     "classify.palette",
	"colors":      "classify.colors",
	"alpha":       "classify.alpha",
	"rev":         "classify.rev",
	"size-pos":    "legend.size.pos",
	"size-title":  "legend.size.title",
	"color-pos":   "legend.color.pos",
	"color-title": "legend.color.title",
	"horiz":       "legend.color.horiz",
	"frame":       "legend.color.frame",
	"val-rnd":     "legend.color.val_rnd",
	"width":       "output.width",
	"height":      "output.height",
	"dpi":         "output.dpi",
	"basemap":     "output.basemap",
}

var rootCmd = &cobra.Command{
	Use:   "propmap",
	Short: "Proportional symbol maps coloured by a classification",
	Long:  "Sizes symbols by one numeric field and colours them by a classification of another, with matching size and colour legends, rendered to PNG, SVG or the terminal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		c, err := config.Load(file, boundFlags(cmd.Flags()))
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func boundFlags(fs *pflag.FlagSet) map[string]*pflag.Flag {
	out := map[string]*pflag.Flag{}
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			out[key] = f
		}
	}
	return out
}

// addLayerFlags registers the flags every layer-producing command shares.
func addLayerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("size", "", "numeric field sized by the symbols")
	f.String("color", "", "numeric field classified into colours")
	f.String("id", "", "feature id field used to join --table")
	f.String("table", "", "CSV or XLSX attribute table joined on --id")
	f.Bool("keep-order", false, "draw in input order instead of largest first")
	f.String("kind", "circle", "symbol kind: circle, square or bar")
	f.Float64("inches", 0.3, "size of the largest symbol in inches")
	f.Float64("fixmax", 0, "value drawn at --inches (0 uses the largest value)")
	f.String("col-na", "white", "fill of symbols without a class")
	f.String("border", "#333333", "symbol border colour")
	f.Float64("lwd", 0.7, "symbol border width in points")
	f.String("method", "quantile", "classification method")
	f.Int("nbreaks", 0, "number of classes (0 uses Sturges' rule)")
	f.Float64Slice("breaks", nil, "explicit break points (implies --method fixed)")
	f.String("palette", "Mint", "palette name")
	f.StringSlice("colors", nil, "explicit class colours")
	f.Float64("alpha", 1, "palette opacity")
	f.Bool("rev", false, "reverse the palette")
	f.String("size-pos", "auto", "size legend position")
	f.String("size-title", "", "size legend title (defaults to --size)")
	f.String("color-pos", "auto", "colour legend position")
	f.String("color-title", "", "colour legend title (defaults to --color)")
	f.Bool("horiz", false, "horizontal colour legend")
	f.Bool("frame", false, "frame the colour legend")
	f.Int("val-rnd", 0, "decimals of colour legend labels")
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ./propmap.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
