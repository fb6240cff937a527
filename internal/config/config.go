// Package config loads propmap settings from propmap.yaml, PROPMAP_*
// environment variables and command flags, and turns them into layer
// options.
package config

import (
	"image/color"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"propmap/internal/bind"
	"propmap/internal/classify"
	"propmap/internal/legend"
	"propmap/internal/propsym"
	"propmap/internal/surface"
)

// Config holds the full application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Layer    LayerConfig    `yaml:"layer" mapstructure:"layer"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Legend   LegendConfig   `yaml:"legend" mapstructure:"legend"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	// File, when set, receives all log output instead of stderr.
	File string `yaml:"file" mapstructure:"file"`
}

// LayerConfig selects the variables and the symbol encoding.
type LayerConfig struct {
	SizeVar  string `yaml:"size_var" mapstructure:"size_var"`
	ColorVar string `yaml:"color_var" mapstructure:"color_var"`
	ID       string `yaml:"id" mapstructure:"id"`
	// Table is an optional CSV of attributes joined on ID.
	Table     string  `yaml:"table" mapstructure:"table"`
	KeepOrder bool    `yaml:"keep_order" mapstructure:"keep_order"`
	Kind      string  `yaml:"kind" mapstructure:"kind"`
	Inches    float64 `yaml:"inches" mapstructure:"inches"`
	Fixmax    float64 `yaml:"fixmax" mapstructure:"fixmax"`
	ColNA     string  `yaml:"col_na" mapstructure:"col_na"`
	Border    string  `yaml:"border" mapstructure:"border"`
	Lwd       float64 `yaml:"lwd" mapstructure:"lwd"`
}

// ClassifyConfig configures the colour classification.
type ClassifyConfig struct {
	Method  string    `yaml:"method" mapstructure:"method"`
	NBreaks int       `yaml:"nbreaks" mapstructure:"nbreaks"`
	Breaks  []float64 `yaml:"breaks" mapstructure:"breaks"`
	Palette string    `yaml:"palette" mapstructure:"palette"`
	Colors  []string  `yaml:"colors" mapstructure:"colors"`
	Alpha   float64   `yaml:"alpha" mapstructure:"alpha"`
	Rev     bool      `yaml:"rev" mapstructure:"rev"`
}

// LegendConfig holds both legends.
type LegendConfig struct {
	Size  LegendStyle `yaml:"size" mapstructure:"size"`
	Color LegendStyle `yaml:"color" mapstructure:"color"`
}

// LegendStyle configures one legend.
type LegendStyle struct {
	Pos       string  `yaml:"pos" mapstructure:"pos"`
	Title     string  `yaml:"title" mapstructure:"title"`
	TitleSize float64 `yaml:"title_size" mapstructure:"title_size"`
	ValSize   float64 `yaml:"val_size" mapstructure:"val_size"`
	ValRnd    int     `yaml:"val_rnd" mapstructure:"val_rnd"`
	Frame     bool    `yaml:"frame" mapstructure:"frame"`
	Horiz     bool    `yaml:"horiz" mapstructure:"horiz"`
	NoDataTxt string  `yaml:"no_data_txt" mapstructure:"no_data_txt"`
	Fill      string  `yaml:"fill" mapstructure:"fill"`
}

// OutputConfig configures rendering surfaces.
type OutputConfig struct {
	Width      int     `yaml:"width" mapstructure:"width"`
	Height     int     `yaml:"height" mapstructure:"height"`
	DPI        float64 `yaml:"dpi" mapstructure:"dpi"`
	Margin     float64 `yaml:"margin" mapstructure:"margin"`
	Background string  `yaml:"background" mapstructure:"background"`
	Basemap    bool    `yaml:"basemap" mapstructure:"basemap"`
	BaseFill   string  `yaml:"base_fill" mapstructure:"base_fill"`
	BaseBorder string  `yaml:"base_border" mapstructure:"base_border"`
	TermDPI    float64 `yaml:"term_dpi" mapstructure:"term_dpi"`
}

// Load reads configuration from file, environment and flags. file may be
// empty to look for propmap.yaml in the working directory. flags maps
// configuration keys to the command flags that override them when set.
func Load(file string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()

	// Config file
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("propmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("PROPMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("layer.size_var", "")
	v.SetDefault("layer.color_var", "")
	v.SetDefault("layer.id", "")
	v.SetDefault("layer.table", "")
	v.SetDefault("layer.keep_order", false)
	v.SetDefault("layer.kind", "circle")
	v.SetDefault("layer.inches", 0.3)
	v.SetDefault("layer.fixmax", 0)
	v.SetDefault("layer.col_na", "white")
	v.SetDefault("layer.border", "#333333")
	v.SetDefault("layer.lwd", 0.7)
	v.SetDefault("classify.method", "quantile")
	v.SetDefault("classify.nbreaks", 0)
	v.SetDefault("classify.palette", "Mint")
	v.SetDefault("classify.alpha", 1)
	v.SetDefault("classify.rev", false)
	for _, l := range []string{"size", "color"} {
		v.SetDefault("legend."+l+".pos", "auto")
		v.SetDefault("legend."+l+".title", "")
		v.SetDefault("legend."+l+".title_size", 10)
		v.SetDefault("legend."+l+".val_size", 8)
		v.SetDefault("legend."+l+".val_rnd", 0)
		v.SetDefault("legend."+l+".frame", false)
		v.SetDefault("legend."+l+".horiz", false)
	}
	v.SetDefault("legend.color.no_data_txt", "No data")
	v.SetDefault("legend.size.fill", "white")
	v.SetDefault("output.width", 1000)
	v.SetDefault("output.height", 800)
	v.SetDefault("output.dpi", 96)
	v.SetDefault("output.margin", 0.2)
	v.SetDefault("output.background", "white")
	v.SetDefault("output.basemap", true)
	v.SetDefault("output.base_fill", "#F2F2F2")
	v.SetDefault("output.base_border", "#A6A6A6")
	v.SetDefault("output.term_dpi", 16)

	for key, f := range flags {
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, eris.Wrapf(err, "config: bind flag %s", f.Name)
		}
	}

	// Read config file (optional unless named)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// BindSpec returns the binder settings. The attribute table is loaded by
// the caller.
func (c *Config) BindSpec() bind.Spec {
	return bind.Spec{
		SizeField:  c.Layer.SizeVar,
		ColorField: c.Layer.ColorVar,
		IDField:    c.Layer.ID,
		KeepOrder:  c.Layer.KeepOrder,
	}
}

// Options converts the configuration into layer options, resolving colours
// and default legend titles.
func (c *Config) Options() (propsym.Options, error) {
	var o propsym.Options
	var err error
	if o.Kind, err = propsym.ParseKind(c.Layer.Kind); err != nil {
		return o, err
	}
	o.Inches = c.Layer.Inches
	o.Fixmax = c.Layer.Fixmax
	o.BorderWidth = c.Layer.Lwd
	o.Margin = c.Output.Margin
	if o.NoDataColor, err = surface.ParseColor(c.Layer.ColNA); err != nil {
		return o, eris.Wrap(err, "config: layer.col_na")
	}
	if o.Border, err = surface.ParseColor(c.Layer.Border); err != nil {
		return o, eris.Wrap(err, "config: layer.border")
	}

	req := classify.Request{
		Method:   c.Classify.Method,
		Breaks:   c.Classify.Breaks,
		NClasses: c.Classify.NBreaks,
		Palette:  c.Classify.Palette,
		Alpha:    c.Classify.Alpha,
		Reverse:  c.Classify.Rev,
	}
	if len(req.Breaks) > 0 && (req.Method == "" || req.Method == "quantile") {
		req.Method = "fixed"
	}
	for _, s := range c.Classify.Colors {
		col, err := surface.ParseColor(s)
		if err != nil {
			return o, eris.Wrap(err, "config: classify.colors")
		}
		if col == nil {
			col = color.Transparent
		}
		req.Colors = append(req.Colors, col)
	}
	o.Classification = req

	if o.SizeLegend, err = c.Legend.Size.style(c.Layer.SizeVar); err != nil {
		return o, eris.Wrap(err, "config: legend.size")
	}
	if o.ColorLegend, err = c.Legend.Color.style(c.Layer.ColorVar); err != nil {
		return o, eris.Wrap(err, "config: legend.color")
	}
	return o, nil
}

func (l LegendStyle) style(defaultTitle string) (legend.Style, error) {
	st := legend.Style{
		Position:    l.Pos,
		Title:       l.Title,
		TitleSize:   l.TitleSize,
		ValueSize:   l.ValSize,
		Round:       l.ValRnd,
		Frame:       l.Frame,
		Horizontal:  l.Horiz,
		NoDataLabel: l.NoDataTxt,
	}
	if st.Title == "" {
		st.Title = defaultTitle
	}
	fill, err := surface.ParseColor(l.Fill)
	if err != nil {
		return st, err
	}
	st.SymbolFill = fill
	return st, nil
}
