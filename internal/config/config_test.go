package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"propmap/internal/propsym"
	"propmap/internal/surface"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "circle", cfg.Layer.Kind)
	assert.InDelta(t, 0.3, cfg.Layer.Inches, 0.001)
	assert.Equal(t, 0.0, cfg.Layer.Fixmax)
	assert.Equal(t, "white", cfg.Layer.ColNA)
	assert.InDelta(t, 0.7, cfg.Layer.Lwd, 0.001)
	assert.Equal(t, "quantile", cfg.Classify.Method)
	assert.Equal(t, "Mint", cfg.Classify.Palette)
	assert.Equal(t, "auto", cfg.Legend.Size.Pos)
	assert.Equal(t, "auto", cfg.Legend.Color.Pos)
	assert.Equal(t, "No data", cfg.Legend.Color.NoDataTxt)
	assert.Equal(t, 1000, cfg.Output.Width)
	assert.Equal(t, 800, cfg.Output.Height)
	assert.InDelta(t, 96, cfg.Output.DPI, 0.001)
	assert.True(t, cfg.Output.Basemap)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
layer:
  size_var: pop
  color_var: rate
  kind: bar
  inches: 0.5
classify:
  method: jenks
  nbreaks: 4
  colors: ["#FF0000", "#00FF00", "#0000FF", "none"]
legend:
  color:
    pos: topright
    horiz: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "propmap.yaml"), []byte(yaml), 0644))

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "pop", cfg.Layer.SizeVar)
	assert.Equal(t, "bar", cfg.Layer.Kind)
	assert.InDelta(t, 0.5, cfg.Layer.Inches, 0.001)
	assert.Equal(t, "jenks", cfg.Classify.Method)
	assert.Equal(t, 4, cfg.Classify.NBreaks)
	assert.Len(t, cfg.Classify.Colors, 4)
	assert.Equal(t, "topright", cfg.Legend.Color.Pos)
	assert.True(t, cfg.Legend.Color.Horiz)
	// Defaults still apply for unset values
	assert.Equal(t, "auto", cfg.Legend.Size.Pos)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadNamedFileMustExist(t *testing.T) {
	dir := chdirTemp(t)
	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "propmap.yaml"), []byte("layer:\n  inches: 0.5\n"), 0644))
	t.Setenv("PROPMAP_LAYER_INCHES", "0.8")
	t.Setenv("PROPMAP_CLASSIFY_PALETTE", "Blues")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, cfg.Layer.Inches, 0.001)
	assert.Equal(t, "Blues", cfg.Classify.Palette)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "propmap.yaml"), []byte("layer:\n  size_var: pop\n  kind: square\n"), 0644))

	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	fs.String("kind", "circle", "")
	fs.String("size", "", "")
	require.NoError(t, fs.Parse([]string{"--kind", "bar"}))

	cfg, err := Load("", map[string]*pflag.Flag{
		"layer.kind":     fs.Lookup("kind"),
		"layer.size_var": fs.Lookup("size"),
	})
	require.NoError(t, err)
	assert.Equal(t, "bar", cfg.Layer.Kind, "changed flag wins")
	assert.Equal(t, "pop", cfg.Layer.SizeVar, "unchanged flag does not")
}

func TestOptions(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)
	cfg.Layer.SizeVar = "pop"
	cfg.Layer.ColorVar = "rate"
	cfg.Layer.Kind = "square"
	cfg.Classify.Breaks = []float64{0, 1, 2}
	cfg.Classify.Colors = []string{"red", "none"}
	cfg.Legend.Color.Title = "Growth"

	o, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, propsym.Square, o.Kind)
	assert.InDelta(t, 0.3, o.Inches, 0.001)
	assert.Equal(t, "fixed", o.Classification.Method, "explicit breaks select the fixed method")
	require.Len(t, o.Classification.Colors, 2)
	assert.Equal(t, color.Color(color.Transparent), o.Classification.Colors[1])
	assert.Equal(t, "#FFFFFF", surface.Hex(o.NoDataColor))
	assert.Equal(t, "#333333", surface.Hex(o.Border))
	assert.Equal(t, "pop", o.SizeLegend.Title, "size legend title defaults to the variable")
	assert.Equal(t, "Growth", o.ColorLegend.Title)
	assert.Equal(t, "No data", o.ColorLegend.NoDataLabel)
	assert.NotNil(t, o.SizeLegend.SymbolFill)
	assert.NoError(t, o.Validate())

	spec := cfg.BindSpec()
	assert.Equal(t, "pop", spec.SizeField)
	assert.Equal(t, "rate", spec.ColorField)
}

func TestOptionsErrors(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)

	bad := *cfg
	bad.Layer.Kind = "hexagon"
	_, err = bad.Options()
	assert.True(t, eris.Is(err, propsym.ErrConfig))

	bad = *cfg
	bad.Layer.Border = "not-a-colour"
	_, err = bad.Options()
	assert.True(t, eris.Is(err, surface.ErrColor))

	bad = *cfg
	bad.Classify.Colors = []string{"#12"}
	_, err = bad.Options()
	assert.True(t, eris.Is(err, surface.ErrColor))
}

func TestInitLogger(t *testing.T) {
	orig := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(orig) })

	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))

	path := filepath.Join(t.TempDir(), "propmap.log")
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json", File: path}))
	zap.L().Debug("hello from the viewer")
	_ = zap.L().Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the viewer")
}
