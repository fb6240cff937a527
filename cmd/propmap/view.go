package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"propmap/internal/bind"
	"propmap/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Explore a layer in the terminal",
	Long:  "Opens an interactive braille map. Keys cycle the size and colour fields, the symbol kind and the classification method; Tab browses files in the working directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := cfg.Options()
		if err != nil {
			return eris.Wrap(err, "view")
		}
		// Filled polygons would swamp the symbols on the braille grid.
		_, base, err := baseStyles(cfg.Output, cfg.Output.TermDPI)
		if err != nil {
			return eris.Wrap(err, "view")
		}
		spec := cfg.BindSpec()
		if cfg.Layer.Table != "" {
			if spec.Table, err = bind.LoadTable(cfg.Layer.Table); err != nil {
				return eris.Wrap(err, "view")
			}
		}
		// The alternate screen owns the terminal; logs only go to a file.
		if cfg.Log.File == "" {
			zap.ReplaceGlobals(zap.NewNop())
		}

		s := tui.Settings{Options: opts, Bind: spec, TermDPI: cfg.Output.TermDPI, Base: base}
		var m tea.Model
		if len(args) > 0 {
			m = tui.NewWithPath(s, args[0])
		} else {
			m = tui.New(s)
		}
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
			return eris.Wrap(err, "view")
		}
		return nil
	},
}

func init() {
	addLayerFlags(viewCmd)
	rootCmd.AddCommand(viewCmd)
}
