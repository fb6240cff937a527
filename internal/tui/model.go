package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"propmap/internal/bind"
	"propmap/internal/geom"
	"propmap/internal/propsym"
	"propmap/internal/surface"
)

// Settings is what the viewer starts from; the keys change the size and
// colour fields, the kind and the method from there.
type Settings struct {
	Options propsym.Options
	Bind    bind.Spec
	// TermDPI is the number of braille dots per inch.
	TermDPI float64
	Base    surface.Style
}

type Model struct {
	width  int
	height int

	settings Settings

	showSidebar bool
	helpVisible bool
	showLegends bool
	showBase    bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	coll      geom.Collection
	data      geom.Data
	fields    []string
	sizeField string
	colorFld  string
	kind      propsym.Kind
	method    string
	records   []bind.Record
	rendering *propsym.Rendering

	// inspect popup
	inspectPopup string

	// hover state
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64
	hoverSymbol string

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(s Settings) Model {
	if s.TermDPI <= 0 {
		s.TermDPI = 16
	}
	m := Model{
		settings:    s,
		showSidebar: false,
		helpVisible: true,
		showLegends: true,
		showBase:    true,
		zoom:        1.0,
		status:      "propmap ready",
		kind:        s.Options.Kind,
		method:      s.Options.Classification.Method,
		sizeField:   s.Bind.SizeField,
		colorFld:    s.Bind.ColorField,
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// attributes table setup (columns will be inferred per dataset)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's data at launch.
func NewWithPath(s Settings, path string) Model {
	m := New(s)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }
