package tui

import (
	"encoding/json"
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrsFromCurrent rebuilds the table columns/rows from the loaded dataset
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	// map to bubbles table columns/rows
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for _, c := range cols {
		w := len(c) + 2
		if w > maxColW {
			w = maxColW
		}
		tcols = append(tcols, table.Column{Title: c, Width: w})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Normalize each row to match the number of table columns
	colCount := len(tcols)
	for i := range trows {
		cells := []string(trows[i])
		if len(cells) < colCount {
			// pad
			pad := make([]string, colCount-len(cells))
			cells = append(cells, pad...)
		} else if len(cells) > colCount {
			// truncate
			cells = cells[:colCount]
		}
		trows[i] = table.Row(cells)
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns the loaded collection's attribute table, one
// row per feature in feature order.
func (m *Model) buildAttributes() ([]string, [][]string) {
	cols := append([]string{"id"}, m.coll.Fields...)
	rows := make([][]string, 0, len(m.coll.Features))
	for _, f := range m.coll.Features {
		vals := make([]string, 0, len(cols))
		vals = append(vals, f.ID)
		for _, k := range m.coll.Fields {
			vals = append(vals, cell(f.Props[k]))
		}
		rows = append(rows, vals)
	}
	if len(m.coll.Fields) == 0 {
		return cols, nil
	}
	return cols, rows
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(bs)
	}
}
