package bind

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// LoadTable reads an attribute table with a header row: CSV, or the first
// sheet of an .xlsx workbook.
func LoadTable(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "bind: open %s", path)
	}
	defer f.Close()
	return ReadTable(f)
}

func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "bind: read table")
	}
	return newTable(recs)
}

func loadXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "bind: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("bind: %s has no sheets", path)
	}
	var recs [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		recs = append(recs, cells)
	}
	return newTable(recs)
}

func newTable(recs [][]string) (*Table, error) {
	if len(recs) == 0 {
		return nil, eris.New("bind: empty table")
	}
	t := &Table{}
	for _, h := range recs[0] {
		t.Fields = append(t.Fields, strings.TrimSpace(h))
	}
	for _, rec := range recs[1:] {
		row := make(map[string]string, len(t.Fields))
		for i, h := range t.Fields {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
