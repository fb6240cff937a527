package bind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, data := range rows {
		row := sheet.AddRow()
		for _, v := range data {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "attrs.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadTable_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attrs.csv")
	require.NoError(t, os.WriteFile(path, []byte("code, pop\nA, 10\nB,20\n"), 0o644))

	tbl, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "pop"}, tbl.Fields)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "20", tbl.Rows[1]["pop"])
}

func TestLoadTable_XLSX(t *testing.T) {
	path := writeXLSX(t, [][]string{
		{"code", " pop "},
		{"A", "10"},
		{"B"},
	})

	tbl, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "pop"}, tbl.Fields)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, map[string]string{"code": "A", "pop": "10"}, tbl.Rows[0])
	assert.Equal(t, map[string]string{"code": "B"}, tbl.Rows[1])
}

func TestLoadTable_Errors(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = LoadTable(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = LoadTable(empty)
	assert.ErrorContains(t, err, "empty table")
}
