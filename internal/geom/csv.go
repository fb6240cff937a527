package geom

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	gogeom "github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadCSV reads a CSV with latitude/longitude columns and returns one point
// feature per row. Column detection: lat|latitude|y and lon|lng|long|longitude|x
// (case-insensitive). An id column, when present, names the feature; every
// other column becomes an attribute.
func LoadCSV(path string) (Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return Collection{}, eris.Wrapf(err, "geom: open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader) (Collection, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return Collection{}, eris.Wrap(err, "geom: read csv")
	}
	if len(recs) == 0 {
		return Collection{}, eris.New("geom: empty csv")
	}
	header := recs[0]
	idxLat, idxLon, idxID := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		case "id":
			if idxID == -1 {
				idxID = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return Collection{}, eris.New("geom: csv: latitude/longitude columns not found")
	}
	var c Collection
	skipped := 0
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			skipped++
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			skipped++
			continue
		}
		props := make(map[string]any, len(header))
		for i, h := range header {
			if i == idxLat || i == idxLon {
				continue
			}
			v := ""
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			props[strings.TrimSpace(h)] = v
		}
		id := ""
		if idxID >= 0 && idxID < len(row) {
			id = strings.TrimSpace(row[idxID])
		}
		pt := gogeom.NewPointFlat(gogeom.XY, []float64{lon, lat})
		c.add(Feature{ID: id, Geometry: pt, Props: props})
	}
	if skipped > 0 {
		zap.L().Debug("geom: skipped csv rows without coordinates", zap.Int("skipped", skipped))
	}
	if len(c.Features) == 0 {
		return Collection{}, eris.New("geom: csv: no valid points parsed")
	}
	// keep the header order rather than map order
	c.Fields = c.Fields[:0]
	for i, h := range header {
		if i != idxLat && i != idxLon {
			c.Fields = append(c.Fields, strings.TrimSpace(h))
		}
	}
	return c, nil
}
