package geom

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// LoadGeoJSON reads a GeoJSON file: a FeatureCollection, a single Feature
// or a bare geometry.
func LoadGeoJSON(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Collection{}, eris.Wrapf(err, "geom: read %s", path)
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON decodes GeoJSON bytes into a Collection. Feature properties
// become attributes.
func ParseGeoJSON(data []byte) (Collection, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Collection{}, eris.Wrap(err, "geom: geojson")
	}
	var c Collection
	switch probe.Type {
	case "":
		return Collection{}, eris.New("geom: invalid geojson: missing type")
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return Collection{}, eris.Wrap(err, "geom: geojson feature collection")
		}
		for _, f := range fc.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			c.add(Feature{ID: f.ID, Geometry: f.Geometry, Props: f.Properties})
		}
	case "Feature":
		var f geojson.Feature
		if err := json.Unmarshal(data, &f); err != nil {
			return Collection{}, eris.Wrap(err, "geom: geojson feature")
		}
		if f.Geometry != nil {
			c.add(Feature{ID: f.ID, Geometry: f.Geometry, Props: f.Properties})
		}
	default:
		var g gogeom.T
		if err := geojson.Unmarshal(data, &g); err != nil {
			return Collection{}, eris.Wrapf(err, "geom: geojson %s", probe.Type)
		}
		c.add(Feature{Geometry: g})
	}
	if len(c.Features) == 0 {
		return Collection{}, eris.New("geom: no geometries found")
	}
	return c, nil
}
