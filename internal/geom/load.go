package geom

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Extensions lists the file types Load understands.
var Extensions = []string{".geojson", ".json", ".csv", ".kml", ".wkt", ".shp"}

// Supported reports whether path has an extension Load can read.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads any supported format, dispatching on the file extension.
func Load(path string) (Collection, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt":
		data, err := os.ReadFile(path)
		if err != nil {
			return Collection{}, eris.Wrapf(err, "geom: read %s", path)
		}
		return ParseWKT(string(data))
	case ".shp":
		return LoadShapefile(path)
	}
	return Collection{}, eris.Errorf("geom: unsupported file: %q", ext)
}
