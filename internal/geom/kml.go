package geom

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	gogeom "github.com/twpayne/go-geom"
)

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPlacemark struct {
	ID           string    `xml:"id,attr"`
	Name         string    `xml:"name"`
	Point        *kmlPoint `xml:"Point"`
	ExtendedData struct {
		Data []kmlData `xml:"Data"`
	} `xml:"ExtendedData"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Document   struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Folders    []struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
		} `xml:"Folder"`
	} `xml:"Document"`
}

// LoadKML extracts Point placemarks from a KML file (Placemark > Point > coordinates).
// KML coordinates are "lon,lat[,alt]"; we ignore altitude. The placemark name
// and ExtendedData values become attributes.
func LoadKML(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Collection{}, eris.Wrapf(err, "geom: read %s", path)
	}
	return ParseKML(data)
}

func ParseKML(data []byte) (Collection, error) {
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Collection{}, eris.Wrap(err, "geom: kml")
	}
	pms := append([]kmlPlacemark{}, doc.Placemarks...)
	pms = append(pms, doc.Document.Placemarks...)
	for _, f := range doc.Document.Folders {
		pms = append(pms, f.Placemarks...)
	}
	var c Collection
	for _, pm := range pms {
		if pm.Point == nil {
			continue
		}
		// first tuple only: a placemark point has one position
		parts := strings.Fields(pm.Point.Coordinates)
		if len(parts) == 0 {
			continue
		}
		vals := strings.Split(parts[0], ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		props := map[string]any{}
		if pm.Name != "" {
			props["name"] = pm.Name
		}
		for _, d := range pm.ExtendedData.Data {
			props[d.Name] = strings.TrimSpace(d.Value)
		}
		id := pm.ID
		if id == "" {
			id = pm.Name
		}
		c.add(Feature{ID: id, Geometry: gogeom.NewPointFlat(gogeom.XY, []float64{lon, lat}), Props: props})
	}
	if len(c.Features) == 0 {
		return Collection{}, eris.New("geom: kml: no points found")
	}
	return c, nil
}
