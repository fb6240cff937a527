package geom

import (
	"sort"

	"github.com/rotisserie/eris"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// add appends a feature, extending the bbox and the field list.
func (c *Collection) add(f Feature) {
	if f.Geometry == nil {
		return
	}
	flat := f.Geometry.FlatCoords()
	stride := f.Geometry.Stride()
	if stride < 2 || len(flat) < 2 {
		return
	}
	for i := 0; i+1 < len(flat); i += stride {
		c.BBox = c.BBox.Extend([2]float64{flat[i], flat[i+1]}, len(c.Features) == 0 && i == 0)
	}
	if f.Props == nil {
		f.Props = map[string]any{}
	}
	seen := make(map[string]bool, len(c.Fields))
	for _, k := range c.Fields {
		seen[k] = true
	}
	var fresh []string
	for k := range f.Props {
		if !seen[k] {
			fresh = append(fresh, k)
		}
	}
	sort.Strings(fresh)
	c.Fields = append(c.Fields, fresh...)
	c.Features = append(c.Features, f)
}

// Anchor returns the point a symbol for f is drawn at: the point itself,
// the first point of a multipoint, or the centroid of a line or area.
func (f Feature) Anchor() ([2]float64, error) {
	switch g := f.Geometry.(type) {
	case nil:
		return [2]float64{}, eris.Errorf("geom: feature %q has no geometry", f.ID)
	case *gogeom.Point:
		return [2]float64{g.X(), g.Y()}, nil
	case *gogeom.MultiPoint:
		if g.NumPoints() == 0 {
			return [2]float64{}, eris.Errorf("geom: feature %q: empty multipoint", f.ID)
		}
		p := g.Point(0)
		return [2]float64{p.X(), p.Y()}, nil
	default:
		c, err := xy.Centroid(g)
		if err != nil {
			return [2]float64{}, eris.Wrapf(err, "geom: centroid of feature %q", f.ID)
		}
		return [2]float64{c[0], c[1]}, nil
	}
}

// Data flattens the collection into points, lines and polygons for outline drawing.
func (c Collection) Data() Data {
	d := Data{BBox: c.BBox}
	toPts := func(cs []gogeom.Coord) [][2]float64 {
		out := make([][2]float64, 0, len(cs))
		for _, p := range cs {
			out = append(out, [2]float64{p[0], p[1]})
		}
		return out
	}
	var walk func(g gogeom.T)
	walk = func(g gogeom.T) {
		switch t := g.(type) {
		case *gogeom.Point:
			d.Points = append(d.Points, [2]float64{t.X(), t.Y()})
		case *gogeom.MultiPoint:
			for i := 0; i < t.NumPoints(); i++ {
				walk(t.Point(i))
			}
		case *gogeom.LineString:
			d.Lines = append(d.Lines, toPts(t.Coords()))
		case *gogeom.MultiLineString:
			for i := 0; i < t.NumLineStrings(); i++ {
				walk(t.LineString(i))
			}
		case *gogeom.Polygon:
			var poly [][][2]float64
			for i := 0; i < t.NumLinearRings(); i++ {
				poly = append(poly, toPts(t.LinearRing(i).Coords()))
			}
			d.Polygons = append(d.Polygons, poly)
		case *gogeom.MultiPolygon:
			for i := 0; i < t.NumPolygons(); i++ {
				walk(t.Polygon(i))
			}
		case *gogeom.GeometryCollection:
			for _, sub := range t.Geoms() {
				walk(sub)
			}
		}
	}
	for _, f := range c.Features {
		walk(f.Geometry)
	}
	return d
}
