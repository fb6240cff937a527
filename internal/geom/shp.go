package geom

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	gogeom "github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadShapefile reads an ESRI shapefile and its DBF attributes.
// Polygon rings are grouped by orientation: clockwise rings open a new
// polygon, counter-clockwise rings are holes of the current one.
func LoadShapefile(path string) (Collection, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return Collection{}, eris.Wrapf(err, "geom: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	var c Collection
	skipped := 0
	for reader.Next() {
		n, shape := reader.Shape()
		g := shapeToGeom(shape)
		if g == nil {
			skipped++
			continue
		}
		props := make(map[string]any, len(names))
		for i, name := range names {
			props[name] = strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
		}
		c.add(Feature{ID: strconv.Itoa(n), Geometry: g, Props: props})
	}
	if skipped > 0 {
		zap.L().Debug("geom: skipped shapefile records", zap.String("path", path), zap.Int("skipped", skipped))
	}
	if len(c.Features) == 0 {
		return Collection{}, eris.New("geom: shapefile: no geometries found")
	}
	c.Fields = names
	return c, nil
}

func shapeToGeom(shape shp.Shape) gogeom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return gogeom.NewPointFlat(gogeom.XY, []float64{s.X, s.Y})
	case *shp.PointZ:
		return gogeom.NewPointFlat(gogeom.XY, []float64{s.X, s.Y})
	case *shp.MultiPoint:
		if len(s.Points) == 0 {
			return nil
		}
		return gogeom.NewMultiPointFlat(gogeom.XY, flatPoints(s.Points))
	case *shp.PolyLine:
		parts := splitParts(s.NumParts, s.Parts, s.Points)
		if len(parts) == 0 {
			return nil
		}
		mls := gogeom.NewMultiLineString(gogeom.XY)
		for _, pts := range parts {
			if err := mls.Push(gogeom.NewLineStringFlat(gogeom.XY, flatPoints(pts))); err != nil {
				continue
			}
		}
		return mls
	case *shp.Polygon:
		parts := splitParts(s.NumParts, s.Parts, s.Points)
		if len(parts) == 0 {
			return nil
		}
		mp := gogeom.NewMultiPolygon(gogeom.XY)
		var cur *gogeom.Polygon
		flush := func() {
			if cur != nil {
				_ = mp.Push(cur)
			}
		}
		for _, pts := range parts {
			ring := gogeom.NewLinearRingFlat(gogeom.XY, flatPoints(pts))
			if cur == nil || signedArea(pts) < 0 {
				flush()
				cur = gogeom.NewPolygon(gogeom.XY)
			}
			if err := cur.Push(ring); err != nil {
				zap.L().Debug("geom: skipping malformed ring", zap.Error(err))
			}
		}
		flush()
		if mp.NumPolygons() == 0 {
			return nil
		}
		return mp
	}
	return nil
}

func splitParts(numParts int32, starts []int32, pts []shp.Point) [][]shp.Point {
	var out [][]shp.Point
	for i := int32(0); i < numParts && int(i) < len(starts); i++ {
		start := starts[i]
		end := int32(len(pts))
		if i+1 < numParts && int(i+1) < len(starts) {
			end = starts[i+1]
		}
		if start < 0 || start >= end || int(end) > len(pts) {
			continue
		}
		out = append(out, pts[start:end])
	}
	return out
}

func flatPoints(pts []shp.Point) []float64 {
	flat := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		flat = append(flat, p.X, p.Y)
	}
	return flat
}

// signedArea is negative for clockwise rings.
func signedArea(pts []shp.Point) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}
