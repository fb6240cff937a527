package surface

import (
	"propmap/internal/geom"
)

// Outline draws d as a base map: polygons filled and stroked with poly,
// lines stroked with line. Points are not drawn; they only carry symbols.
func Outline(s Surface, d geom.Data, poly, line Style) error {
	f := s.Frame()
	if f == nil {
		return nil
	}
	for _, p := range d.Polygons {
		for i, ring := range p {
			st := poly
			if i > 0 {
				st.Fill = nil
			}
			if err := s.Polyline(project(f, ring), true, st); err != nil {
				return err
			}
		}
	}
	line.Fill = nil
	for _, l := range d.Lines {
		if err := s.Polyline(project(f, l), false, line); err != nil {
			return err
		}
	}
	return nil
}

func project(f *Frame, pts [][2]float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = f.Project(p)
	}
	return out
}
