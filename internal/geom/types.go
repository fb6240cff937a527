package geom

import (
	gogeom "github.com/twpayne/go-geom"
)

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a non-degenerate extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Extend grows the box to include pt. The zero box is treated as empty when
// first is true.
func (b BBox) Extend(pt [2]float64, first bool) BBox {
	if first {
		return BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	}
	if pt[0] < b.MinX {
		b.MinX = pt[0]
	}
	if pt[1] < b.MinY {
		b.MinY = pt[1]
	}
	if pt[0] > b.MaxX {
		b.MaxX = pt[0]
	}
	if pt[1] > b.MaxY {
		b.MaxY = pt[1]
	}
	return b
}

// Pad returns the box widened so a single point or a straight line still
// has an area to project onto.
func (b BBox) Pad() BBox {
	if b.MaxX <= b.MinX {
		b.MinX -= 0.5
		b.MaxX += 0.5
	}
	if b.MaxY <= b.MinY {
		b.MinY -= 0.5
		b.MaxY += 0.5
	}
	return b
}

// Feature is one input geometry with its attribute row.
type Feature struct {
	ID       string
	Geometry gogeom.T
	Props    map[string]any
}

// Collection is an ordered set of features as read from one source.
type Collection struct {
	Features []Feature
	// Fields lists attribute names in first-seen order; names first seen on
	// the same feature are sorted.
	Fields []string
	BBox   BBox
}

// Data is a minimal geometry container for drawing base outlines.
type Data struct {
	Points   [][2]float64
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
	BBox     BBox
}
