package propsym

import "propmap/internal/geom"

func geomBox(minX, minY, maxX, maxY float64) geom.BBox {
	return geom.BBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}
