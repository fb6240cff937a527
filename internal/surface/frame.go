package surface

import (
	"math"

	"propmap/internal/geom"
)

// Frame maps map coordinates onto a device rectangle. Zoom is applied
// around the centre of the box, pan is in device units.
type Frame struct {
	BBox geom.BBox
	// X0, Y0, W, H is the device rectangle the box fills at zoom 1.
	X0, Y0 float64
	W, H   float64
	Zoom   float64
	PanX   float64
	PanY   float64
}

// Fit returns a frame that shows b inside a w×h device area leaving margin
// on every side, preserving the aspect ratio and centring the slack.
func Fit(b geom.BBox, w, h, margin float64) *Frame {
	b = b.Pad()
	iw, ih := w-2*margin, h-2*margin
	if iw <= 0 {
		iw = w
	}
	if ih <= 0 {
		ih = h
	}
	s := math.Min(iw/(b.MaxX-b.MinX), ih/(b.MaxY-b.MinY))
	f := &Frame{BBox: b, Zoom: 1}
	f.W = (b.MaxX - b.MinX) * s
	f.H = (b.MaxY - b.MinY) * s
	f.X0 = (w - f.W) / 2
	f.Y0 = (h - f.H) / 2
	return f
}

// View returns a copy of f with the given zoom and pan.
func (f *Frame) View(zoom, panX, panY float64) *Frame {
	g := *f
	if zoom <= 0 {
		zoom = 1
	}
	g.Zoom, g.PanX, g.PanY = zoom, panX, panY
	return &g
}

func (f *Frame) zoom() float64 {
	if f.Zoom <= 0 {
		return 1
	}
	return f.Zoom
}

// Project maps a map coordinate to device units.
func (f *Frame) Project(p [2]float64) Point {
	b := f.BBox
	nx := (p[0] - b.MinX) / (b.MaxX - b.MinX)
	ny := (p[1] - b.MinY) / (b.MaxY - b.MinY)
	zx := 0.5 + (nx-0.5)*f.zoom()
	zy := 0.5 + (ny-0.5)*f.zoom()
	return Point{
		X: f.X0 + zx*f.W + f.PanX,
		Y: f.Y0 + (1-zy)*f.H + f.PanY,
	}
}

// Unproject is the inverse of Project.
func (f *Frame) Unproject(pt Point) [2]float64 {
	b := f.BBox
	zx := (pt.X - f.PanX - f.X0) / f.W
	zy := 1 - (pt.Y-f.PanY-f.Y0)/f.H
	nx := 0.5 + (zx-0.5)/f.zoom()
	ny := 0.5 + (zy-0.5)/f.zoom()
	return [2]float64{
		b.MinX + nx*(b.MaxX-b.MinX),
		b.MinY + ny*(b.MaxY-b.MinY),
	}
}

// Setup gives s a frame if it has none: Fit over b with margin inches.
// An existing frame is kept so layers can be added to a drawn map.
func Setup(s Surface, b geom.BBox, margin float64) *Frame {
	if f := s.Frame(); f != nil {
		return f
	}
	w, h := s.Size()
	f := Fit(b, w, h, margin*s.DPI())
	s.SetFrame(f)
	return f
}
