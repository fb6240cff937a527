package surface

import (
	"image/color"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/rotisserie/eris"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce sync.Once
	fontSrc  *text.FontSource
	fontErr  error
)

func regular() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSrc, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSrc, fontErr
}

// PNG is a raster surface backed by a gg context. Device units are pixels.
type PNG struct {
	dc    *gg.Context
	dpi   float64
	frame *Frame
	faces map[float64]text.Face
}

// NewPNG returns a w×h pixel surface cleared to bg (transparent when nil).
func NewPNG(w, h int, dpi float64, bg color.Color) *PNG {
	dc := gg.NewContext(w, h)
	if bg != nil {
		dc.ClearWithColor(gg.FromColor(bg))
	}
	if dpi <= 0 {
		dpi = 96
	}
	return &PNG{dc: dc, dpi: dpi, faces: map[float64]text.Face{}}
}

func (p *PNG) Size() (float64, float64) {
	return float64(p.dc.Width()), float64(p.dc.Height())
}

func (p *PNG) DPI() float64      { return p.dpi }
func (p *PNG) Frame() *Frame     { return p.frame }
func (p *PNG) SetFrame(f *Frame) { p.frame = f }

func (p *PNG) paint(st Style) error {
	if st.Fill != nil {
		p.dc.SetColor(st.Fill)
		if err := p.dc.FillPreserve(); err != nil {
			return eris.Wrap(err, "surface: png fill")
		}
	}
	if st.stroked() {
		p.dc.SetColor(st.Stroke)
		p.dc.SetLineWidth(st.StrokeWidth)
		if err := p.dc.Stroke(); err != nil {
			return eris.Wrap(err, "surface: png stroke")
		}
		return nil
	}
	p.dc.ClearPath()
	return nil
}

func (p *PNG) Circle(c Point, r float64, st Style) error {
	if r <= 0 || !st.Visible() {
		return nil
	}
	p.dc.DrawCircle(c.X, c.Y, r)
	return p.paint(st)
}

func (p *PNG) Rect(x, y, w, h float64, st Style) error {
	if w <= 0 || h <= 0 || !st.Visible() {
		return nil
	}
	p.dc.DrawRectangle(x, y, w, h)
	return p.paint(st)
}

func (p *PNG) Polyline(pts []Point, closed bool, st Style) error {
	if len(pts) < 2 || !st.Visible() {
		return nil
	}
	p.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.dc.LineTo(pt.X, pt.Y)
	}
	if closed {
		p.dc.ClosePath()
	} else {
		st.Fill = nil
	}
	return p.paint(st)
}

func (p *PNG) face(size float64) (text.Face, error) {
	px := size * p.dpi / 72
	if f, ok := p.faces[px]; ok {
		return f, nil
	}
	src, err := regular()
	if err != nil {
		return nil, eris.Wrap(err, "surface: load font")
	}
	f := src.Face(px)
	p.faces[px] = f
	return f, nil
}

// Text draws s anchored at pt. gg anchors on the baseline, so the vertical
// anchor is flipped.
func (p *PNG) Text(pt Point, s string, ts TextStyle) error {
	if s == "" {
		return nil
	}
	f, err := p.face(ts.Size)
	if err != nil {
		return err
	}
	p.dc.SetFont(f)
	c := ts.Color
	if c == nil {
		c = color.Black
	}
	p.dc.SetColor(c)
	p.dc.DrawStringAnchored(s, pt.X, pt.Y, ts.AX, 1-ts.AY)
	return nil
}

func (p *PNG) TextSize(s string, size float64) (float64, float64) {
	f, err := p.face(size)
	if err != nil {
		return approxText(s, size*p.dpi/72)
	}
	p.dc.SetFont(f)
	return p.dc.MeasureString(s)
}

// Encode writes the image as PNG.
func (p *PNG) Encode(w io.Writer) error {
	if err := p.dc.EncodePNG(w); err != nil {
		return eris.Wrap(err, "surface: encode png")
	}
	return nil
}

// Close releases the context.
func (p *PNG) Close() error {
	return p.dc.Close()
}

// approxText estimates a label box for surfaces without font metrics.
func approxText(s string, px float64) (float64, float64) {
	return 0.55 * px * float64(len([]rune(s))), 1.2 * px
}
