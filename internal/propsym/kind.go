package propsym

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"propmap/internal/legend"
	"propmap/internal/surface"
)

// Kind is the symbol shape.
type Kind int

const (
	Circle Kind = iota
	Square
	Bar
)

var kindNames = [...]string{"circle", "square", "bar"}

// Kinds lists the kind names in cycling order.
var Kinds = kindNames[:]

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind accepts a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Kind(i), nil
		}
	}
	return 0, eris.Wrapf(ErrConfig, "propsym: unknown symbol kind %q", s)
}

// shape carries the sizing law and the geometry of one kind.
type shape interface {
	// size maps a value to a symbol size in inches.
	size(v, fixmax, inches float64) float64
	// emit draws a symbol of size inches anchored at at.
	emit(s surface.Surface, at surface.Point, size, inches float64, st surface.Style) error
	legend() legend.Shape
}

func (k Kind) shape() (shape, error) {
	switch k {
	case Circle:
		return circle{}, nil
	case Square:
		return square{}, nil
	case Bar:
		return bar{}, nil
	}
	return nil, eris.Wrapf(ErrConfig, "propsym: unknown symbol kind %d", int(k))
}

// areaLaw scales the area of the symbol with the value.
func areaLaw(v, fixmax, inches float64) float64 {
	if v <= 0 {
		return 0
	}
	return inches * math.Sqrt(v/fixmax)
}

type circle struct{}

func (circle) size(v, fixmax, inches float64) float64 { return areaLaw(v, fixmax, inches) }

// emit uses size as the radius.
func (circle) emit(s surface.Surface, at surface.Point, size, _ float64, st surface.Style) error {
	return s.Circle(at, size*s.DPI(), st)
}

func (circle) legend() legend.Shape { return legend.Circles }

type square struct{}

func (square) size(v, fixmax, inches float64) float64 { return areaLaw(v, fixmax, inches) }

// emit uses size as the side, centred on the anchor.
func (square) emit(s surface.Surface, at surface.Point, size, _ float64, st surface.Style) error {
	side := size * s.DPI()
	return s.Rect(at.X-side/2, at.Y-side/2, side, side, st)
}

func (square) legend() legend.Shape { return legend.Squares }

type bar struct{}

// size is length-true: the height is linear in the value.
func (bar) size(v, fixmax, inches float64) float64 {
	if v <= 0 {
		return 0
	}
	return inches * v / fixmax
}

// emit draws a bar inches/7 wide rising from the anchor.
func (bar) emit(s surface.Surface, at surface.Point, size, inches float64, st surface.Style) error {
	w, h := inches/7*s.DPI(), size*s.DPI()
	return s.Rect(at.X-w/2, at.Y-h, w, h, st)
}

func (bar) legend() legend.Shape { return legend.Bars }
