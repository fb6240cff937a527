package legend

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"propmap/internal/surface"
)

// ErrPosition reports a legend position that cannot be parsed.
var ErrPosition = eris.New("legend: invalid position")

// Named positions in the order auto placement tries corners.
var Positions = []string{"topleft", "top", "topright", "right", "bottomright", "bottom", "bottomleft", "left"}

var corners = []string{"topleft", "topright", "bottomleft", "bottomright"}

// Box is a placed legend in device units.
type Box struct {
	X, Y, W, H float64
}

func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

func (b Box) overlaps(o Box) bool {
	return !b.Empty() && !o.Empty() &&
		b.X < o.X+o.W && o.X < b.X+b.W && b.Y < o.Y+o.H && o.Y < b.Y+b.H
}

func (b Box) contains(p surface.Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// CheckPosition validates a position string without placing anything.
func CheckPosition(pos string) error {
	p := strings.ToLower(strings.TrimSpace(pos))
	switch p {
	case "", "none", "auto":
		return nil
	}
	for _, n := range Positions {
		if p == n {
			return nil
		}
	}
	_, _, err := parseXY(p)
	return err
}

func parseXY(p string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(p, ",")
	if !ok {
		return 0, 0, eris.Wrapf(ErrPosition, "legend: position %q", p)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(ErrPosition, "legend: position %q", p)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(ErrPosition, "legend: position %q", p)
	}
	return x, y, nil
}

// anchor returns the top-left corner of a w×h box at a named position,
// inset from the surface edges.
func anchor(name string, sw, sh, w, h, inset float64) (float64, float64) {
	x, y := inset, inset
	switch name {
	case "top", "bottom":
		x = (sw - w) / 2
	case "topright", "right", "bottomright":
		x = sw - w - inset
	}
	switch name {
	case "left", "right":
		y = (sh - h) / 2
	case "bottomleft", "bottom", "bottomright":
		y = sh - h - inset
	}
	return x, y
}

// Place resolves pos for a w×h legend. Explicit positions are fractions of
// the surface. auto picks the corner covering the fewest occupied points.
// A box that would overlap one in taken is pushed away from its edge.
func Place(s surface.Surface, pos string, w, h float64, occupied []surface.Point, taken []Box) (Box, error) {
	p := strings.ToLower(strings.TrimSpace(pos))
	sw, sh := s.Size()
	inset := 0.1 * s.DPI()
	switch p {
	case "none":
		return Box{}, nil
	case "", "auto":
		best, bestN := "", -1
		for _, c := range corners {
			x, y := anchor(c, sw, sh, w, h, inset)
			b := Box{X: x, Y: y, W: w, H: h}
			n := 0
			for _, pt := range occupied {
				if b.contains(pt) {
					n++
				}
			}
			for _, t := range taken {
				if b.overlaps(t) {
					n += len(occupied) + 1
				}
			}
			if bestN < 0 || n < bestN {
				best, bestN = c, n
			}
		}
		p = best
	}
	for _, n := range Positions {
		if p != n {
			continue
		}
		x, y := anchor(n, sw, sh, w, h, inset)
		b := Box{X: x, Y: y, W: w, H: h}
		gap := 0.1 * s.DPI()
		for _, t := range taken {
			if !b.overlaps(t) {
				continue
			}
			if strings.HasPrefix(n, "bottom") {
				b.Y = t.Y - gap - h
			} else {
				b.Y = t.Y + t.H + gap
			}
		}
		return b, nil
	}
	x, y, err := parseXY(p)
	if err != nil {
		return Box{}, err
	}
	return Box{X: x * sw, Y: y * sh, W: w, H: h}, nil
}
