package surface

import "image/color"

// brailleBuf is a cell grid where every cell holds a 2×4 dot matrix.
type brailleBuf struct {
	w, h int             // in cells
	m    [][]uint8       // per-cell 8-bit mask
	fg   [][]color.Color // last colour painted into the cell
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	fg := make([][]color.Color, h)
	for i := range m {
		m[i] = make([]uint8, w)
		fg[i] = make([]color.Color, w)
	}
	return &brailleBuf{w: w, h: h, m: m, fg: fg}
}

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, c color.Color) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[mx%2][my%4]
	if c != nil {
		b.fg[cy][cx] = c
	}
}

// drawLine draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLine(x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *brailleBuf) glyph(x, y int) rune {
	if mask := b.m[y][x]; mask != 0 {
		return rune(0x2800 + int(mask))
	}
	return ' '
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
