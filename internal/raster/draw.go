package raster

import (
	"math"
	"math/bits"
)

// FillRect fills the closed rectangle spanned by (x0, y0) and (x1, y1).
// Corners may be given in any order; the rectangle is clipped to the canvas.
func (c *Canvas) FillRect(x0, y0, x1, y1 int, col Color, blend bool) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0 = max(y0, 0)
	y1 = min(y1, c.height-1)
	for y := y0; y <= y1; y++ {
		c.span(x0, x1, y, col, blend)
	}
}

// FillRectSize fills the w by h rectangle whose top-left corner is (x, y).
// A non-positive width or height draws nothing.
func (c *Canvas) FillRectSize(x, y, w, h int, col Color, blend bool) {
	if w <= 0 || h <= 0 {
		return
	}
	c.FillRect(x, y, x+w-1, y+h-1, col, blend)
}

// DrawLine rasterizes the segment between (x0, y0) and (x1, y1) with
// Bresenham's algorithm. Endpoints are put in a canonical order first, so
// both directions produce the same pixels, and every pixel is visited once.
// Segments that miss the canvas are rejected up front, and the walk stops
// once it has left the canvas.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col Color, blend bool) {
	if x1 < x0 || (x1 == x0 && y1 < y0) {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if x1 < 0 || x0 >= c.width || max(y0, y1) < 0 || min(y0, y1) >= c.height {
		return
	}

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	// a segment is convex: after leaving the canvas it cannot come back
	entered := false
	for {
		if c.InBounds(x0, y0) {
			c.plot(x0, y0, col, blend)
			entered = true
		} else if entered {
			return
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle fills every pixel with dx*dx + dy*dy <= r*r around (cx, cy).
// A zero radius draws a single pixel; a negative radius draws nothing.
// Only rows on the canvas are visited.
func (c *Canvas) FillCircle(cx, cy, r int, col Color, blend bool) {
	if r < 0 {
		return
	}
	lo, hi, reach, ok := c.circleRows(cx, cy, r)
	if !ok {
		return
	}
	for dy := lo; dy <= hi; dy++ {
		h := halfWidth(r, dy, reach)
		if h >= 0 {
			c.span(cx-h, cx+h, cy+dy, col, blend)
		}
	}
}

// StrokeCircle draws the one-pixel boundary of the disc FillCircle would
// fill: the disc pixels that have at least one 4-neighbour outside it.
func (c *Canvas) StrokeCircle(cx, cy, r int, col Color, blend bool) {
	if r < 0 {
		return
	}
	lo, hi, reach, ok := c.circleRows(cx, cy, r)
	if !ok {
		return
	}
	// One column past the canvas so an edge column is never mistaken for
	// the boundary of a wider disc.
	reach++
	for dy := lo; dy <= hi; dy++ {
		h := halfWidth(r, dy, reach)
		if h < 0 {
			continue
		}
		inner := min(h-1, halfWidth(r, dy-1, reach), halfWidth(r, dy+1, reach))
		y := cy + dy
		if inner < 0 {
			c.span(cx-h, cx+h, y, col, blend)
			continue
		}
		c.span(cx-h, cx-inner-1, y, col, blend)
		c.span(cx+inner+1, cx+h, y, col, blend)
	}
}

// circleRows clips the rows of a radius r disc around (cx, cy) to the
// canvas. reach is the distance from cx to the farthest canvas column; a
// span wider than that is clipped anyway.
func (c *Canvas) circleRows(cx, cy, r int) (lo, hi, reach int, ok bool) {
	lo = max(-r, -cy)
	hi = min(r, c.height-1-cy)
	reach = max(absInt(cx), absInt(c.width-1-cx))
	return lo, hi, reach, lo <= hi
}

// smallRadius bounds radii whose square fits in a 64-bit int.
const smallRadius = math.MaxInt32

// halfWidth returns the largest dx <= limit with dx*dx + dy*dy <= r*r, or -1
// when row dy lies outside the disc.
func halfWidth(r, dy, limit int) int {
	if r <= smallRadius {
		if absInt(dy) > r {
			return -1
		}
		return min(isqrt(r*r-dy*dy), limit)
	}
	if !inDisc(0, dy, r) {
		return -1
	}
	if inDisc(limit, dy, r) {
		return limit
	}
	// inDisc(lo) holds and inDisc(hi) does not
	lo, hi := 0, limit
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if inDisc(mid, dy, r) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// inDisc reports dx*dx + dy*dy <= r*r in 128-bit arithmetic.
func inDisc(dx, dy, r int) bool {
	ahi, alo := bits.Mul64(uint64(absInt(dx)), uint64(absInt(dx)))
	bhi, blo := bits.Mul64(uint64(absInt(dy)), uint64(absInt(dy)))
	lo, carry := bits.Add64(alo, blo, 0)
	hi, _ := bits.Add64(ahi, bhi, carry)
	rhi, rlo := bits.Mul64(uint64(r), uint64(r))
	return hi < rhi || (hi == rhi && lo <= rlo)
}

func isqrt(n int) int {
	s := int(math.Sqrt(float64(n)))
	for s*s > n {
		s--
	}
	for (s+1)*(s+1) <= n {
		s++
	}
	return s
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
