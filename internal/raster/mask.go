package raster

import "fmt"

// Mask is a grid of 8-bit per-pixel values, used to accumulate coverage
// counts that are later applied to a canvas in one pass.
type Mask struct {
	width  int
	height int
	values []uint8
}

// NewMask creates a mask of the given size with every value set to fill.
func NewMask(width, height int, fill uint8) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: mask %dx%d", ErrInvalidSize, width, height)
	}
	m := &Mask{
		width:  width,
		height: height,
		values: make([]uint8, width*height),
	}
	m.Fill(fill)
	return m, nil
}

func (m *Mask) Width() int  { return m.width }
func (m *Mask) Height() int { return m.height }

// Fill sets every value to v.
func (m *Mask) Fill(v uint8) {
	for i := range m.values {
		m.values[i] = v
	}
}

// At returns the value at (x, y), or 0 when out of bounds.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.values[y*m.width+x]
}

// Update replaces the value at (x, y) with fn applied to it. Out-of-bounds
// coordinates are ignored.
func (m *Mask) Update(x, y int, fn func(uint8) uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	i := y*m.width + x
	m.values[i] = fn(m.values[i])
}

// ApplyMask replaces every pixel with fn(mask value, current pixel).
func (c *Canvas) ApplyMask(m *Mask, fn func(uint8, Color) Color) error {
	if m.width != c.width || m.height != c.height {
		return fmt.Errorf("%w: mask %dx%d, canvas %dx%d", ErrMaskSize, m.width, m.height, c.width, c.height)
	}
	for p, v := range m.values {
		i := p * c.bpp
		c.store(i, fn(v, c.load(i)))
	}
	return nil
}
