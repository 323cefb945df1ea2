package raster

import (
	"image"
	"image/color"
)

// displayImage presents a canvas as an opaque image, the way it is emitted:
// alpha is dropped and RGB channels are reported as stored.
type displayImage struct {
	c *Canvas
}

// Image returns a read-only image.Image view of the canvas as it would be
// displayed. The view aliases the canvas and reflects later drawing.
func (c *Canvas) Image() image.Image {
	return displayImage{c: c}
}

func (d displayImage) ColorModel() color.Model { return color.RGBAModel }

func (d displayImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.c.width, d.c.height)
}

func (d displayImage) At(x, y int) color.Color {
	if !d.c.InBounds(x, y) {
		return color.RGBA{}
	}
	p := d.c.load(d.c.offset(x, y))
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}
}
