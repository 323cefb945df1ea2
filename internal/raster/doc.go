// Package raster provides an in-memory pixel buffer with integer drawing
// primitives and alpha compositing.
//
// The package is built around a single type:
//
//   - [Canvas]: a fixed-size, row-major grid of pixels with point, line,
//     rectangle and circle primitives
//
// Every primitive clips against the canvas edges, so callers may draw shapes
// that run partially (or entirely) off-canvas without bounds checks of their
// own. Drawing calls take a blend flag: when false the colour replaces the
// pixel, when true it is composited with the "over" rule using the colour's
// alpha channel.
//
// # Example
//
//	c, err := raster.New(320, 240, raster.Black)
//	if err != nil {
//		return err
//	}
//	c.FillCircle(160, 120, 40, raster.RGBA(255, 0, 255, 120), true)
//	c.DrawLine(0, 0, 319, 239, raster.White, false)
//
// # Thread Safety
//
// Canvas instances are NOT thread-safe. A canvas is meant to be owned by the
// single loop that draws and emits it.
package raster
