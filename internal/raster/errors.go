package raster

import "errors"

var (
	// ErrInvalidSize indicates a canvas or mask dimension that is not positive.
	ErrInvalidSize = errors.New("raster: width and height must be positive")

	// ErrMaskSize indicates a mask whose dimensions differ from the canvas.
	ErrMaskSize = errors.New("raster: mask size does not match canvas")
)
