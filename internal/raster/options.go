package raster

import "fmt"

// Format selects how many channels a canvas stores per pixel.
type Format uint8

const (
	// FormatRGB stores three bytes per pixel; every pixel reads back opaque.
	FormatRGB Format = iota
	// FormatRGBA stores four bytes per pixel.
	FormatRGBA
)

// BytesPerPixel returns the storage size of one pixel.
func (f Format) BytesPerPixel() int {
	if f == FormatRGBA {
		return 4
	}
	return 3
}

func (f Format) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// CompositeMode controls the alpha of blended pixels.
type CompositeMode uint8

const (
	// CompositeOpaque treats the canvas as a display target: blended pixels
	// come out fully opaque.
	CompositeOpaque CompositeMode = iota
	// CompositePreserveAlpha accumulates coverage: out.A = a + dst.A*(1-a).
	CompositePreserveAlpha
)

// Option configures a Canvas during creation.
type Option func(*options)

type options struct {
	format    Format
	composite CompositeMode
}

func defaultOptions() options {
	return options{
		format:    FormatRGB,
		composite: CompositeOpaque,
	}
}

// WithFormat sets the pixel storage format. The default is FormatRGB.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithComposite sets the alpha rule used by blending operations. It only has
// an observable effect on FormatRGBA canvases.
func WithComposite(m CompositeMode) Option {
	return func(o *options) {
		o.composite = m
	}
}
