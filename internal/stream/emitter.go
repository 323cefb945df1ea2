package stream

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"

	"github.com/san-kum/framestream/internal/raster"
)

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithScale upscales every frame by an integer factor with nearest-neighbour
// sampling. The emitted header declares the scaled size.
func WithScale(n int) EmitterOption {
	return func(e *Emitter) {
		e.scale = n
	}
}

// Emitter writes canvases to a sink as consecutive P6 frames.
type Emitter struct {
	w      io.Writer
	scale  int
	buf    []byte
	scaled *image.RGBA
	frames int
	bytes  int64
}

// NewEmitter returns an emitter writing to w.
func NewEmitter(w io.Writer, opts ...EmitterOption) *Emitter {
	e := &Emitter{w: w, scale: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Frames returns the number of frames fully written.
func (e *Emitter) Frames() int { return e.frames }

// Bytes returns the number of bytes fully written.
func (e *Emitter) Bytes() int64 { return e.bytes }

// Scale returns the emission scale factor.
func (e *Emitter) Scale() int { return e.scale }

// Emit serializes the current state of c as one frame and writes it. It
// blocks until the whole frame has been accepted by the sink.
func (e *Emitter) Emit(c *raster.Canvas) error {
	if e.scale < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidScale, e.scale)
	}

	if e.scale == 1 {
		e.buf = AppendFrame(e.buf[:0], c)
	} else {
		e.buf = e.appendScaled(e.buf[:0], c)
	}

	if err := writeFull(e.w, e.buf); err != nil {
		return &WriteError{Frame: e.frames, Err: err}
	}
	e.frames++
	e.bytes += int64(len(e.buf))
	return nil
}

func (e *Emitter) appendScaled(dst []byte, c *raster.Canvas) []byte {
	w, h := c.Width()*e.scale, c.Height()*e.scale
	if e.scaled == nil || e.scaled.Rect.Dx() != w || e.scaled.Rect.Dy() != h {
		e.scaled = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	src := c.Image()
	draw.NearestNeighbor.Scale(e.scaled, e.scaled.Rect, src, src.Bounds(), draw.Src, nil)

	dst = AppendHeader(dst, w, h)
	return appendRGB(dst, e.scaled.Pix, 4)
}
