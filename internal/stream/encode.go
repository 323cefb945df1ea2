package stream

import (
	"io"
	"strconv"

	"github.com/san-kum/framestream/internal/raster"
)

const (
	magic  = "P6"
	maxVal = 255
)

// AppendHeader appends the P6 header for a width by height frame.
func AppendHeader(dst []byte, width, height int) []byte {
	dst = append(dst, magic...)
	dst = append(dst, '\n')
	dst = strconv.AppendInt(dst, int64(width), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendInt(dst, int64(height), 10)
	dst = append(dst, '\n')
	dst = strconv.AppendInt(dst, maxVal, 10)
	return append(dst, '\n')
}

// AppendFrame appends one complete frame holding the canvas pixels.
func AppendFrame(dst []byte, c *raster.Canvas) []byte {
	dst = AppendHeader(dst, c.Width(), c.Height())
	return appendRGB(dst, c.Pixels(), c.Format().BytesPerPixel())
}

// FrameSize returns the encoded size of a width by height frame.
func FrameSize(width, height int) int {
	return len(AppendHeader(nil, width, height)) + width*height*3
}

// Encode writes a single frame of c to w.
func Encode(w io.Writer, c *raster.Canvas) error {
	buf := AppendFrame(make([]byte, 0, FrameSize(c.Width(), c.Height())), c)
	if err := writeFull(w, buf); err != nil {
		return &WriteError{Frame: 0, Err: err}
	}
	return nil
}

// appendRGB appends packed pixels, dropping every channel past the third.
func appendRGB(dst, pix []byte, bpp int) []byte {
	if bpp == 3 {
		return append(dst, pix...)
	}
	for i := 0; i+2 < len(pix); i += bpp {
		dst = append(dst, pix[i], pix[i+1], pix[i+2])
	}
	return dst
}

// writeFull hands buf to w until it is fully written. A write that makes no
// progress without reporting an error is treated as io.ErrShortWrite.
func writeFull(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrShortWrite
		}
		buf = buf[n:]
	}
	return nil
}
