package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/framestream/internal/raster"
)

// maxFrameBytes bounds the body a header may declare.
const maxFrameBytes = 1 << 30

// Frame is one decoded P6 frame.
type Frame struct {
	Width  int
	Height int
	Pix    []byte // packed RGB, row-major
}

// At returns the pixel at (x, y), or raster.Transparent when out of bounds.
func (f *Frame) At(x, y int) raster.Color {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return raster.Transparent
	}
	i := (y*f.Width + x) * 3
	return raster.RGB(f.Pix[i], f.Pix[i+1], f.Pix[i+2])
}

// Decoder reads consecutive P6 frames from a stream.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next decodes the next frame. It returns io.EOF when the stream ends cleanly
// between frames and an error wrapping ErrMalformed otherwise.
func (d *Decoder) Next() (*Frame, error) {
	var m [2]byte
	n, err := io.ReadFull(d.r, m[:])
	if n == 0 && errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: truncated magic", ErrMalformed)
	}
	if string(m[:]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrMalformed, m[:])
	}

	width, err := d.readField("width")
	if err != nil {
		return nil, err
	}
	height, err := d.readField("height")
	if err != nil {
		return nil, err
	}
	mv, err := d.readField("maxval")
	if err != nil {
		return nil, err
	}
	if mv != maxVal {
		return nil, fmt.Errorf("%w: unsupported maxval %d", ErrMalformed, mv)
	}
	if width <= 0 || height <= 0 || width*height*3 > maxFrameBytes {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrMalformed, width, height)
	}

	f := &Frame{Width: width, Height: height, Pix: make([]byte, width*height*3)}
	if _, err := io.ReadFull(d.r, f.Pix); err != nil {
		return nil, fmt.Errorf("%w: truncated body: %v", ErrMalformed, err)
	}
	return f, nil
}

// readField reads one ASCII decimal header field. Leading whitespace and
// '#' comments are skipped; exactly one whitespace byte after the digits is
// consumed.
func (d *Decoder) readField(name string) (int, error) {
	b, err := d.skipSpace()
	if err != nil {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformed, name)
	}

	v, digits := 0, 0
	for {
		if b < '0' || b > '9' {
			break
		}
		if digits == 9 {
			return 0, fmt.Errorf("%w: %s too large", ErrMalformed, name)
		}
		v = v*10 + int(b-'0')
		digits++
		if b, err = d.r.ReadByte(); err != nil {
			return 0, fmt.Errorf("%w: truncated %s", ErrMalformed, name)
		}
	}
	if digits == 0 || !isSpace(b) {
		return 0, fmt.Errorf("%w: invalid %s", ErrMalformed, name)
	}
	return v, nil
}

func (d *Decoder) skipSpace() (byte, error) {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch {
		case b == '#':
			if _, err := d.r.ReadBytes('\n'); err != nil {
				return 0, err
			}
		case isSpace(b):
		default:
			return b, nil
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
