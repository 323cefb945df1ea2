package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/framestream/internal/stream"
)

var ErrSizeChanged = errors.New("analysis: frame size changed mid-stream")

// Report summarises a decoded frame stream.
type Report struct {
	Frames  int
	Width   int
	Height  int
	Bytes   int64
	Repeats int // frames identical to their predecessor
	Luma    []float64
}

// MeanLuma averages the per-frame luminance series.
func (r *Report) MeanLuma() float64 {
	if len(r.Luma) == 0 {
		return 0
	}
	var sum float64
	for _, v := range r.Luma {
		sum += v
	}
	return sum / float64(len(r.Luma))
}

// Period is the dominant period of the luminance series in frames.
func (r *Report) Period() float64 {
	return DominantPeriod(r.Luma)
}

// Plot renders the luminance series as an ASCII chart.
func (r *Report) Plot(width, height int) string {
	if len(r.Luma) == 0 {
		return ""
	}
	return asciigraph.Plot(r.Luma,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("mean luminance per frame"),
	)
}

// Probe reads frames from d until the stream ends. Frames read before a
// decoding error are reported alongside it.
func Probe(d *stream.Decoder) (*Report, error) {
	r := &Report{Luma: make([]float64, 0, 64)}
	var prev []byte

	for {
		f, err := d.Next()
		if errors.Is(err, io.EOF) {
			return r, nil
		}
		if err != nil {
			return r, fmt.Errorf("frame %d: %w", r.Frames, err)
		}

		if r.Frames == 0 {
			r.Width, r.Height = f.Width, f.Height
		} else if f.Width != r.Width || f.Height != r.Height {
			return r, fmt.Errorf("%w: frame %d is %dx%d, stream is %dx%d",
				ErrSizeChanged, r.Frames, f.Width, f.Height, r.Width, r.Height)
		}

		if prev != nil && bytes.Equal(prev, f.Pix) {
			r.Repeats++
		}
		prev = f.Pix

		r.Luma = append(r.Luma, frameLuma(f.Pix))
		r.Bytes += int64(stream.FrameSize(f.Width, f.Height))
		r.Frames++
	}
}

func frameLuma(pix []byte) float64 {
	n := len(pix) / 3
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i+2 < len(pix); i += 3 {
		sum += 0.299*float64(pix[i]) + 0.587*float64(pix[i+1]) + 0.114*float64(pix[i+2])
	}
	return sum / float64(n)
}
