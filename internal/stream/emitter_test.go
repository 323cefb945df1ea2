package stream_test

import (
	"bytes"
	"errors"
	"io"
	"syscall"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/framestream/internal/raster"
	"github.com/san-kum/framestream/internal/stream"
)

// failingWriter accepts limit bytes and then fails every write.
type failingWriter struct {
	limit   int
	written int
	err     error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	room := w.limit - w.written
	if room <= 0 {
		return 0, w.err
	}
	if len(p) > room {
		w.written += room
		return room, w.err
	}
	w.written += len(p)
	return len(p), nil
}

// trickleWriter accepts at most one byte per call.
type trickleWriter struct {
	bytes.Buffer
}

func (w *trickleWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return w.Buffer.Write(p[:1])
}

// stallWriter reports zero progress without an error.
type stallWriter struct{}

func (stallWriter) Write(p []byte) (int, error) { return 0, nil }

func newCanvas(w, h int, bg raster.Color, opts ...raster.Option) *raster.Canvas {
	c, err := raster.New(w, h, bg, opts...)
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Emitter", func() {
	var (
		out *bytes.Buffer
		em  *stream.Emitter
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		em = stream.NewEmitter(out)
	})

	Describe("wire format", func() {
		It("writes an exact header and a solid body", func() {
			col := raster.RGB(12, 200, 7)
			c := newCanvas(5, 3, col)

			Expect(em.Emit(c)).To(Succeed())

			header := []byte("P6\n5 3\n255\n")
			Expect(out.Bytes()[:len(header)]).To(Equal(header))
			body := out.Bytes()[len(header):]
			Expect(body).To(Equal(bytes.Repeat([]byte{12, 200, 7}, 15)))
			Expect(out.Len()).To(Equal(stream.FrameSize(5, 3)))
		})

		It("drops the alpha channel of RGBA canvases", func() {
			c := newCanvas(2, 1, raster.RGBA(1, 2, 3, 4), raster.WithFormat(raster.FormatRGBA))

			Expect(em.Emit(c)).To(Succeed())
			Expect(out.String()).To(Equal("P6\n2 1\n255\n\x01\x02\x03\x01\x02\x03"))
		})

		It("emits the 4x4 rectangle scenario", func() {
			c := newCanvas(4, 4, raster.Black)
			c.FillRect(1, 1, 2, 2, raster.White, false)

			Expect(em.Emit(c)).To(Succeed())

			body := out.Bytes()[len("P6\n4 4\n255\n"):]
			Expect(body).To(HaveLen(48))
			for i := 0; i < 16; i++ {
				px := body[i*3 : i*3+3]
				switch i {
				case 5, 6, 9, 10:
					Expect(px).To(Equal([]byte{255, 255, 255}), "index %d", i)
				default:
					Expect(px).To(Equal([]byte{0, 0, 0}), "index %d", i)
				}
			}
		})
	})

	Describe("streaming", func() {
		It("writes byte-identical frames for an unchanged canvas", func() {
			c := newCanvas(2, 2, raster.RGB(9, 8, 7))

			Expect(em.Emit(c)).To(Succeed())
			first := bytes.Clone(out.Bytes())
			Expect(em.Emit(c)).To(Succeed())

			Expect(out.Bytes()).To(Equal(append(bytes.Clone(first), first...)))
			Expect(em.Frames()).To(Equal(2))
			Expect(em.Bytes()).To(Equal(int64(2 * len(first))))

			dec := stream.NewDecoder(out)
			for i := 0; i < 2; i++ {
				f, err := dec.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Width).To(Equal(2))
				Expect(f.Height).To(Equal(2))
				Expect(f.At(1, 1)).To(Equal(raster.RGB(9, 8, 7)))
			}
			_, err := dec.Next()
			Expect(err).To(MatchError(io.EOF))
		})

		It("preserves call order across changing frames", func() {
			c := newCanvas(3, 3, raster.Black)
			for i := 0; i < 5; i++ {
				c.SetPixel(i%3, i/3, raster.RGB(uint8(i+1), 0, 0))
				Expect(em.Emit(c)).To(Succeed())
			}

			dec := stream.NewDecoder(out)
			for i := 0; i < 5; i++ {
				f, err := dec.Next()
				Expect(err).NotTo(HaveOccurred())
				Expect(f.At(i%3, i/3).R).To(Equal(uint8(i + 1)))
			}
		})

		It("completes frames on sinks that accept partial writes", func() {
			sink := &trickleWriter{}
			c := newCanvas(3, 2, raster.White)

			Expect(stream.NewEmitter(sink).Emit(c)).To(Succeed())
			Expect(sink.Len()).To(Equal(stream.FrameSize(3, 2)))
		})
	})

	Describe("write failures", func() {
		It("surfaces sink errors wrapped with the frame index", func() {
			sink := &failingWriter{limit: stream.FrameSize(2, 2) + 5, err: syscall.EPIPE}
			em := stream.NewEmitter(sink)
			c := newCanvas(2, 2, raster.Black)

			Expect(em.Emit(c)).To(Succeed())
			err := em.Emit(c)

			Expect(err).To(MatchError(stream.ErrWrite))
			Expect(errors.Is(err, syscall.EPIPE)).To(BeTrue())
			var we *stream.WriteError
			Expect(errors.As(err, &we)).To(BeTrue())
			Expect(we.Frame).To(Equal(1))
			Expect(em.Frames()).To(Equal(1))
		})

		It("reports a stalled sink as a short write", func() {
			err := stream.NewEmitter(stallWriter{}).Emit(newCanvas(1, 1, raster.Black))
			Expect(errors.Is(err, io.ErrShortWrite)).To(BeTrue())
		})

		It("rejects a non-positive scale", func() {
			err := stream.NewEmitter(out, stream.WithScale(0)).Emit(newCanvas(1, 1, raster.Black))
			Expect(err).To(MatchError(stream.ErrInvalidScale))
			Expect(out.Len()).To(BeZero())
		})
	})

	Describe("scaling", func() {
		It("replicates pixels and declares the scaled size", func() {
			c := newCanvas(2, 2, raster.Black)
			c.SetPixel(1, 0, raster.RGB(200, 100, 50))

			em := stream.NewEmitter(out, stream.WithScale(3))
			Expect(em.Emit(c)).To(Succeed())

			f, err := stream.NewDecoder(out).Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Width).To(Equal(6))
			Expect(f.Height).To(Equal(6))
			for y := 0; y < 6; y++ {
				for x := 0; x < 6; x++ {
					want := raster.Black
					if x >= 3 && y < 3 {
						want = raster.RGB(200, 100, 50)
					}
					Expect(f.At(x, y)).To(Equal(want), "pixel %d,%d", x, y)
				}
			}
		})
	})

	Describe("Encode", func() {
		It("writes a single frame", func() {
			c := newCanvas(1, 1, raster.RGB(1, 2, 3))
			Expect(stream.Encode(out, c)).To(Succeed())
			Expect(out.String()).To(Equal("P6\n1 1\n255\n\x01\x02\x03"))
		})
	})
})
