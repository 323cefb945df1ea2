package stream_test

import (
	"bytes"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/framestream/internal/raster"
	"github.com/san-kum/framestream/internal/stream"
)

var _ = Describe("Decoder", func() {
	It("returns io.EOF on an empty stream", func() {
		_, err := stream.NewDecoder(strings.NewReader("")).Next()
		Expect(err).To(MatchError(io.EOF))
	})

	It("tolerates comments and mixed whitespace in the header", func() {
		in := "P6 # made by hand\n2\t1\r\n# depth\n255\n\xff\x00\x00\x00\xff\x00"
		f, err := stream.NewDecoder(strings.NewReader(in)).Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.At(0, 0)).To(Equal(raster.RGB(255, 0, 0)))
		Expect(f.At(1, 0)).To(Equal(raster.RGB(0, 255, 0)))
		Expect(f.At(2, 0)).To(Equal(raster.Transparent))
	})

	It("treats body bytes that look like whitespace as pixel data", func() {
		in := "P6\n1 1\n255\n\n\n\n"
		f, err := stream.NewDecoder(strings.NewReader(in)).Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Pix).To(Equal([]byte{'\n', '\n', '\n'}))
	})

	DescribeTable("rejects malformed frames",
		func(in string) {
			_, err := stream.NewDecoder(strings.NewReader(in)).Next()
			Expect(err).To(MatchError(stream.ErrMalformed))
		},
		Entry("wrong magic", "P3\n1 1\n255\n\x00\x00\x00"),
		Entry("truncated magic", "P"),
		Entry("missing height", "P6\n1"),
		Entry("letters in width", "P6\nab 1\n255\n"),
		Entry("16-bit maxval", "P6\n1 1\n65535\n\x00\x00\x00\x00\x00\x00"),
		Entry("zero width", "P6\n0 1\n255\n"),
		Entry("oversized", "P6\n999999999 999999999\n255\n"),
		Entry("truncated body", "P6\n2 2\n255\n\x00\x00\x00"),
	)

	It("decodes what the emitter writes", func() {
		c, err := raster.New(7, 4, raster.Black, raster.WithFormat(raster.FormatRGBA))
		Expect(err).NotTo(HaveOccurred())
		c.FillCircle(3, 2, 2, raster.RGBA(10, 250, 30, 255), false)

		var buf bytes.Buffer
		Expect(stream.Encode(&buf, c)).To(Succeed())

		f, err := stream.NewDecoder(&buf).Next()
		Expect(err).NotTo(HaveOccurred())
		for y := 0; y < 4; y++ {
			for x := 0; x < 7; x++ {
				Expect(f.At(x, y)).To(Equal(c.At(x, y)))
			}
		}
	})
})
