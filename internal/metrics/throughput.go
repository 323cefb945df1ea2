package metrics

import (
	"time"

	"github.com/san-kum/framestream/internal/raster"
)

// ByteCounter reports how many bytes have been written so far.
type ByteCounter interface {
	Bytes() int64
}

// Throughput measures output bytes per second from Reset to the last
// observed frame.
type Throughput struct {
	name  string
	src   ByteCounter
	now   func() time.Time
	start time.Time
	end   time.Time
	base  int64
	last  int64
}

func NewThroughput(src ByteCounter) *Throughput {
	m := &Throughput{
		name: "throughput",
		src:  src,
		now:  time.Now,
	}
	m.Reset()
	return m
}

func (m *Throughput) Name() string { return m.name }

func (m *Throughput) Observe(c *raster.Canvas, frame int) {
	m.last = m.src.Bytes()
	m.end = m.now()
}

// Value returns bytes per second, or 0 before any time has elapsed.
func (m *Throughput) Value() float64 {
	elapsed := m.end.Sub(m.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.last-m.base) / elapsed
}

func (m *Throughput) Reset() {
	m.base = m.src.Bytes()
	m.last = m.base
	m.start = m.now()
	m.end = m.start
}
