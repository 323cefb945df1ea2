package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/framestream/internal/metrics"
	"github.com/san-kum/framestream/internal/raster"
	"github.com/san-kum/framestream/internal/sim"
)

const historyCapacity = 600

type TickMsg time.Time

type PreviewOptions struct {
	Cols      int // braille cells across
	Rows      int
	FPS       int
	Threshold float64 // luma above which a dot is lit
	Theme     string
}

func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		Cols:      80,
		Rows:      24,
		FPS:       30,
		Threshold: 64,
		Theme:     ThemeCyberpunk.Name,
	}
}

// Preview steps a scene in the terminal and shows it as braille, with the
// luminance of recent frames charted alongside.
type Preview struct {
	scene  sim.Scene
	canvas *raster.Canvas
	cfg    sim.Config
	opts   PreviewOptions
	dots   *Canvas
	theme  Theme
	styles Styles

	frame    int
	luma     []float64
	drawTime []float64
	running  bool
	done     bool
	err      error
}

// NewPreview sets up scene on c. The canvas is owned by the preview from
// then on.
func NewPreview(scene sim.Scene, c *raster.Canvas, cfg sim.Config, opts PreviewOptions) (Preview, error) {
	if opts.Cols <= 0 || opts.Rows <= 0 {
		return Preview{}, fmt.Errorf("viz: invalid preview size %dx%d", opts.Cols, opts.Rows)
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultPreviewOptions().FPS
	}
	sim.PrepareCanvas(c, cfg)
	if err := scene.Setup(c); err != nil {
		return Preview{}, fmt.Errorf("viz: setup %s: %w", scene.Name(), err)
	}

	theme := GetTheme(opts.Theme)
	return Preview{
		scene:    scene,
		canvas:   c,
		cfg:      cfg,
		opts:     opts,
		dots:     NewCanvas(opts.Cols, opts.Rows),
		theme:    theme,
		styles:   NewStyles(theme),
		luma:     make([]float64, 0, historyCapacity),
		drawTime: make([]float64, 0, historyCapacity),
		running:  true,
	}, nil
}

func (m Preview) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Preview) Init() tea.Cmd {
	return m.tick()
}

func (m Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance()
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance draws one frame, mirroring a single tick of sim.Runner.
func (m *Preview) advance() {
	if m.done {
		return
	}
	if m.cfg.Frames > 0 && m.frame >= m.cfg.Frames {
		m.done = true
		return
	}

	if m.frame > 0 {
		sim.ApplyTrail(m.canvas, m.cfg)
	}
	start := time.Now()
	more, err := m.scene.Step(m.canvas, m.frame)
	if err != nil {
		m.err = &sim.FrameError{Scene: m.scene.Name(), Frame: m.frame, Wrapped: err}
		m.done = true
		return
	}
	if !more {
		m.done = true
		return
	}

	m.drawTime = appendCapped(m.drawTime, float64(time.Since(start).Microseconds())/1000)
	m.luma = appendCapped(m.luma, metrics.MeanLuma(m.canvas))
	Downsample(m.dots, m.canvas, m.opts.Threshold)
	m.frame++
}

func (m *Preview) reset() {
	m.canvas.Clear(m.cfg.Background)
	if err := m.scene.Setup(m.canvas); err != nil {
		m.err = err
		m.done = true
		return
	}
	m.frame = 0
	m.done = false
	m.err = nil
	m.luma = m.luma[:0]
	m.drawTime = m.drawTime[:0]
	m.dots.Clear()
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m Preview) Frame() int    { return m.frame }
func (m Preview) Done() bool    { return m.done }
func (m Preview) Running() bool { return m.running }
func (m Preview) Err() error    { return m.err }
func (m Preview) Theme() Theme  { return m.theme }
func (m Preview) Dots() *Canvas { return m.dots }

func (m Preview) View() string {
	st := m.styles

	status := st.Running.Render("RUNNING")
	switch {
	case m.err != nil:
		status = st.Done.Render("ERROR: " + m.err.Error())
	case m.done:
		status = st.Done.Render("FINISHED")
	case !m.running:
		status = st.Paused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(st.Title.Render(strings.ToUpper(m.scene.Name())) + "\n")
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.frame))
	row("Canvas", fmt.Sprintf("%dx%d %s", m.canvas.Width(), m.canvas.Height(), m.canvas.Format()))
	row("Trail", m.cfg.Trail.String())
	if len(m.luma) > 0 {
		row("Luminance", fmt.Sprintf("%.1f", m.luma[len(m.luma)-1]))
	}
	if len(m.drawTime) > 0 {
		row("Draw", fmt.Sprintf("%.2fms", m.drawTime[len(m.drawTime)-1]))
		s.WriteString(st.Label.Render("") + Sparkline(m.drawTime, 28) + "\n")
	}
	if m.cfg.Frames > 0 {
		s.WriteString("\n" + st.ProgressBar(float64(m.frame)/float64(m.cfg.Frames), 30) + "\n")
	}

	if len(m.luma) > 1 {
		chart := asciigraph.Plot(m.luma, asciigraph.Height(6), asciigraph.Width(36), asciigraph.Caption("luminance"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	}

	s.WriteString(st.Hint.Render("space pause  n step  r reset  t theme (" + m.theme.Name + ")  q quit"))

	view := st.Frame.Render(strings.TrimSuffix(m.dots.String(), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, view, st.Panel.Render(s.String()))
}

// RunPreview runs the preview full screen until the user quits.
func RunPreview(p Preview) (Preview, error) {
	final, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	if err != nil {
		return p, err
	}
	if fp, ok := final.(Preview); ok {
		return fp, fp.err
	}
	return p, nil
}
