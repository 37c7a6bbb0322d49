package viz

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/wavesim/internal/metrics"
	"github.com/san-kum/wavesim/internal/wave"
)

const historyCapacity = 600

// View modes of the live model, cycled with "v".
const (
	ViewField = iota
	ViewIntensity
	ViewContour
	ViewSurface
	numViews
)

var viewNames = [numViews]string{"field", "intensity", "contour", "surface"}

// SimulationFactory builds the simulator shown by the live view. It is
// called again on reset.
type SimulationFactory func() (*wave.Simulator, error)

type LiveOptions struct {
	Title        string
	Cols, Rows   int // terminal cells used by the field panel
	StepsPerTick int
	Brightness   float64
	Colormaps    []*Colormap // cycled with "c"; the first one is used for GIFs
	Intensity    *Colormap
	GIFPath      string
}

type TickMsg time.Time

// LiveModel is a bubbletea model that steps a simulation and draws it in
// the terminal.
type LiveModel struct {
	opts   LiveOptions
	build  SimulationFactory
	sim    *wave.Simulator
	vis    *Visualizer
	energy *metrics.Energy

	energyHistory []float64
	running       bool
	view          int
	cmap          int
	canvas        *Canvas
	camera        *Camera
	recorder      *Recorder
	recording     bool
	showHelp      bool
	status        string
	err           error
}

// NewLiveModel builds the first simulator immediately so configuration
// errors surface before the terminal is taken over.
func NewLiveModel(build SimulationFactory, opts LiveOptions) (LiveModel, error) {
	if len(opts.Colormaps) == 0 {
		return LiveModel{}, fmt.Errorf("viz: live view needs at least one colormap")
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	opts.StepsPerTick = max(opts.StepsPerTick, 1)
	if opts.Brightness <= 0 {
		opts.Brightness = 1
	}
	if opts.Intensity == nil {
		opts.Intensity = opts.Colormaps[0]
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "wavesim.gif"
	}

	m := LiveModel{
		opts:     opts,
		build:    build,
		vis:      NewVisualizer(opts.Colormaps[0], opts.Intensity),
		running:  true,
		canvas:   NewCanvas(opts.Cols, opts.Rows),
		camera:   NewCamera(),
		recorder: NewRecorder(opts.Colormaps[0].Palette(), 4, historyCapacity),
	}
	if err := m.reset(); err != nil {
		return LiveModel{}, err
	}
	return m, nil
}

func (m LiveModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
				m.running = false
			}
		case "v":
			m.view = (m.view + 1) % numViews
		case "c":
			m.cmap = (m.cmap + 1) % len(m.opts.Colormaps)
			m.vis.FieldColormap = m.opts.Colormaps[m.cmap]
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *LiveModel) reset() error {
	sim, err := m.build()
	if err != nil {
		return err
	}
	m.energy = metrics.NewEnergy()
	sim.AddMetric(m.energy)
	m.sim = sim
	m.vis.Reset()
	m.energyHistory = m.energyHistory[:0]
	m.err = nil
	return nil
}

// step advances the simulation by one tick.
func (m *LiveModel) step() {
	for i := 0; i < m.opts.StepsPerTick; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			m.running = false
			return
		}
		m.vis.Update(m.sim)
	}
	if err := m.sim.CheckStable(); err != nil {
		m.err = err
		m.running = false
		return
	}

	m.energyHistory = append(m.energyHistory, m.energy.Last())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	if m.recording {
		m.recorder.Add(m.vis.RenderFrame(m.sim, m.opts.Brightness))
	}
}

func (m *LiveModel) toggleRecording() {
	if !m.recording {
		m.recorder.Reset()
		m.recording = true
		m.status = "recording"
		return
	}
	m.recording = false
	if err := m.recorder.Save(m.opts.GIFPath); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.opts.GIFPath)
}

// Simulator returns the simulator currently shown.
func (m LiveModel) Simulator() *wave.Simulator { return m.sim }

// View renders the TUI interface.
func (m LiveModel) View() string {
	var panel string
	switch m.view {
	case ViewField:
		panel = m.blocks(m.vis.RenderFrame(m.sim, m.opts.Brightness))
	case ViewIntensity:
		panel = m.blocks(m.vis.RenderIntensity(m.sim.Shape(), m.opts.Brightness))
	case ViewContour:
		m.canvas.Clear()
		m.canvas.PlotThreshold(m.sim.Field(), 0.1/m.opts.Brightness)
		panel = m.canvas.String()
	case ViewSurface:
		m.canvas.Clear()
		stride := max(m.sim.Shape().Width/48, 1)
		RenderSurface(m.canvas, m.sim.Field(), m.camera, stride, 0.5*m.opts.Brightness)
		panel = m.canvas.String()
	}

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "wavesim"
	}
	s.WriteString(headerStyle.Render(strings.ToUpper(title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusRecording.Render("ERROR") + "\n" + valueStyle.Render(m.err.Error()) + "\n\n")
	case m.recording:
		s.WriteString(StatusRecording.Render(fmt.Sprintf("REC %d", m.recorder.Len())) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	shape := m.sim.Shape()
	rows := [][2]string{
		{"Grid", shape.String()},
		{"Time", fmt.Sprintf("%.0f", m.sim.Time())},
		{"Energy", fmt.Sprintf("%.4g", m.energy.Last())},
		{"Max |u|", fmt.Sprintf("%.4f", m.sim.Field().MaxAbs())},
		{"Backend", m.sim.Backend().Name()},
		{"View", viewNames[m.view]},
		{"Colormap", m.vis.FieldColormap.Name},
	}
	for _, r := range rows {
		s.WriteString(labelStyle.Render(r[0]) + valueStyle.Render(r[1]) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nV:View C:Colormap G:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(panel), statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Rebuild the scene        ║
║  V        - Cycle view               ║
║  C        - Cycle field colormap     ║
║  G        - Toggle GIF recording     ║
║  x/X z/Z  - Rotate surface view      ║
║  +/-      - Zoom surface view        ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// blocks downsamples img onto the panel, two pixels per terminal cell.
func (m LiveModel) blocks(img *image.RGBA) string {
	b := img.Bounds()
	cols, rows := m.opts.Cols, m.opts.Rows
	var s strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := b.Min.X + c*b.Dx()/cols
			top := b.Min.Y + (2*r)*b.Dy()/(2*rows)
			bottom := b.Min.Y + (2*r+1)*b.Dy()/(2*rows)
			t, _ := colorful.MakeColor(img.RGBAAt(x, top))
			bt, _ := colorful.MakeColor(img.RGBAAt(x, bottom))
			s.WriteString(halfBlock(t, bt))
		}
		s.WriteByte('\n')
	}
	return s.String()
}

// RunLive takes over the terminal until the user quits.
func RunLive(build SimulationFactory, opts LiveOptions) error {
	m, err := NewLiveModel(build, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
