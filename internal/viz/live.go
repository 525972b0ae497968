package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pidball/internal/panel"
	"github.com/san-kum/pidball/internal/sim"
	"github.com/san-kum/pidball/internal/timing"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	columnWidth  = 24
	columnHeight = 20
	// columnTop is the highest position shown, in meters.
	columnTop = 1.1
	// historySeconds of frames are kept for the graphs.
	historySeconds = 10

	// WarmupFrames are discarded before the scheduler starts.
	WarmupFrames = 10
)

type TickMsg time.Time

// Model contains the simulation, the driver-side panel and the display
// history.
type Model struct {
	sim   *sim.Simulation
	panel *panel.Panel
	sched *timing.Scheduler
	log   logrus.FieldLogger

	samplingRate uint32
	frameRate    int
	frame        int
	running      bool

	snap      sim.Snapshot
	positions []float64
	targets   []float64
	forces    []float64
	capacity  int

	selected int
	theme    Theme
	style    styles
	showHelp bool
	canvas   *Canvas
}

// NewModel wraps s for interactive use. clk drives the step scheduler.
func NewModel(s *sim.Simulation, samplingRate uint32, frameRate int, clk clock.PassiveClock, log logrus.FieldLogger) Model {
	frameRate = max(frameRate, 1)
	capacity := historySeconds * frameRate
	return Model{
		sim:          s,
		panel:        panel.New(s.Params(), samplingRate),
		sched:        timing.NewScheduler(clk),
		log:          log,
		samplingRate: samplingRate,
		frameRate:    frameRate,
		running:      true,
		snap:         s.Snapshot(),
		positions:    make([]float64, 0, capacity),
		targets:      make([]float64, 0, capacity),
		forces:       make([]float64, 0, capacity),
		capacity:     capacity,
		theme:        ThemeCyberpunk,
		style:        ThemeCyberpunk.styles(),
		canvas:       NewCanvas(columnWidth, columnHeight),
	}
}

// WithTheme returns a copy of m rendered with t.
func (m Model) WithTheme(t Theme) Model {
	m.theme, m.style = t, t.styles()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running {
				// no burst of steps for the paused interval
				m.sched.Restart()
			}
		case "h":
			m.panel.HoldBall.Set(!m.panel.HoldBall.Get())
		case "r":
			m.sim.Config(sim.Reset{})
			m.clear()
		case "R":
			m.sim.Config(sim.Restart{})
			m.panel = panel.New(m.sim.Params(), m.samplingRate)
			m.clear()
		case "tab":
			m.selected = (m.selected + 1) % len(tunables)
		case "shift+tab":
			m.selected = (m.selected + len(tunables) - 1) % len(tunables)
		case "up", "k":
			tunables[m.selected].adjust(m.panel, 1)
		case "down", "j":
			tunables[m.selected].adjust(m.panel, -1)
		case "t":
			m = m.WithTheme(m.theme.next())
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		switch {
		case m.frame < WarmupFrames:
			m.frame++
			if m.frame == WarmupFrames {
				m.sched.Restart()
			}
		case m.running:
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step runs one frame: flush edits, run the owed steps, record.
func (m *Model) step() {
	m.panel.Flush(configLogger{sim: m.sim, log: m.log})

	sampling := m.panel.SamplingDuration()
	n := m.sched.StepCount(sampling)
	m.snap = m.sim.Step(n, sampling)

	m.positions = push(m.positions, float64(m.snap.Position), m.capacity)
	m.targets = push(m.targets, float64(m.panel.Target.Get()), m.capacity)
	m.forces = push(m.forces, float64(m.snap.Force), m.capacity)
}

func push(buf []float64, v float64, capacity int) []float64 {
	buf = append(buf, v)
	if len(buf) > capacity {
		buf = buf[1:]
	}
	return buf
}

// clear drops the history and restarts the scheduler after Reset or Restart.
func (m *Model) clear() {
	m.positions = m.positions[:0]
	m.targets = m.targets[:0]
	m.forces = m.forces[:0]
	m.snap = m.sim.Snapshot()
	m.sched.Restart()
}

// configLogger forwards panel messages to the simulation and logs them.
type configLogger struct {
	sim *sim.Simulation
	log logrus.FieldLogger
}

func (c configLogger) Config(msg sim.Message) {
	c.log.WithField("msg", msg.String()).Debug("config")
	c.sim.Config(msg)
}

func (m Model) status() string {
	switch {
	case m.frame < WarmupFrames:
		return m.style.paused.Render("WARMING UP")
	case !m.running:
		return m.style.paused.Render("PAUSED")
	case m.panel.HoldBall.Get():
		return m.style.paused.Render("HOLDING")
	}
	return m.style.running.Render("RUNNING")
}

func (m Model) View() string {
	m.draw()
	st := m.style
	columnView := st.column.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render("MAGLEV PID") + "\n")
	s.WriteString(m.status() + "\n\n")

	field := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	field("Time", fmt.Sprintf("%.2fs", m.sched.Simulated().Seconds()))
	field("Position", fmt.Sprintf("%+.4f m", m.snap.Position))
	field("Velocity", fmt.Sprintf("%+.4f m/s", m.snap.Velocity))
	field("Force", fmt.Sprintf("%+.2f N", m.snap.Force))

	ratio := 0.0
	if maxForce := m.panel.MaxForce.Get(); maxForce > 0 {
		ratio = math.Abs(float64(m.snap.Force / maxForce))
	}
	field("Saturation", st.gauge(ratio, 20))

	p, i, d := m.sim.Terms()
	field("P / I / D", fmt.Sprintf("%.2f / %.2f / %.2f", p, i, d))

	if len(m.positions) > 1 {
		chart := asciigraph.PlotMany(
			[][]float64{m.positions, m.targets},
			asciigraph.Height(6),
			asciigraph.Width(40),
			asciigraph.Precision(3),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
			asciigraph.Caption("position / target"),
		)
		s.WriteString(st.graph.Render(chart) + "\n")
		chart = asciigraph.Plot(
			m.forces,
			asciigraph.Height(4),
			asciigraph.Width(40),
			asciigraph.SeriesColors(asciigraph.Yellow),
			asciigraph.Caption("force"),
		)
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	for i, t := range tunables {
		line := fmt.Sprintf("%-15s %10s", t.name, t.format(m.panel))
		if i == m.selected {
			s.WriteString(st.selected.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.UnsetWidth().Render(line) + "\n")
		}
	}
	s.WriteString(fmt.Sprintf("  %-15s %10t\n", "hold_ball", m.panel.HoldBall.Get()))

	s.WriteString(st.help.Render("─────────────────────\nTab:Select ↑↓:Tune H:Hold\nSP:Pause r:Reset R:Restart\nT:Theme ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, columnView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Tab/S-Tab - Select parameter        ║
║  Up/K      - Increase parameter      ║
║  Down/J    - Decrease parameter      ║
║  H         - Hold / drop the ball    ║
║  Space     - Pause/Resume            ║
║  r         - Reset, keep tuning      ║
║  R         - Restart with defaults   ║
║  T         - Cycle themes            ║
║  ?         - Toggle this help        ║
║  Q         - Quit                    ║
╚══════════════════════════════════════╝`

// row maps a position in meters to a canvas sub-pixel row.
func (m *Model) row(pos float64) int {
	return int((columnTop - pos) / columnTop * float64(m.canvas.Rows()-1))
}

// draw renders the column: floor, inductor, dashed target line and ball.
func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	cx := c.Cols() / 2

	c.HLine(0, c.Cols()-1, m.row(0), 0)

	ind := m.row(float64(m.sim.Params().InductorPosition))
	c.FillRect(cx-8, ind-3, cx+8, ind)

	c.HLine(2, c.Cols()-3, m.row(float64(m.panel.Target.Get())), 2)

	c.FillCircle(cx, m.row(float64(m.snap.Position)), 3)
}
