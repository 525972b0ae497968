package viz

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/pidball/internal/panel"
	"github.com/san-kum/pidball/internal/sim"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type harness struct {
	m   Model
	clk *testingclock.FakePassiveClock
	log *test.Hook
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clk := testingclock.NewFakePassiveClock(time.Unix(0, 0))
	s := sim.New(sim.DefaultParams(), sim.WithRandSource(rand.NewPCG(1, 1)))
	return &harness{m: NewModel(s, panel.DefaultSamplingRate, 50, clk, logger), clk: clk, log: hook}
}

func (h *harness) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	next, _ := h.m.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	h.m = m
}

func (h *harness) key(t *testing.T, k string) {
	t.Helper()
	switch k {
	case " ":
		h.send(t, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	case "tab":
		h.send(t, tea.KeyMsg{Type: tea.KeyTab})
	case "up":
		h.send(t, tea.KeyMsg{Type: tea.KeyUp})
	default:
		h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

// frame advances the clock by d and delivers one tick.
func (h *harness) frame(t *testing.T, d time.Duration) {
	t.Helper()
	h.clk.SetTime(h.clk.Now().Add(d))
	h.send(t, TickMsg(h.clk.Now()))
}

func (h *harness) warmup(t *testing.T) {
	t.Helper()
	for i := 0; i < WarmupFrames; i++ {
		h.frame(t, time.Second)
	}
}

func TestWarmupDiscardsFrames(t *testing.T) {
	h := newHarness(t)
	h.warmup(t)

	assert.Zero(t, h.m.sched.Simulated(), "warm-up time is not simulated")
	assert.Equal(t, sim.Snapshot{Position: sim.DefaultBallPosition}, h.m.sim.Snapshot())

	h.frame(t, 100*time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, h.m.sched.Simulated())
	assert.Len(t, h.m.positions, 1)
}

func TestPauseRestartsScheduler(t *testing.T) {
	h := newHarness(t)
	h.warmup(t)
	h.frame(t, 50*time.Millisecond)

	h.key(t, " ")
	h.frame(t, 10*time.Second)
	assert.Len(t, h.m.positions, 1, "paused frames are not recorded")

	h.key(t, " ")
	h.frame(t, 20*time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, h.m.sched.Simulated(), "no catch-up burst after resume")
}

func TestHoldBall(t *testing.T) {
	h := newHarness(t)
	h.warmup(t)

	h.key(t, "h")
	h.frame(t, time.Second)

	assert.True(t, h.m.sim.Params().HoldBall)
	assert.Equal(t, float32(sim.DefaultBallPosition), h.m.snap.Position)
	assert.Equal(t, "hold_ball=true", h.log.LastEntry().Data["msg"])
}

func TestTuneSelectedParameter(t *testing.T) {
	h := newHarness(t)
	h.warmup(t)

	h.key(t, "up")
	h.frame(t, 10*time.Millisecond)
	assert.InDelta(t, sim.DefaultKp*(1+relStep), h.m.sim.Params().Kp, 1e-3)

	for i := 0; i < 3; i++ {
		h.key(t, "tab")
	}
	require.Equal(t, "target", tunables[h.m.selected].name)
	for i := 0; i < 100; i++ {
		h.key(t, "up")
	}
	h.frame(t, 10*time.Millisecond)
	assert.Equal(t, float32(panel.MaxTarget), h.m.sim.Params().Target, "target is clamped by the panel")
}

func TestResetKeepsTuning(t *testing.T) {
	h := newHarness(t)
	h.warmup(t)
	h.key(t, "up")
	h.frame(t, time.Second)

	h.key(t, "r")

	assert.Empty(t, h.m.positions)
	assert.Zero(t, h.m.sched.Simulated())
	assert.Equal(t, sim.Snapshot{Position: sim.DefaultBallPosition}, h.m.snap)
	assert.InDelta(t, sim.DefaultKp*(1+relStep), h.m.sim.Params().Kp, 1e-3)
}

func TestRestartResetsPanel(t *testing.T) {
	h := newHarness(t)
	h.warmup(t)
	h.key(t, "up")
	h.key(t, "h")
	h.frame(t, time.Second)

	h.key(t, "R")
	assert.Equal(t, sim.DefaultParams(), h.m.sim.Params())
	assert.Equal(t, float32(sim.DefaultKp), h.m.panel.Kp.Get())
	assert.False(t, h.m.panel.HoldBall.Get())

	h.frame(t, 10*time.Millisecond)
	assert.Equal(t, sim.DefaultParams(), h.m.sim.Params(), "the fresh panel sends nothing")
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.m.View(), "WARMING UP")

	h.warmup(t)
	for i := 0; i < 5; i++ {
		h.frame(t, 20*time.Millisecond)
	}

	out := h.m.View()
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "max_force_rate")
	assert.Contains(t, out, "position / target")

	h.key(t, "t")
	assert.Equal(t, ThemeRetro.Name, h.m.theme.Name)
	h.key(t, "?")
	assert.True(t, strings.Contains(h.m.View(), "KEYBOARD SHORTCUTS"))
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(-1, 3)
	c.Set(8, 0)

	assert.Equal(t, rune(brailleBlank|0x1), c.Grid[0][0])
	assert.Equal(t, rune(brailleBlank|0x80), c.Grid[1][3])

	c.Clear()
	c.HLine(0, 7, 0, 2)
	assert.Equal(t, "⠉⠀⠉⠀\n⠀⠀⠀⠀\n", c.String())
}
