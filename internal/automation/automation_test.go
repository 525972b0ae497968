package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pidball/internal/config"
	"github.com/san-kum/pidball/internal/panel"
	"github.com/san-kum/pidball/internal/sim"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventMessages(t *testing.T) {
	hold := true
	ev := Event{
		Set:    map[string]float32{"kp": 80, "kd": 10},
		Hold:   &hold,
		Action: "reset",
	}

	msgs, err := ev.Messages()
	require.NoError(t, err)
	assert.Equal(t, []sim.Message{sim.SetKd(10), sim.SetKp(80), sim.SetHoldBall(true), sim.Reset{}}, msgs)
}

func TestEventMessages_Errors(t *testing.T) {
	_, err := Event{Action: "explode"}.Messages()
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = Event{Set: map[string]float32{"kx": 1}}.Messages()
	assert.ErrorIs(t, err, sim.ErrUnknownParam)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.yaml")
	data := []byte(`name: step
preset: moon
duration: 12
events:
  - at: 8
    action: restart
  - at: 4
    set:
      target: 0.6
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	require.Len(t, sc.Events, 2)
	assert.Equal(t, 4.0, sc.Events[0].At)
	assert.Equal(t, "restart", sc.Events[1].Action)

	cfg, err := sc.Config()
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.Duration)
	assert.Equal(t, float32(-1.62), cfg.Params.Gravitation)
}

func TestLoadScenario_BadEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  - at: 1\n    action: jump\n"), 0644))

	_, err := LoadScenario(path)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestLoadScenario_OutOfBoundsSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	data := []byte(`events:
  - at: 1
    set:
      max_force: -5
      noise: -1
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err := LoadScenario(path)
	assert.ErrorIs(t, err, panel.ErrParameterBounds)
	assert.ErrorIs(t, err, config.ErrParameterBounds)
}

func TestEventMessages_ClampsTarget(t *testing.T) {
	msgs, err := Event{Set: map[string]float32{"target": 0.95, "max_force_rate": 0}}.Messages()
	require.NoError(t, err)
	assert.Equal(t, []sim.Message{sim.SetMaxForceRate(0), sim.SetTarget(panel.MaxTarget)}, msgs)
}

func TestRunScenario_RejectsBadEvent(t *testing.T) {
	log, hook := test.NewNullLogger()
	sc := &Scenario{Duration: 1, Events: []Event{
		{At: 0, Set: map[string]float32{"kp": 10}},
		{At: 0.5, Set: map[string]float32{"max_force": -5}},
	}}

	_, result, err := RunScenario(context.Background(), sc, log)
	assert.ErrorIs(t, err, panel.ErrParameterBounds)
	assert.Nil(t, result)
	assert.Empty(t, hook.Entries, "no event fires when one is invalid")
}

func TestRunScenario_TargetStep(t *testing.T) {
	log, hook := test.NewNullLogger()
	sc := &Scenario{
		Name:     "step",
		Duration: 20,
		Seed:     3,
		Events:   []Event{{At: 10, Set: map[string]float32{"target": 0.7}}},
	}

	_, result, err := RunScenario(context.Background(), sc, log)
	require.NoError(t, err)
	require.NotEmpty(t, result.Samples)

	var before float32
	for _, s := range result.Samples {
		if s.Time < 9.9 {
			before = s.Position
		}
	}
	assert.InDelta(t, 0.5, before, 0.01)

	last := result.Samples[len(result.Samples)-1]
	assert.Equal(t, float32(0.7), last.Target)
	assert.InDelta(t, 0.7, last.Position, 0.02)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "scenario event", hook.LastEntry().Message)
	assert.Equal(t, "step", hook.LastEntry().Data["scenario"])
}

func TestRunScenario_HoldFromStart(t *testing.T) {
	log, _ := test.NewNullLogger()
	hold := true
	sc := &Scenario{Duration: 2, Events: []Event{{At: 0, Hold: &hold}}}

	_, result, err := RunScenario(context.Background(), sc, log)
	require.NoError(t, err)
	for _, s := range result.Samples {
		require.Equal(t, float32(sim.DefaultBallPosition), s.Position)
	}
}

func TestRunScenario_Reset(t *testing.T) {
	log, _ := test.NewNullLogger()
	sc := &Scenario{Duration: 8, Seed: 1, Events: []Event{{At: 5, Action: "reset"}}}

	_, result, err := RunScenario(context.Background(), sc, log)
	require.NoError(t, err)

	dropped := false
	for _, s := range result.Samples {
		if s.Time > 5 && s.Position < 0.3 {
			dropped = true
			break
		}
	}
	assert.True(t, dropped, "reset should put the ball back at the bottom")
}
