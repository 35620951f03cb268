package automation

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/anomaly/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Pairs = 2
	cfg.Engine.Backend = "serial"
	return cfg
}

const scenarioYAML = `
name: warmup
description: pair then quarks
steps:
  - preset: pair
    frames: 10
    save_as: pair-run
  - integrator: leapfrog
    frames: 5
    params:
      dt: 0.005
      pairs: 3
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "warmup", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, 0.005, sc.Steps[1].Params["dt"])

	_, err = LoadScenario(writeScenario(t, "name: empty\n"))
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	var out bytes.Buffer
	results, err := RunScenario(context.Background(), sc, baseConfig(), &out)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 10, results[0].Result.Frames)
	assert.Equal(t, 1, results[0].Config.Pairs)

	assert.Equal(t, 5, results[1].Result.Frames)
	assert.Equal(t, "leapfrog", results[1].Config.Engine.Integrator)
	assert.Equal(t, 3, results[1].Config.Pairs)
	assert.InDelta(t, 0.025, results[1].Result.Time, 1e-12)

	assert.True(t, strings.Contains(out.String(), "Running step 1/2: pair-run"))
	assert.True(t, strings.Contains(out.String(), "Running step 2/2: base"))
}

func TestRunScenarioStopsAtBadStep(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Frames: 2},
		{Preset: "nebula", Frames: 2},
	}}
	results, err := RunScenario(context.Background(), sc, baseConfig(), nil)
	assert.ErrorContains(t, err, "step 2")
	assert.Len(t, results, 1)
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{ParamName: "softening", ParamMin: 0.1, ParamMax: 0.5, NumSteps: 3, Frames: 5}
	results, err := RunSweep(context.Background(), sweep, baseConfig(), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, want := range []float64{0.1, 0.3, 0.5} {
		assert.InDelta(t, want, results[i].ParamValue, 1e-12)
		assert.True(t, results[i].Stable)
	}

	_, err = RunSweep(context.Background(), &ParameterSweep{ParamName: "dt", NumSteps: 1}, baseConfig(), nil)
	assert.Error(t, err)

	_, err = RunSweep(context.Background(), &ParameterSweep{ParamName: "mass", NumSteps: 2}, baseConfig(), nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunMonteCarlo(t *testing.T) {
	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{NumTrials: 4, Frames: 5, Seed: 10}, baseConfig())
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, i, r.TrialID)
		assert.Equal(t, int64(10+i), r.Seed)
	}

	stableCount, unstableCount := MonteCarloStats(results)
	assert.Equal(t, 4, stableCount)
	assert.Zero(t, unstableCount)
}
