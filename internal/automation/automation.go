// Package automation runs scripted sequences of headless runs: YAML
// scenarios, one-parameter sweeps and Monte Carlo seed studies.
package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/anomaly/internal/config"
	"github.com/san-kum/anomaly/internal/dynamo"
	"github.com/san-kum/anomaly/internal/experiment"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset, overrides by parameter name and a
// frame count.
type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Backend    string             `yaml:"backend"`
	Frames     int                `yaml:"frames"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult pairs a finished step with the config it ran.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *dynamo.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("automation: scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// StepConfig resolves a step against base: the preset replaces base when
// named, then engine names and parameters override it.
func StepConfig(step ScenarioStep, base *config.Config) (*config.Config, error) {
	cfg := base.Clone()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", step.Preset, config.ListPresets())
		}
	}
	if step.Integrator != "" {
		cfg.Engine.Integrator = step.Integrator
	}
	if step.Backend != "" {
		cfg.Engine.Backend = step.Backend
	}
	if err := cfg.SetParams(step.Params); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order. Progress goes to out, which may
// be nil.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, out io.Writer) ([]StepResult, error) {
	if out == nil {
		out = io.Discard
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Fprintf(out, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), stepName(step))

		cfg, err := StepConfig(step, base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := experiment.New(cfg).Run(ctx, step.Frames)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

func stepName(step ScenarioStep) string {
	if step.SaveAs != "" {
		return step.SaveAs
	}
	if step.Preset != "" {
		return step.Preset
	}
	return "base"
}

// ParameterSweep runs one config parameter across an even range.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Drift      float64
	Spread     float64
	Stable     bool
}

// RunSweep executes a parameter sweep over copies of base.
func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config, out io.Writer) ([]SweepResult, error) {
	if out == nil {
		out = io.Discard
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("automation: sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := experiment.New(cfg).Run(ctx, sweep.Frames)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Drift:      result.Metrics["energy_drift"],
			Spread:     result.Metrics["spread"],
			Stable:     stable(result),
		})

		fmt.Fprintf(out, "Sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig runs NumTrials copies of a config, each with its own
// seed starting at Seed.
type MonteCarloConfig struct {
	NumTrials int
	Frames    int
	Seed      int64
}

// MonteCarloResult holds the outcome of one trial.
type MonteCarloResult struct {
	TrialID int
	Seed    int64
	Drift   float64
	Stable  bool
}

// RunMonteCarlo runs the trials in parallel.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, base *config.Config) ([]MonteCarloResult, error) {
	results, err := dynamo.RunEnsemble(ctx, mc.NumTrials, mc.Frames, func(trial int) (*dynamo.Runner, error) {
		cfg := base.Clone()
		cfg.Seed = mc.Seed + int64(trial)
		return experiment.New(cfg).Build(nil)
	})
	if err != nil {
		return nil, err
	}

	out := make([]MonteCarloResult, len(results))
	for i, res := range results {
		out[i] = MonteCarloResult{
			TrialID: i,
			Seed:    mc.Seed + int64(i),
			Drift:   res.Metrics["energy_drift"],
			Stable:  stable(res),
		}
	}
	return out, nil
}

// stable reports whether a run stayed finite and inside the stability
// radius for every frame.
func stable(res *dynamo.Result) bool {
	return len(res.Errors) == 0 && res.Metrics["stability"] == 1
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
