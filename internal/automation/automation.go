// Package automation drives a sandbox controller from YAML scenarios: named
// commands, slider settings, clicks and frame runs, executed headless.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"unicode/utf8"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/metrics"
	"github.com/san-kum/sandbox/internal/sandbox"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyScenario = errors.New("automation: scenario has no steps")
	ErrBadKey        = errors.New("automation: key must be a single character or \"esc\"")
)

// Scenario defines a scripted session.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Mode, when set, is entered before the first step.
	Mode  string         `yaml:"mode"`
	Dt    float64        `yaml:"dt"`
	Steps []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one step. Its parts run in field order: key, command,
// slider settings, click, then Frames ticks.
type ScenarioStep struct {
	Key     string             `yaml:"key"`
	Command string             `yaml:"command"`
	Set     map[string]float64 `yaml:"set"`
	Click   *Point             `yaml:"click"`
	Frames  int                `yaml:"frames"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Result is what a run leaves behind.
type Result struct {
	Frames    int
	Time      float64
	Summaries []metrics.Summary
	Frame     sandbox.Frame
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// RunScenario executes every step against c. dt is used when the scenario
// does not set its own.
func RunScenario(ctx context.Context, sc *Scenario, c *sandbox.Controller, dt float64) (*Result, error) {
	if len(sc.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	if sc.Dt > 0 {
		dt = sc.Dt
	}
	if sc.Mode != "" {
		m, err := sandbox.ParseMode(sc.Mode)
		if err != nil {
			return nil, fmt.Errorf("automation: %w", err)
		}
		if err := c.Invoke("mode_" + m.String()); err != nil {
			return nil, err
		}
	}

	res := &Result{}
	for i, step := range sc.Steps {
		if err := runStep(ctx, step, c, dt, res); err != nil {
			return res, fmt.Errorf("automation: step %d: %w", i+1, err)
		}
	}
	log.Printf("automation: %q finished after %d frames", sc.Name, res.Frames)

	res.Time = c.Time()
	res.Frame = c.Frame()
	for _, name := range c.Metrics().Active() {
		if s, ok := c.Metrics().Summarize(name); ok {
			res.Summaries = append(res.Summaries, s)
		}
	}
	return res, nil
}

func runStep(ctx context.Context, step ScenarioStep, c *sandbox.Controller, dt float64, res *Result) error {
	if step.Key != "" {
		k, err := parseKey(step.Key)
		if err != nil {
			return err
		}
		if err := c.Handle(sandbox.KeyDown{Key: k}); err != nil {
			return err
		}
	}
	if step.Command != "" {
		if err := c.Invoke(step.Command); err != nil {
			return err
		}
	}
	for name, v := range step.Set {
		if err := c.SetParam(name, v); err != nil {
			return err
		}
	}
	if step.Click != nil {
		p := cp.Vector{X: step.Click.X, Y: step.Click.Y}
		if err := c.Handle(sandbox.PointerDown{Pos: p, Button: sandbox.MousePrimary}); err != nil {
			return err
		}
		if err := c.Handle(sandbox.PointerUp{Pos: p, Button: sandbox.MousePrimary}); err != nil {
			return err
		}
	}
	for range step.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Tick(dt); err != nil {
			return err
		}
		res.Frames++
	}
	return nil
}

func parseKey(s string) (rune, error) {
	if s == "esc" {
		return sandbox.KeyEscape, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("%w: %q", ErrBadKey, s)
	}
	return r, nil
}

// ParameterSweep reruns a scenario once per slider value and reports a
// metric at the end of each run. The value is applied after the scenario's
// own steps, followed by Frames more ticks (at least one).
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
	Frames   int
	Metric   string
}

type SweepResult struct {
	ParamValue float64
	Summary    metrics.Summary
}

// RunSweep builds a fresh controller for every value so runs do not share
// state.
func RunSweep(ctx context.Context, sc *Scenario, sweep *ParameterSweep, newController func() (*sandbox.Controller, error), dt float64) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step, got %d", sweep.NumSteps)
	}
	stride := 0.0
	if sweep.NumSteps > 1 {
		stride = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		v := sweep.Min + float64(i)*stride
		c, err := newController()
		if err != nil {
			return results, err
		}

		run := *sc
		run.Steps = append(slices.Clone(sc.Steps), ScenarioStep{
			Set:    map[string]float64{sweep.Param: v},
			Frames: max(1, sweep.Frames),
		})
		if _, err := RunScenario(ctx, &run, c, dt); err != nil {
			return results, fmt.Errorf("sweep %s=%g: %w", sweep.Param, v, err)
		}

		sum, _ := c.Metrics().Summarize(sweep.Metric)
		results = append(results, SweepResult{ParamValue: v, Summary: sum})
		log.Printf("automation: sweep %d/%d: %s=%.4f", i+1, sweep.NumSteps, sweep.Param, v)
	}
	return results, nil
}
