package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/sandbox/internal/automation"
	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/material"
	"github.com/san-kum/sandbox/internal/metrics"
	"github.com/san-kum/sandbox/internal/sandbox"
	"github.com/san-kum/sandbox/internal/tui"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	mode       string
	logFile    string
	seed       int64

	actions  []string
	scenario string
	frames   int
	metric   string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "sandbox",
		Short:        "interactive multi-domain physics sandbox",
		SilenceUsage: true,
		RunE:         runInteractive,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "", "starting mode (mechanics, electricity, fluid, thermal)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "random seed for particle jitter")

	runCmd := &cobra.Command{
		Use:   "run [mode]",
		Short: "run the sandbox headless and plot a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().StringSliceVar(&actions, "action", nil, "command to invoke before running (repeatable)")
	runCmd.Flags().StringVar(&scenario, "scenario", "", "scenario file (yaml)")
	runCmd.Flags().IntVar(&frames, "frames", 600, "frames to run after the actions")
	runCmd.Flags().StringVar(&metric, "metric", "", "metric to plot (default: first recorded)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "rerun a scenario across a range of slider values",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "slider parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", 60, "frames to run after each value is set")
	sweepCmd.Flags().StringVar(&metric, "metric", metrics.Velocity, "metric to report")
	sweepCmd.MarkFlagRequired("param")

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list the material table",
		RunE:  listMaterials,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the effective config to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	})

	rootCmd.AddCommand(runCmd, sweepCmd, materialsCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies the preset, then the config file, then explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if mode != "" {
		cfg.Mode = mode
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

func setupLogging(fallback io.Writer) (func(), error) {
	if logFile == "" {
		log.SetOutput(fallback)
		return func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}

func newController(cfg *config.Config) (*sandbox.Controller, error) {
	materials := material.Default()
	state, err := sandbox.NewSession(cfg, materials)
	if err != nil {
		return nil, err
	}
	return sandbox.NewController(state, sandbox.NewRegistry(materials))
}

func runInteractive(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c, err := newController(cfg)
	if err != nil {
		return err
	}
	return tui.Run(c, cfg.Dt)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c, err := newController(cfg)
	if err != nil {
		return err
	}

	sc := &automation.Scenario{Name: "cli"}
	if scenario != "" {
		if sc, err = automation.LoadScenario(scenario); err != nil {
			return err
		}
	}
	if len(args) > 0 {
		sc.Mode = args[0]
	}
	for _, a := range actions {
		sc.Steps = append(sc.Steps, automation.ScenarioStep{Command: a})
	}
	if frames > 0 {
		sc.Steps = append(sc.Steps, automation.ScenarioStep{Frames: frames})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := automation.RunScenario(ctx, sc, c, cfg.Dt)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d frames, %.2fs simulated\n\n", res.Frame.Mode, res.Frames, res.Time)

	name := metric
	if name == "" && len(res.Summaries) > 0 {
		name = res.Summaries[0].Name
	}
	if s, ok := c.Metrics().Series(name); ok && s.Len() > 1 {
		graph := asciigraph.Plot(s.Values(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name))
		fmt.Println(graph)
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tLAST\tMEAN\tMIN\tMAX")
	for _, s := range res.Summaries {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", s.Name, s.Last, s.Mean, s.Min, s.Max)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := &automation.ParameterSweep{
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Frames:   frames,
		Metric:   metric,
	}
	results, err := automation.RunSweep(ctx, sc, sweep, func() (*sandbox.Controller, error) {
		return newController(cfg)
	}, cfg.Dt)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tMEAN\tMIN\tMAX\n", strings.ToUpper(sweepParam), strings.ToUpper(metric))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.ParamValue, r.Summary.Last, r.Summary.Mean, r.Summary.Min, r.Summary.Max)
	}
	return w.Flush()
}

func listMaterials(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDENSITY\tFRICTION\tELASTICITY\tCONDUCTIVITY")
	for _, m := range material.Default().All() {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			m.Name, m.Kind, m.Density, m.Friction, m.Elasticity, m.ThermalConductivity)
	}
	return w.Flush()
}
