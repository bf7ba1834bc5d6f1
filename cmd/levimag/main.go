package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tex6298/levimage-sim/internal/analysis"
	"github.com/Tex6298/levimage-sim/internal/config"
	"github.com/Tex6298/levimage-sim/internal/levi"
	"github.com/Tex6298/levimage-sim/internal/metrics"
	"github.com/Tex6298/levimage-sim/internal/sim"
	"github.com/Tex6298/levimage-sim/internal/storage"
	"github.com/Tex6298/levimage-sim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	duration   float64
	dt         float64
	target     float64
	brakeAt    float64
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "levimag",
		Short: "levitated magnet pulsed-drive rotor simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "named parameter preset")

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "run a spin-up to target and store telemetry",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (default from config)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (default from config)")
	runCmd.Flags().Float64Var(&target, "target", 0, "target rpm (default from config)")
	runCmd.Flags().Float64Var(&brakeAt, "brake-at", 0, "issue brake at this time, 0 to never")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live view with operator keys",
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "timestep (default from config)")
	liveCmd.Flags().Float64Var(&target, "target", 0, "target rpm (default from config)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	adviseCmd := &cobra.Command{
		Use:   "advise",
		Short: "check drive and thermal feasibility of a parameter set",
		RunE:  runAdvise,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in parameter presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(runCmd, liveCmd, adviseCmd, presetsCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the run configuration: preset, then config file,
// then explicit flags, later sources winning.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		c := config.GetPreset(preset)
		if c == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = c
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}

	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("dt") {
		cfg.Params.Dt = dt
	}
	if cmd.Flags().Changed("target") {
		cfg.Params.RPMTarget = target
	}

	return cfg, cfg.Params.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	name := cfg.Name
	if len(args) > 0 {
		name = args[0]
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	drv, err := sim.New(cfg.Params)
	if err != nil {
		return err
	}
	drv.AddMetric(metrics.NewSpinupTime())
	drv.AddMetric(metrics.NewControlEffort())
	drv.AddMetric(metrics.NewPeakTemperature())
	drv.AddMetric(metrics.NewLossEnergy())

	drv.SubmitCommand(levi.CommandStart)
	if brakeAt > 0 {
		drv.AddObserver(&commandAt{drv: drv, at: brakeAt, cmd: levi.CommandBrake})
	}

	fmt.Printf("running %s for %.1f s (dt=%g)...\n", name, cfg.Duration, cfg.Params.Dt)
	start := time.Now()

	result, err := drv.Run(context.Background(), cfg.Duration)
	if err != nil {
		return err
	}

	runID, err := st.Save(name, cfg.Params, cfg.Duration, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d, final mode: %s\n", result.Ticks, drv.Mode())
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

// commandAt submits a command once simulated time passes a threshold.
type commandAt struct {
	drv  *sim.Simulator
	at   float64
	cmd  levi.Command
	done bool
}

func (c *commandAt) OnSample(s levi.Telemetry) {
	if !c.done && s.Time >= c.at {
		c.drv.SubmitCommand(c.cmd)
		c.done = true
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	drv, err := sim.New(cfg.Params)
	if err != nil {
		return err
	}
	return viz.Run(drv, frameRate)
}

func runAdvise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	r := analysis.Advise(cfg.Params, 0, cfg.Params.TAmb)

	fmt.Printf("max drive torque: %.4g N·m\n", r.TauMax)
	fmt.Printf("base acceleration: %.4g rad/s²\n", r.Alpha0)
	fmt.Printf("loss torque at target: %.4g N·m\n", r.TauLossAtTarget)
	fmt.Printf("time to target (lossless): %.4g s\n", r.TimeToTarget)
	fmt.Printf("thermal equilibrium at max drive: %.2f K (limit %.2f K)\n",
		r.TEquilibrium, cfg.Params.TLimit)
	if r.TimeToTLimit > 0 {
		fmt.Printf("time to thermal limit: %.4g s\n", r.TimeToTLimit)
	}

	if len(r.Warnings) == 0 {
		fmt.Println("\nno issues detected")
		return nil
	}
	fmt.Println("\nwarnings:")
	for _, w := range r.Warnings {
		fmt.Printf("  - %s\n", w)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWHEN\tTICKS\tFINAL MODE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Name, r.Timestamp.Format(time.RFC3339), r.Ticks, r.FinalMode)
	}
	return w.Flush()
}
