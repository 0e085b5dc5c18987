package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
)

var (
	configFile string
	dbPath     string
	logLevel   string
	quiet      bool

	// run and live
	preset   string
	outDir   string
	dt       float64
	gConst   float64
	tdump    int
	steps    int
	noBanner bool
	seed     int64
	saveYAML string

	// analyze and export
	body    int
	axis    int
	outFile string
	width   int
	height  int

	// sweep
	dts      []float64
	duration float64
	samples  int
)

// main runs the gravsim CLI and exits with status 1 when the selected
// command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "gravitational n-body simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite run catalog")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")

	runCmd := &cobra.Command{
		Use:   "run [input]",
		Short: "run a simulation from an input file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addStateFlags(runCmd)
	runCmd.Flags().StringVarP(&outDir, "out", "o", config.DefaultOutputDir, "output directory for traj.dat and energies.dat")
	runCmd.Flags().BoolVar(&noBanner, "no-banner", false, "omit the quote line in output headers")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the banner (0 picks one)")
	runCmd.Flags().StringVar(&saveYAML, "save-yaml", "", "also write the initial state as yaml")

	liveCmd := &cobra.Command{
		Use:   "live [input]",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addStateFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energies of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export trajectory and energies to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outDir, "out", "o", config.DefaultOutputDir, "output directory")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the orbits of a run as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "file", "f", "", "output file (default <run>.svg)")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 800, "image height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and stability analysis of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&body, "body", 1, "body to analyze (1-based)")
	analyzeCmd.Flags().IntVar(&axis, "axis", 0, "coordinate to analyze (0=x, 1=y, 2=z)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as a JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "file", "f", "", "output file (default stdout)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [input]",
		Short: "measure energy drift against the time step",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVarP(&preset, "preset", "p", "", "built-in initial state")
	sweepCmd.Flags().Float64SliceVar(&dts, "dts", []float64{0.004, 0.002, 0.001, 0.0005}, "time steps to compare")
	sweepCmd.Flags().Float64Var(&duration, "duration", 10, "simulated time per run")
	sweepCmd.Flags().IntVar(&samples, "samples", 100, "snapshots per run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in initial states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-16s %s\n", name, config.PresetDescription(name))
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportSVGCmd, exportJSONCmd, analyzeCmd, sweepCmd, presetsCmd)
	return rootCmd
}

func addStateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "built-in initial state ("+strings.Join(config.ListPresets(), ", ")+")")
	cmd.Flags().Float64Var(&dt, "dt", 0, "override the time step")
	cmd.Flags().Float64Var(&gConst, "g", 0, "override the gravitational constant")
	cmd.Flags().IntVar(&tdump, "tdump", 0, "override the steps per snapshot")
	cmd.Flags().IntVar(&steps, "steps", 0, "override the total number of steps")
}

// loadConfig merges the config file with flags; flags win only when set.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()

	if flags.Changed("preset") {
		cfg.Preset = preset
		cfg.Input = ""
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if flags.Changed("out") {
		cfg.OutputDir = outDir
	}
	if flags.Changed("db") {
		cfg.Database = dbPath
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("g") {
		cfg.G = gConst
	}
	if flags.Changed("tdump") {
		cfg.DumpInterval = tdump
	}
	if flags.Changed("steps") {
		cfg.TotalSteps = steps
	}
	if flags.Changed("no-banner") {
		cfg.Banner = !noBanner
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gravsim",
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if quiet {
		level = log.ErrorLevel
	}
	logger.SetLevel(level)
	return logger, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
