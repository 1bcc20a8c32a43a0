package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/raposda-sim/raposda-sim/sim/array"
	"github.com/raposda-sim/raposda-sim/sim/trace"
	"github.com/raposda-sim/raposda-sim/sim/workload"
)

var (
	// array shape and policies; each overrides the config file only when set
	configPath      string  // YAML array config
	disks           int     // Number of data disks
	replicas        int     // Copies per block
	cacheMemories   int     // Number of cache nodes
	assignorName    string  // Owner disk to cache node strategy
	overflowPolicy  string  // Cache overflow policy
	powerPolicy     string  // Disk power policy
	proactiveSpinUp bool    // Wake max-buffer disks before they are drained
	horizon         float64 // Simulated seconds; 0 runs to completion
	traceLevel      string  // Decision trace verbosity
	logLevel        string  // Log verbosity level

	// workload source: a CSV trace, or a generator config, or generator flags
	tracePath          string
	workloadConfigPath string
	numRequests        int
	rate               float64
	readFraction       float64
	blockSpace         int64
	zipfS              float64
	seed               int64
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "raposda-sim",
	Short: "Discrete-event simulator for power-aware, cache-fronted disk arrays",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyEnvDefaults(cmd)
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes the simulation using parameters from the config file and flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the array simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		requests, err := buildWorkload(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Starting simulation: %d disks, %d replicas, %d cache nodes (%s, %s), %d requests",
			cfg.Disks, cfg.Replicas, cfg.CacheMemories, cfg.Assignor, cfg.OverflowPolicy, len(requests))
		startTime := time.Now()

		tr := trace.NewSimulationTrace(trace.TraceLevel(cfg.TraceLevel))
		s, err := array.NewSimulator(cfg, tr)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		s.Inject(requests)
		m := s.Run()
		m.Print(cmd.OutOrStdout())
		if tr != nil {
			printTraceSummary(cmd, trace.Summarize(tr))
		}

		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// genTraceCmd writes a synthetic workload to CSV for later replay
var genTraceCmd = &cobra.Command{
	Use:   "gen-trace <out.csv>",
	Short: "Generate a synthetic block trace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		requests, err := buildWorkload(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := workload.WriteTrace(args[0], requests); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Wrote %d requests to %s", len(requests), args[0])
	},
}

// buildConfig starts from the config file, or the defaults, and applies every
// flag the user set explicitly.
func buildConfig(cmd *cobra.Command) (array.Config, error) {
	cfg := array.DefaultConfig()
	if configPath != "" {
		loaded, err := array.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("disks") {
		cfg.Disks = disks
	}
	if flags.Changed("replicas") {
		cfg.Replicas = replicas
	}
	if flags.Changed("cache-memories") {
		cfg.CacheMemories = cacheMemories
	}
	if flags.Changed("assignor") {
		cfg.Assignor = assignorName
	}
	if flags.Changed("overflow-policy") {
		cfg.OverflowPolicy = overflowPolicy
	}
	if flags.Changed("power-policy") {
		cfg.PowerPolicy = powerPolicy
	}
	if flags.Changed("proactive-spin-up") {
		cfg.ProactiveSpinUp = proactiveSpinUp
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("trace-level") {
		cfg.TraceLevel = traceLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildWorkload replays --trace when given; otherwise it generates requests
// from --workload-config with explicitly set generator flags on top.
func buildWorkload(cmd *cobra.Command) ([]workload.Request, error) {
	if tracePath != "" {
		return workload.LoadTrace(tracePath)
	}
	gen := workload.GeneratorConfig{
		NumRequests:  numRequests,
		Rate:         rate,
		ReadFraction: readFraction,
		BlockSpace:   blockSpace,
		ZipfS:        zipfS,
		Seed:         seed,
	}
	if workloadConfigPath != "" {
		loaded, err := workload.LoadGeneratorConfig(workloadConfigPath)
		if err != nil {
			return nil, err
		}
		gen = *loaded
		flags := cmd.Flags()
		if flags.Changed("num-requests") {
			gen.NumRequests = numRequests
		}
		if flags.Changed("rate") {
			gen.Rate = rate
		}
		if flags.Changed("read-fraction") {
			gen.ReadFraction = readFraction
		}
		if flags.Changed("block-space") {
			gen.BlockSpace = blockSpace
		}
		if flags.Changed("zipf-s") {
			gen.ZipfS = zipfS
		}
		if flags.Changed("seed") {
			gen.Seed = seed
		}
	}
	return workload.Generate(gen)
}

func printTraceSummary(cmd *cobra.Command, s *trace.TraceSummary) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Drains: %d (%d blocks, %d paid a spin-up, mean %.6f s)\n",
		s.Drains, s.DrainedBlocks, s.DrainSpinUps, s.MeanDrainResponse)
	fmt.Fprintf(w, "Proactive spin-ups: %d\n", s.ProactiveSpinUps)
	fmt.Fprintf(w, "Reads: %d (cache hits %d, woke a disk %d)\n", s.Reads, s.CacheHits, s.StandbyDiskReads)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addWorkloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&workloadConfigPath, "workload-config", "", "YAML generator config")
	cmd.Flags().IntVar(&numRequests, "num-requests", 1000, "Number of requests to generate")
	cmd.Flags().Float64Var(&rate, "rate", 10, "Requests arrival per second")
	cmd.Flags().Float64Var(&readFraction, "read-fraction", 0.5, "Fraction of requests that are reads")
	cmd.Flags().Int64Var(&blockSpace, "block-space", 4096, "Number of distinct block ids")
	cmd.Flags().Float64Var(&zipfS, "zipf-s", 0, "Zipf skew for block popularity (> 1; 0 = uniform)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for request generation")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML array config (defaults used when empty)")
	runCmd.Flags().IntVar(&disks, "disks", 4, "Number of data disks")
	runCmd.Flags().IntVar(&replicas, "replicas", 2, "Copies of every block")
	runCmd.Flags().IntVar(&cacheMemories, "cache-memories", 2, "Number of cache nodes")
	runCmd.Flags().StringVar(&assignorName, "assignor", "balanced", "Cache node assignment (balanced, hash, range)")
	runCmd.Flags().StringVar(&overflowPolicy, "overflow-policy", "drain", "Cache overflow policy (drain, fifo)")
	runCmd.Flags().StringVar(&powerPolicy, "power-policy", "timeout", "Disk power policy (timeout, always-on)")
	runCmd.Flags().BoolVar(&proactiveSpinUp, "proactive-spin-up", false, "Wake a standby disk when its cache region fills")
	runCmd.Flags().Float64Var(&horizon, "horizon", 0, "Simulation horizon in seconds (0 = run to completion)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&tracePath, "trace", "", "CSV block trace to replay instead of generating one")
	addWorkloadFlags(runCmd)
	addWorkloadFlags(genTraceCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(genTraceCmd)
}
