package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/branchsim/branchsim/sim"
	"github.com/branchsim/branchsim/sim/bank"
	"github.com/branchsim/branchsim/sim/trace"
)

var (
	// CLI flags for the run
	logLevel     string // Log verbosity level
	configPath   string // Optional YAML run config
	preset       string // Named preset from defaults.yaml
	defaultsPath string // Path to defaults.yaml
	envFile      string // Optional .env file with BRANCHSIM_* overrides
	outputFormat string // Report format: text, yaml or json
	traceFile    string // CSV file for routing decisions

	// CLI flags for the branch model
	transactionStations    int           // Number of transaction tellers
	accountStations        int           // Number of account desks
	arrivalInterval        float64       // Mean minutes between arrivals
	transactionServiceMean float64       // Mean teller service time
	accountServiceMean     float64       // Mean account desk service time
	clientMix              float64       // Percent of transaction customers
	horizon                float64       // Simulated minutes to run
	throttle               time.Duration // Wall-clock delay per dispatched event
	speed                  int           // 0-100 speed slider, converted to a throttle
	seed                   int64         // Seed for every random stream
	rngKind                string        // Uniform generator: pcg or mrg32k3a
	traceLevel             string        // none or decisions
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "branchsim",
	Short: "Discrete-event simulator for a bank branch",
}

// runCmd executes one branch run using defaults, presets, files, env and flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the branch simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if traceFile != "" && cfg.TraceLevel == string(trace.TraceLevelNone) {
			cfg.TraceLevel = string(trace.TraceLevelDecisions)
		}

		logrus.Infof("Starting branch with %d tellers, %d account desks, interval=%.2f, mix=%.1f%%, horizon=%.1f",
			cfg.TransactionStations, cfg.AccountStations, cfg.ArrivalInterval, cfg.ClientMix, cfg.Horizon)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		startTime := time.Now()
		status, err := runBranch(ctx, cfg, cmd.OutOrStdout())
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation %s in %v.", status, time.Since(startTime))
		if status == sim.StatusCancelled {
			atexit.Exit(130)
		}
	},
}

// runBranch builds a BankEngine for cfg, runs it and writes the report.
// A trace file that fails to write fails the run.
func runBranch(ctx context.Context, cfg bank.Config, out io.Writer) (_ sim.RunStatus, err error) {
	var sinks []trace.Sink
	if traceFile != "" {
		w := trace.NewCSVWriter(traceFile)
		if err := w.Init(); err != nil {
			return sim.StatusFailed, err
		}
		defer func() {
			if cerr := w.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		sinks = append(sinks, w)
	}
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(cfg.TraceLevel)}, sinks...)

	b, err := bank.New(cfg,
		bank.WithTrace(st),
		bank.WithListener(bank.ListenerFuncs{
			CustomerServed: func(total int) {
				logrus.Debugf("customers served: %d", total)
			},
		}),
	)
	if err != nil {
		return sim.StatusFailed, err
	}

	status, err := b.Run(ctx)
	if err != nil || status != sim.StatusCompleted {
		return status, err
	}

	if err := writeReport(out, b.Report(), outputFormat); err != nil {
		return sim.StatusFailed, err
	}
	if st.Config.Enabled() {
		s := trace.Summarize(st)
		logrus.Infof("Routing decisions: %d across %d stations, max imbalance %d",
			s.TotalDecisions, s.UniqueTargets, s.MaxImbalance)
	}
	return status, nil
}

func writeReport(w io.Writer, r *bank.Report, format string) error {
	switch format {
	case "", "text":
		return r.Print(w)
	case "yaml":
		return r.WriteYAML(w)
	case "json":
		return r.WriteJSON(w)
	default:
		return fmt.Errorf("unknown output format %q (want text, yaml or json)", format)
	}
}

// resolveConfig layers built-in defaults, an optional preset, an optional
// config file, environment overrides and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command) (bank.Config, error) {
	cfg := bank.DefaultConfig()

	if preset != "" {
		defaults, err := loadDefaults(defaultsPath)
		if err != nil {
			return cfg, err
		}
		if err := defaults.Apply(preset, &cfg); err != nil {
			return cfg, err
		}
	}

	if configPath != "" {
		loaded, err := bank.LoadConfig(configPath, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if err := loadEnvFile(envFile); err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	applyFlags(cmd, &cfg)
	return cfg, cfg.Validate()
}

// applyFlags copies only the flags the user set, so flag defaults never
// clobber values from presets, files or the environment.
func applyFlags(cmd *cobra.Command, cfg *bank.Config) {
	flags := cmd.Flags()
	if flags.Changed("tellers") {
		cfg.TransactionStations = transactionStations
	}
	if flags.Changed("accounts") {
		cfg.AccountStations = accountStations
	}
	if flags.Changed("interval") {
		cfg.ArrivalInterval = arrivalInterval
	}
	if flags.Changed("transaction-time") {
		cfg.TransactionServiceMean = transactionServiceMean
	}
	if flags.Changed("account-time") {
		cfg.AccountServiceMean = accountServiceMean
	}
	if flags.Changed("mix") {
		cfg.ClientMix = clientMix
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("speed") {
		cfg.Throttle = bank.ThrottleForSpeed(speed)
	}
	if flags.Changed("throttle") {
		cfg.Throttle = throttle
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("rng") {
		cfg.RNG = rngKind
	}
	if flags.Changed("trace-level") {
		cfg.TraceLevel = traceLevel
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// addRunFlags registers the run flags on cmd.
func addRunFlags(cmd *cobra.Command) {
	def := bank.DefaultConfig()
	flags := cmd.Flags()

	flags.StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.StringVar(&configPath, "config", "", "YAML run configuration file")
	flags.StringVar(&preset, "preset", "", "Named preset from the defaults file")
	flags.StringVar(&defaultsPath, "defaults", "defaults.yaml", "Path to the defaults file holding presets")
	flags.StringVar(&envFile, "env-file", ".env", "Optional .env file with BRANCHSIM_* overrides")
	flags.StringVar(&outputFormat, "output", "text", "Report format (text, yaml, json)")
	flags.StringVar(&traceFile, "trace-file", "", "Write routing decisions to this CSV file")

	// Branch layout and workload
	flags.IntVar(&transactionStations, "tellers", def.TransactionStations, "Number of transaction tellers")
	flags.IntVar(&accountStations, "accounts", def.AccountStations, "Number of account desks")
	flags.Float64Var(&arrivalInterval, "interval", def.ArrivalInterval, "Mean minutes between customer arrivals")
	flags.Float64Var(&transactionServiceMean, "transaction-time", def.TransactionServiceMean, "Mean teller service time (minutes)")
	flags.Float64Var(&accountServiceMean, "account-time", def.AccountServiceMean, "Mean account desk service time (minutes)")
	flags.Float64Var(&clientMix, "mix", def.ClientMix, "Percent of transaction customers (0-100)")

	// Run control
	flags.Float64Var(&horizon, "horizon", def.Horizon, "Simulated minutes to run")
	flags.DurationVar(&throttle, "throttle", def.Throttle, "Wall-clock delay per dispatched event")
	flags.IntVar(&speed, "speed", 100, "Speed slider 0-100; sets the throttle to max(1, 100-speed) ms")
	flags.Int64Var(&seed, "seed", def.Seed, "Seed for every random stream")
	flags.StringVar(&rngKind, "rng", def.RNG, "Uniform generator (pcg, mrg32k3a)")
	flags.StringVar(&traceLevel, "trace-level", def.TraceLevel, "Decision trace level (none, decisions)")
}

// init sets up CLI flags and subcommands
func init() {
	addRunFlags(runCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(presetsCmd)
}
