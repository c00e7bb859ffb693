package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/linesim/linesim/sim"
)

var (
	runConfigPath  string // Path to the JSON simulation config
	runOutputPath  string // Path of the CSV ledger to write
	runSeed        int64  // Seed for random duration and QC sampling
	runMaxAttempts int    // Per-stage attempt cap (0 = unbounded)
	runCompact     bool   // Project the 4-column ledger schema
	runLogLevel    string // Log verbosity level
)

// runCmd executes one simulation and writes the ledger CSV.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the production line simulation and write the event ledger",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(runLogLevel)

		cfg, err := LoadConfig(runConfigPath)
		if errors.Is(err, sim.ErrConfigUnavailable) {
			logrus.Fatalf("Configuration file not found at %q: %v", runConfigPath, err)
		}
		if err != nil {
			logrus.Fatalf("Bad configuration: %v", err)
		}

		if cmd.Flags().Changed("seed") {
			cfg.Seed = runSeed
		}
		if cmd.Flags().Changed("max-attempts") {
			cfg.MaxAttempts = runMaxAttempts
		}

		logrus.Infof("Starting simulation: %d units across %d stages from %s",
			cfg.UnitCount, len(cfg.Stages), cfg.StartDate.Format("2006-01-02"))

		startTime := time.Now()
		s := sim.NewSimulator(cfg)
		ledger, err := s.Run()
		if err != nil {
			var exhausted *sim.StageExhaustedError
			if errors.As(err, &exhausted) {
				logrus.Fatalf("Simulation aborted: %v", exhausted)
			}
			logrus.Fatalf("Simulation failed: %v", err)
		}

		if err := ledger.SaveCSV(runOutputPath, runCompact); err != nil {
			logrus.Fatalf("Could not write ledger: %v", err)
		}

		sim.CalculateKPIs(ledger, cfg.Stages.Terminal()).Print()
		printStageStats(sim.StageCycleStats(ledger, cfg.Stages))

		logrus.Infof("Wrote %d events to %s in %v", len(ledger), runOutputPath, time.Since(startTime))
		logrus.Info("Simulation complete.")
	},
}

// printStageStats displays per-stage cycle times in processing order.
func printStageStats(stats []sim.StageStats) {
	fmt.Println("=== Cycle Time by Stage ===")
	for _, st := range stats {
		fmt.Printf("%-24s attempts=%-4d reworks=%-3d mean=%6.1fh min=%6.1fh max=%6.1fh\n",
			st.Stage, st.Attempts, st.Reworks, st.MeanHours, st.MinHours, st.MaxHours)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "config.json", "Path to the simulation config file")
	runCmd.Flags().StringVar(&runOutputPath, "output", "production_ledger.csv", "Path of the ledger CSV to write")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "Seed for random sampling (0 = seed from wall clock)")
	runCmd.Flags().IntVar(&runMaxAttempts, "max-attempts", 0, "Per-stage attempt cap before a stage counts as exhausted (0 = unbounded)")
	runCmd.Flags().BoolVar(&runCompact, "compact", false, "Write only unit_id,stage,start_time,end_time columns")
	runCmd.Flags().StringVar(&runLogLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
}
