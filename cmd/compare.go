package cmd

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/linesim/linesim/sim"
)

var (
	compareConfigPath    string // Path to the baseline JSON simulation config
	compareScenariosPath string // Path to the YAML what-if scenario file
	compareBaselinePath  string // Path to a previously written baseline ledger CSV
	compareSeed          int64  // Seed shared by every scenario run
	compareLogLevel      string // Log verbosity level
)

// compareContext carries everything the comparison consumers need. It is
// built once per invocation and passed down explicitly; no package-level
// baseline state.
type compareContext struct {
	baseConfig   *sim.SimulationConfig
	baselineKPIs sim.KPIReport
}

// compareCmd re-runs the simulation under each what-if scenario and prints
// KPI deltas against the baseline.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare what-if scenarios against baseline production KPIs",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(compareLogLevel)

		cfg, err := LoadConfig(compareConfigPath)
		if errors.Is(err, sim.ErrConfigUnavailable) {
			logrus.Fatalf("Configuration file not found at %q: %v", compareConfigPath, err)
		}
		if err != nil {
			logrus.Fatalf("Bad configuration: %v", err)
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = compareSeed
		}

		scenarios, err := sim.LoadScenarios(compareScenariosPath)
		if err != nil {
			logrus.Fatalf("Could not load scenarios: %v", err)
		}

		ctx := buildCompareContext(cfg, compareBaselinePath)

		fmt.Println("=== Scenario Comparison ===")
		printKPIRow("baseline", ctx.baselineKPIs, ctx.baselineKPIs)
		for _, sc := range scenarios {
			report, err := runScenario(ctx, sc)
			if err != nil {
				logrus.Fatalf("Scenario %q failed: %v", sc.Name, err)
			}
			printKPIRow(sc.Name, report, ctx.baselineKPIs)
		}
	},
}

// buildCompareContext loads baseline KPIs from the ledger CSV when it
// exists. A missing baseline degrades to zero KPIs, which every consumer
// treats as a valid (if uninteresting) state.
func buildCompareContext(cfg *sim.SimulationConfig, baselinePath string) *compareContext {
	ctx := &compareContext{baseConfig: cfg}

	ledger, err := sim.LoadLedgerCSV(baselinePath)
	if err != nil {
		logrus.Warnf("No baseline ledger at %q, baseline KPIs default to zero: %v", baselinePath, err)
		return ctx
	}
	ctx.baselineKPIs = sim.CalculateKPIs(ledger, cfg.Stages.Terminal())
	return ctx
}

// runScenario executes one what-if run from a mutated copy of the
// baseline config and returns its KPIs.
func runScenario(ctx *compareContext, sc sim.Scenario) (sim.KPIReport, error) {
	cfg, err := sc.Apply(ctx.baseConfig)
	if err != nil {
		return sim.KPIReport{}, err
	}

	logrus.Infof("Running scenario %q: %s", sc.Name, sc.Description)
	ledger, err := sim.NewSimulator(cfg).Run()
	if err != nil {
		return sim.KPIReport{}, err
	}
	return sim.CalculateKPIs(ledger, cfg.Stages.Terminal()), nil
}

// printKPIRow prints one scenario's KPIs with deltas against the
// baseline. Percent change is guarded against a zero baseline.
func printKPIRow(name string, r, base sim.KPIReport) {
	delta := r.ThroughputPerWeek - base.ThroughputPerWeek
	percent := 0.0
	if base.ThroughputPerWeek > 0 {
		percent = delta / base.ThroughputPerWeek * 100
	}
	fmt.Printf("%-28s units=%-4d makespan=%7.1fd throughput=%6.2f/wk (%+.2f, %+.1f%%)\n",
		name, r.TotalUnits, r.MakespanDays, r.ThroughputPerWeek, delta, percent)
}

func init() {
	compareCmd.Flags().StringVar(&compareConfigPath, "config", "config.json", "Path to the simulation config file")
	compareCmd.Flags().StringVar(&compareScenariosPath, "scenarios", "scenarios.yaml", "Path to the YAML scenario file")
	compareCmd.Flags().StringVar(&compareBaselinePath, "baseline", "production_ledger.csv", "Path to the baseline ledger CSV")
	compareCmd.Flags().Int64Var(&compareSeed, "seed", 0, "Seed shared by all scenario runs (0 = seed from wall clock)")
	compareCmd.Flags().StringVar(&compareLogLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(compareCmd)
}
