package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// runReport is one bench run's summary, deliberately flat like the
// teacher's runStats in cmd/headless-report/main.go — a handful of
// scalar counters gathered from a completed run rather than a
// re-derived model of what happened.
type runReport struct {
	runIndex         int
	ticks            int
	finalActiveAgents int
	totalStateChanges uint64
	totalPathRequests uint64
	deaths           int
	recentAlerts     int
	broadPhaseTests  uint64
	narrowPhaseTests uint64
}

func newBenchCmd(verbose *bool) *cobra.Command {
	var scenarioPath string
	var ticks int
	var runs int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a scenario repeatedly and print an aggregate report",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			defer log.Sync()

			sf := defaultScenario()
			if scenarioPath != "" {
				loaded, err := loadScenario(scenarioPath)
				if err != nil {
					return err
				}
				sf = loaded
			}

			reports := make([]runReport, 0, runs)
			for i := 0; i < runs; i++ {
				sim := buildSimulation(sf, log)
				for t := 0; t < ticks; t++ {
					sim.step(fixedDt)
				}
				snap := sim.manager.Snapshot()
				reports = append(reports, runReport{
					runIndex:          i + 1,
					ticks:             ticks,
					finalActiveAgents: snap.ActiveAgents,
					totalStateChanges: snap.TotalStateChanges,
					totalPathRequests: snap.TotalPathRequests,
					deaths:            sim.deaths,
					recentAlerts:      len(sim.manager.RecentAlerts()),
					broadPhaseTests:   snap.BroadPhaseTests,
					narrowPhaseTests:  snap.NarrowPhaseTests,
				})
			}

			printBenchReport(sf.Name, reports)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a YAML scenario file (default: built-in demo scenario)")
	cmd.Flags().IntVar(&ticks, "ticks", 600, "fixed ticks per run")
	cmd.Flags().IntVar(&runs, "runs", 5, "number of repeated runs")
	return cmd
}

func printBenchReport(name string, reports []runReport) {
	fmt.Printf("=== stationsim bench: %s ===\n", name)
	var totalState, totalPath, totalBroad, totalNarrow uint64
	var totalDeaths, totalAlerts int
	for _, r := range reports {
		fmt.Printf("run %d: ticks=%d active_agents=%d state_changes=%d path_requests=%d deaths=%d recent_alerts=%d broad=%d narrow=%d\n",
			r.runIndex, r.ticks, r.finalActiveAgents, r.totalStateChanges, r.totalPathRequests, r.deaths, r.recentAlerts, r.broadPhaseTests, r.narrowPhaseTests)
		totalState += r.totalStateChanges
		totalPath += r.totalPathRequests
		totalBroad += r.broadPhaseTests
		totalNarrow += r.narrowPhaseTests
		totalDeaths += r.deaths
		totalAlerts += r.recentAlerts
	}
	n := float64(len(reports))
	if n == 0 {
		return
	}
	fmt.Printf("--- averages over %d runs ---\n", len(reports))
	fmt.Printf("avg_state_changes=%.1f avg_path_requests=%.1f avg_deaths=%.1f avg_recent_alerts=%.1f avg_broad=%.1f avg_narrow=%.1f\n",
		float64(totalState)/n, float64(totalPath)/n, float64(totalDeaths)/n, float64(totalAlerts)/n,
		float64(totalBroad)/n, float64(totalNarrow)/n)
}
