package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abyssal-station/ai-collision-core/internal/core"
)

func newInspectCmd(verbose *bool) *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load a scenario, tick it once, and print every agent's state",
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

			sim := buildSimulation(sf, log)
			sim.step(fixedDt)

			fmt.Printf("scenario: %s\n", sf.Name)
			sim.registry.AllActive(func(snap core.EntitySnapshot) bool {
				if snap.Kind != core.KindEnemy {
					return true
				}
				a, ok := sim.manager.Agent(snap.Handle)
				if !ok {
					return true
				}
				fmt.Printf("agent handle=%d profile=%s state=%s health=%.0f%% pos=(%.1f,%.1f) targets=%d primary=%d\n",
					snap.Handle, a.Config.Profile, a.State, a.HealthPct*100,
					snap.Position.X, snap.Position.Y, len(a.Targets), a.PrimaryTarget)
				return true
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a YAML scenario file (default: built-in demo scenario)")
	return cmd
}
