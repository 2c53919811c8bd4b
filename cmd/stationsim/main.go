// Command stationsim is a headless driver for the Abyssal Station
// AI+Collision core. It owns everything internal/core declares as
// host-supplied: the EntityRegistry, the scenario file format, and the
// fixed-timestep loop. None of the libraries wired here (cobra, viper,
// zap, uuid, errgroup) are imported by internal/core itself.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
)

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		log = zap.NewNop()
	}
	return log
}

func main() {
	var verbose bool
	root := &cobra.Command{
		Use:   "stationsim",
		Short: "Headless driver for the Abyssal Station AI and collision core",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd(&verbose))
	root.AddCommand(newBenchCmd(&verbose))
	root.AddCommand(newInspectCmd(&verbose))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
