package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
	"github.com/bnema/nosuspend/internal/infrastructure/power"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Show the selected backend and what it can inhibit",
	Long: `Doctor resolves the process-wide backend exactly as 'run' would and
reports whether it performs real inhibition, which flags it supports,
and which endpoints were discovered.

A backend marked unavailable or not-implemented accepts the scope
protocol but inhibits nothing; if inhibition is mission-critical for
you, this is the check to script against.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	ctx := commandContext()
	backend := power.Resolve(ctx)
	capability := backend.Capability()

	fmt.Printf("backend:    %s\n", backend.Name())
	fmt.Printf("available:  %v\n", backend.Available())
	fmt.Printf("supports:   %s\n", capability.Supported.String())
	fmt.Printf("can revoke: %v\n", capability.CanRevoke)

	if current, err := backend.Current(ctx); err == nil && current != inhibit.None {
		fmt.Printf("current:    %s\n", current.String())
	}

	if lister, ok := backend.(port.EndpointLister); ok {
		endpoints := lister.Endpoints()
		if len(endpoints) == 0 {
			fmt.Println("endpoints:  none discovered")
			return nil
		}
		fmt.Println("endpoints:")
		for _, ep := range endpoints {
			fmt.Printf("  %-12s %s\n", ep.Group, ep.ID)
		}
	}
	return nil
}
