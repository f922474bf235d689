package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/nosuspend/internal/application/usecase"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
	"github.com/bnema/nosuspend/internal/infrastructure/power"
)

var (
	runSuspend  bool
	runDisplay  bool
	runAwayMode bool
	runInherit  bool
	runRequire  bool
	runReason   string
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Run a command with suspension inhibited",
	Long: `Run wraps a child process in one inhibition scope: inhibition is
acquired before the child starts and released when it exits, however it
exits. The exit code of nosuspend is the exit code of the child.

Examples:
  nosuspend run -- rsync -a /data /backup
  nosuspend run --display -- mpv movie.mkv
  nosuspend run --require -- ./critical-job.sh`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runSuspend, "suspend", true, "Inhibit system sleep and hibernation")
	runCmd.Flags().BoolVar(&runDisplay, "display", false, "Inhibit display dimming and the screensaver")
	runCmd.Flags().BoolVar(&runAwayMode, "away-mode", false, "Request Windows away-mode")
	runCmd.Flags().BoolVar(&runInherit, "inherit", true, "Compose with, rather than replace, the current inhibition state")
	runCmd.Flags().BoolVar(&runRequire, "require", false, "Fail instead of degrading when no real inhibition is available")
	runCmd.Flags().StringVar(&runReason, "reason", "", "Reason reported to inhibitor endpoints (default: the command line)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := commandContext()

	flags := inhibit.None
	if pick(cmd, "suspend", runSuspend, cfg.Run.Suspend) {
		flags = inhibit.Compose(flags, inhibit.Suspend)
	}
	if pick(cmd, "display", runDisplay, cfg.Run.Display) {
		flags = inhibit.Compose(flags, inhibit.Display)
	}
	if pick(cmd, "away-mode", runAwayMode, cfg.Run.AwayMode) {
		flags = inhibit.Compose(flags, inhibit.AwayMode)
	}
	inherit := pick(cmd, "inherit", runInherit, cfg.Run.Inherit)

	backend := power.Resolve(ctx)
	if runRequire && !backend.Available() {
		return fmt.Errorf("inhibition required but the %s backend performs none", backend.Name())
	}

	reason := runReason
	if reason == "" {
		reason = strings.Join(args, " ")
	}

	uc := usecase.NewRunGuardedUseCase(backend)
	code, err := uc.Execute(ctx, usecase.RunGuardedInput{
		Command: args,
		Flags:   flags,
		Inherit: inherit,
		AppName: cfg.AppName,
		Reason:  reason,
	})
	if err != nil {
		return err
	}

	os.Exit(code)
	return nil
}

// pick prefers an explicitly set CLI flag over the config default.
func pick(cmd *cobra.Command, name string, flagValue, cfgValue bool) bool {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return cfgValue
}
