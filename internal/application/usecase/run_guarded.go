package usecase

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/bnema/nosuspend/internal/application/port"
	"github.com/bnema/nosuspend/internal/domain/inhibit"
	"github.com/bnema/nosuspend/internal/logging"
)

// ErrNoCommand is returned when RunGuarded is invoked without a
// command line.
var ErrNoCommand = errors.New("no command to run")

// RunGuardedInput describes the child process and the inhibition that
// should protect it.
type RunGuardedInput struct {
	Command []string
	Flags   inhibit.StateFlags
	Inherit bool
	AppName string
	Reason  string
}

// RunGuardedUseCase runs a child process wrapped in one inhibition
// scope and reports the child's exit code.
type RunGuardedUseCase struct {
	backend port.Backend
}

// NewRunGuardedUseCase creates a new RunGuardedUseCase.
func NewRunGuardedUseCase(backend port.Backend) *RunGuardedUseCase {
	return &RunGuardedUseCase{backend: backend}
}

// Execute enters the scope, runs the command, and exits the scope even
// when the child fails or a signal arrives. The returned int is the
// child's exit code; it is valid whenever err is nil or the child
// merely exited non-zero.
func (uc *RunGuardedUseCase) Execute(ctx context.Context, in RunGuardedInput) (int, error) {
	log := logging.FromContext(ctx)

	if len(in.Command) == 0 {
		return 0, ErrNoCommand
	}

	opts := []ScopeOption{}
	if in.AppName != "" {
		opts = append(opts, WithAppName(in.AppName))
	}
	if in.Reason != "" {
		opts = append(opts, WithReason(in.Reason))
	}
	if !in.Inherit {
		opts = append(opts, WithoutInherit())
	}

	scope := NewScope(uc.backend, in.Flags, opts...)
	effective, err := scope.Enter(ctx)
	if err != nil {
		return 0, err
	}
	defer scope.Close()

	log.Info().
		Str("effective", effective.String()).
		Strs("command", in.Command).
		Msg("running command under inhibition")

	cmd := exec.Command(in.Command[0], in.Command[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	// Forward interrupts to the child; the scope still exits through
	// the deferred Close once the child is gone.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()
	defer func() {
		signal.Stop(sigCh)
		close(done)
	}()

	err = cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 0, err
	}
	return 0, nil
}
