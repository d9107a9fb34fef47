// Package sysexec wraps subprocess invocation behind a narrow interface so
// the orchestration logic can be tested against fakes instead of real
// system tools.
package sysexec

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Runner executes external commands.
type Runner interface {
	// Run executes the command and waits for it, discarding output.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes the command and returns trimmed stdout and stderr.
	Output(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

	// RunWithInput executes the command feeding input on stdin, for tools
	// that insist on an interactive confirmation.
	RunWithInput(ctx context.Context, input, name string, args ...string) error

	// Stream executes the command wiring its output to this process, for
	// follow-style commands that run until interrupted.
	Stream(ctx context.Context, name string, args ...string) error

	// KillByName force-terminates every process matching the name.
	KillByName(ctx context.Context, name string) error
}

type defaultRunner struct {
	logger *zap.Logger
}

// NewRunner creates a Runner backed by os/exec.
func NewRunner(logger *zap.Logger) Runner {
	return &defaultRunner{logger: logger}
}

func (r *defaultRunner) Run(ctx context.Context, name string, args ...string) error {
	r.logger.Debug("running command", zap.String("name", name), zap.Strings("args", args))
	return exec.CommandContext(ctx, name, args...).Run()
}

func (r *defaultRunner) Output(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

func (r *defaultRunner) RunWithInput(ctx context.Context, input, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	return cmd.Run()
}

func (r *defaultRunner) Stream(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (r *defaultRunner) KillByName(ctx context.Context, name string) error {
	err := exec.CommandContext(ctx, "pkill", name).Run()
	if err != nil {
		// pkill exits 1 when nothing matched, which is the desired state.
		r.logger.Debug("pkill returned", zap.String("name", name), zap.Error(err))
	}
	return nil
}
