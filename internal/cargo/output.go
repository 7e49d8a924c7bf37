package cargo

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	cerrors "git.home.luguber.info/inful/testbin/internal/cargo/errors"
	"git.home.luguber.info/inful/testbin/internal/logfields"
	"git.home.luguber.info/inful/testbin/internal/observability"
)

// Output runs a short cargo subcommand in dir and returns its stdout.
// Unlike Run it buffers stdout, so it is only meant for commands with
// bounded output such as `cargo metadata`.
func (inv *Invoker) Output(ctx context.Context, dir string, args ...string) ([]byte, error) {
	log := observability.Logger(ctx, inv.logger)

	cmd := exec.CommandContext(ctx, inv.program, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), inv.env...)
	cmd.WaitDelay = waitDelay
	var stdout bytes.Buffer
	stderr := newTailBuffer(inv.stderrLimit)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	log.DebugContext(ctx, "Invoking cargo", logfields.Program(inv.program), logfields.Args(args), logfields.Dir(dir))
	if err := cmd.Start(); err != nil {
		return nil, cerrors.ErrLaunch.
			WithCause(err).
			WithContext("program", inv.program).
			WithContext("dir", dir)
	}
	code, err := exitStatus(ctx, cmd.Wait())
	if err != nil {
		return nil, cerrors.ErrBuildFailure.
			WithCause(err).
			WithContext("program", inv.program).
			WithContext("dir", dir).
			WithContext("exit_code", code).
			WithContext("stderr", stderr.String()).
			WithDetail(stderr.String())
	}
	return stdout.Bytes(), nil
}
