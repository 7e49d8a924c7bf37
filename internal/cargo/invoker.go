package cargo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	cerrors "git.home.luguber.info/inful/testbin/internal/cargo/errors"
	"git.home.luguber.info/inful/testbin/internal/events"
	"git.home.luguber.info/inful/testbin/internal/logfields"
	"git.home.luguber.info/inful/testbin/internal/metrics"
	"git.home.luguber.info/inful/testbin/internal/observability"
	"git.home.luguber.info/inful/testbin/internal/resolve"
)

// EnvProgram is set by cargo for build scripts and test runs; it names the
// cargo executable driving the current build.
const EnvProgram = "CARGO"

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
// after the context is cancelled.
const waitDelay = 10 * time.Second

// Invoker launches cargo. The zero value is not usable; use NewInvoker.
type Invoker struct {
	program     string
	env         []string
	logger      *slog.Logger
	recorder    metrics.Recorder
	stderrLimit int
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithProgram overrides the cargo executable.
func WithProgram(program string) Option {
	return func(i *Invoker) { i.program = program }
}

// WithEnv appends KEY=VALUE entries to the child's environment.
func WithEnv(env ...string) Option {
	return func(i *Invoker) { i.env = append(i.env, env...) }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Invoker) { i.logger = logger }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(i *Invoker) { i.recorder = r }
}

// WithStderrLimit sets how many trailing bytes of stderr are retained. The
// same limit bounds the compiler diagnostics kept from stdout.
func WithStderrLimit(n int) Option {
	return func(i *Invoker) { i.stderrLimit = n }
}

// NewInvoker returns an Invoker configured by opts.
func NewInvoker(opts ...Option) *Invoker {
	inv := &Invoker{stderrLimit: DefaultStderrLimit}
	for _, opt := range opts {
		opt(inv)
	}
	inv.program = ResolveProgram(inv.program)
	if inv.logger == nil {
		inv.logger = slog.Default()
	}
	inv.recorder = metrics.OrNoop(inv.recorder)
	if inv.stderrLimit <= 0 {
		inv.stderrLimit = DefaultStderrLimit
	}
	return inv
}

// ResolveProgram picks the cargo executable: explicit, then $CARGO, then
// "cargo" from PATH.
func ResolveProgram(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvProgram); p != "" {
		return p
	}
	return "cargo"
}

// Program returns the executable the invoker runs.
func (inv *Invoker) Program() string {
	return inv.program
}

// Build runs cargo for spec and resolves the one executable it produced.
func (inv *Invoker) Build(ctx context.Context, spec Spec) (string, error) {
	ctx, _ = observability.StartBuild(ctx)
	ctx = observability.WithBinary(ctx, spec.Binary, spec.Dir)
	log := observability.Logger(ctx, inv.logger).With(logfields.Profile(spec.profileName()))

	start := time.Now()
	outcome, err := inv.Run(ctx, spec)
	if err != nil {
		inv.recorder.IncBuildOutcome(OutcomeLabel(err))
		log.ErrorContext(ctx, "Cargo could not be started", logfields.Program(inv.program), logfields.Error(err))
		return "", err
	}
	elapsed := time.Since(start)
	inv.recorder.ObserveBuildDuration(spec.Binary, elapsed)

	path, err := resolve.Resolve(outcome)
	inv.recorder.IncBuildOutcome(OutcomeLabel(err))
	if err != nil {
		log.WarnContext(ctx, "Build did not yield a binary",
			logfields.Outcome(string(OutcomeLabel(err))),
			logfields.ExitCode(outcome.ExitCode),
			logfields.Matches(len(outcome.Matches)),
			logfields.Duration(elapsed))
		return "", err
	}
	log.InfoContext(ctx, "Built test binary", logfields.Path(path), logfields.Duration(elapsed))
	return path, nil
}

// Run launches cargo and consumes its output. The returned error is non-nil
// only when the process could not be started; everything that happens after
// a successful start is reported through the Outcome.
func (inv *Invoker) Run(ctx context.Context, spec Spec) (resolve.Outcome, error) {
	log := observability.Logger(ctx, inv.logger)
	args := spec.BuildArgs()

	cmd := exec.CommandContext(ctx, inv.program, args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), inv.env...)
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return resolve.Outcome{}, inv.launchError(err, spec)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return resolve.Outcome{}, inv.launchError(err, spec)
	}

	log.DebugContext(ctx, "Invoking cargo", logfields.Program(inv.program), logfields.Args(args))
	collector := resolve.NewCollector(spec.Binary, inv.stderrLimit)
	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return collector.Outcome(spec.Dir, ctxErr, -1, ""), nil
		}
		return resolve.Outcome{}, inv.launchError(err, spec)
	}
	log.DebugContext(ctx, "Cargo started", logfields.PID(cmd.Process.Pid))

	tail := newTailBuffer(inv.stderrLimit)
	skipped := 0

	var g errgroup.Group
	g.Go(func() error {
		dec := events.NewDecoder(stdout)
		for ev := range dec.All() {
			if line, ok := ev.(*events.TextLine); ok {
				log.DebugContext(ctx, "Skipping non-JSON cargo output", slog.String("line", line.Text))
			}
			collector.Observe(ev)
		}
		skipped = dec.Skipped()
		if err := dec.Err(); err != nil {
			// Keep draining so cargo never blocks on a full pipe.
			_, _ = io.Copy(io.Discard, stdout)
			return fmt.Errorf("reading cargo stdout: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		lines := &lineLogger{ctx: ctx, logger: log, msg: "cargo stderr"}
		defer func() { _ = lines.Close() }()
		if _, err := io.Copy(io.MultiWriter(tail, lines), stderr); err != nil {
			return fmt.Errorf("reading cargo stderr: %w", err)
		}
		return nil
	})

	readErr := g.Wait()
	waitErr := cmd.Wait()

	if skipped > 0 {
		inv.recorder.AddSkippedRecords(skipped)
		log.DebugContext(ctx, "Ignored non-JSON cargo output", logfields.Skipped(skipped))
	}

	exitCode, exitErr := exitStatus(ctx, waitErr)
	if exitErr == nil && readErr != nil {
		exitErr = readErr
		exitCode = -1
	}
	stderrText := tail.String()
	if tail.Truncated() {
		log.DebugContext(ctx, "Cargo stderr truncated to its tail", slog.Int("limit", inv.stderrLimit))
	}
	if collector.Truncated() {
		log.DebugContext(ctx, "Compiler diagnostics truncated to their tail", slog.Int("limit", inv.stderrLimit))
	}
	return collector.Outcome(spec.Dir, exitErr, exitCode, stderrText), nil
}

// exitStatus converts the Wait result into the error and code reported to
// the resolver. A cancelled context always counts as failure.
func exitStatus(ctx context.Context, waitErr error) (int, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if waitErr == nil {
			return -1, ctxErr
		}
		return processExitCode(waitErr), fmt.Errorf("%w: %w", ctxErr, waitErr)
	}
	if waitErr == nil {
		return 0, nil
	}
	return processExitCode(waitErr), waitErr
}

func processExitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

func (inv *Invoker) launchError(err error, spec Spec) error {
	return cerrors.ErrLaunch.
		WithCause(err).
		WithContext("program", inv.program).
		WithContext("binary", spec.Binary).
		WithContext("dir", spec.Dir)
}

// OutcomeLabel maps a build result onto its metrics label.
func OutcomeLabel(err error) metrics.OutcomeLabel {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, cerrors.ErrLaunch):
		return metrics.OutcomeLaunchError
	case errors.Is(err, cerrors.ErrBuildFailure):
		return metrics.OutcomeBuildFailure
	case errors.Is(err, cerrors.ErrArtifactAmbiguous):
		return metrics.OutcomeAmbiguous
	case errors.Is(err, cerrors.ErrArtifactNotFound):
		return metrics.OutcomeArtifactNotFound
	default:
		return metrics.OutcomeConfigError
	}
}
