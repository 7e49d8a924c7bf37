package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	ferrors "git.home.luguber.info/inful/testbin/internal/foundation/errors"
	"git.home.luguber.info/inful/testbin/internal/logfields"
	"git.home.luguber.info/inful/testbin/internal/metrics"
	"git.home.luguber.info/inful/testbin/internal/version"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger   *slog.Logger
	Out      io.Writer
	Recorder metrics.Recorder
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Metrics string           `placeholder:"FILE" help:"Write Prometheus metrics of this run to FILE"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Build one binary and print its path"`
	List   ListCmd   `cmd:"" help:"List the binaries configured in testbin.yaml"`
	Locate LocateCmd `cmd:"" help:"Build configured binaries and print name and path"`
	Init   InitCmd   `cmd:"" help:"Write an example testbin.yaml"`
}

// exitRequest carries an exit code requested by kong (--help, --version)
// back to Main.
type exitRequest int

// Main parses args, runs the selected command and returns the exit code.
func Main(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = int(req)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("testbin"),
		kong.Description("Build cargo test binaries and report where they were written."),
		kong.Vars{"version": version.String()},
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
		kong.Exit(func(c int) { panic(exitRequest(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "testbin: %v\n", err)
		return 10
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "testbin: %v\n", err)
		return 2
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	g := &Global{Logger: logger, Out: stdout, Recorder: metrics.NoopRecorder{}}
	var prom *metrics.PrometheusRecorder
	if cli.Metrics != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		g.Recorder = prom
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	err = kctx.Run(g)
	if prom != nil {
		if werr := prom.WriteTextfile(cli.Metrics); werr != nil {
			logger.Warn("Failed to write metrics", logfields.Path(cli.Metrics), logfields.Error(werr))
			if err == nil {
				err = ferrors.FileSystemError("failed to write metrics").
					WithCause(werr).
					WithContext("path", cli.Metrics).
					Build()
			}
		}
	}

	code = 0
	ferrors.NewCLIErrorAdapter(cli.Verbose, logger).
		WithOutput(stderr).
		WithExit(func(c int) { code = c }).
		HandleError(err)
	return code
}
