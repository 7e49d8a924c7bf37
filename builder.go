package testbin

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"git.home.luguber.info/inful/testbin/internal/cargo"
	"git.home.luguber.info/inful/testbin/internal/foundation"
	"git.home.luguber.info/inful/testbin/internal/metrics"
)

// Builder accumulates build options. It is an immutable value: every With
// method returns a modified copy, so a Builder can be shared and branched.
type Builder struct {
	binary            string
	dir               string
	release           bool
	profile           string
	features          []string
	noDefaultFeatures bool
	allFeatures       bool
	args              []string
	cargo             string
	env               []string
	logger            *slog.Logger
	recorder          metrics.Recorder
	stderrLimit       int
}

// New returns a Builder for the bin target name of the package in dir.
func New(name, dir string) Builder {
	return Builder{binary: name, dir: dir}
}

// Binary returns the requested binary name.
func (b Builder) Binary() string { return b.binary }

// Dir returns the source directory as given.
func (b Builder) Dir() string { return b.dir }

// WithProfile selects a profile by name. "release" is the same as
// WithRelease; "dev" and "debug" select the default profile.
func (b Builder) WithProfile(name string) Builder {
	b.profile = name
	return b
}

// WithRelease builds with --release.
func (b Builder) WithRelease() Builder {
	b.release = true
	return b
}

// WithFeature enables one feature.
func (b Builder) WithFeature(feature string) Builder {
	return b.WithFeatures(feature)
}

// WithFeatures enables features. Duplicates are dropped.
func (b Builder) WithFeatures(features ...string) Builder {
	out := slices.Clone(b.features)
	for _, f := range features {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	b.features = out
	return b
}

// NoDefaultFeatures builds with --no-default-features.
func (b Builder) NoDefaultFeatures() Builder {
	b.noDefaultFeatures = true
	return b
}

// WithAllFeatures builds with --all-features.
func (b Builder) WithAllFeatures() Builder {
	b.allFeatures = true
	return b
}

// WithArgs appends extra arguments after the managed ones.
func (b Builder) WithArgs(args ...string) Builder {
	b.args = append(slices.Clone(b.args), args...)
	return b
}

// WithCargo sets the cargo executable; otherwise $CARGO or "cargo" is used.
func (b Builder) WithCargo(program string) Builder {
	b.cargo = program
	return b
}

// WithEnv adds KEY=VALUE entries to cargo's environment.
func (b Builder) WithEnv(env ...string) Builder {
	b.env = append(slices.Clone(b.env), env...)
	return b
}

// WithLogger sets the logger used for the build.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// WithRecorder sets the metrics recorder used for the build.
func (b Builder) WithRecorder(r metrics.Recorder) Builder {
	b.recorder = r
	return b
}

// WithStderrLimit sets how many trailing bytes of cargo's stderr, and of the
// compiler diagnostics, are kept for error reports. Zero or less restores
// the 1 MiB default.
func (b Builder) WithStderrLimit(n int) Builder {
	b.stderrLimit = n
	return b
}

// Request validates the accumulated options. Invalid or conflicting options
// yield an error matching ErrConfiguration.
func (b Builder) Request() (Request, error) {
	profile := Debug
	if b.release {
		profile = Release
	}
	res := foundation.Valid()
	if b.profile != "" {
		named := ParseProfile(b.profile)
		res = res.Combine(foundation.Conflict("profile", "release", b.release && named != Release))
		profile = named
	}

	req := Request{
		Binary:            b.binary,
		Dir:               b.dir,
		Profile:           profile,
		Features:          slices.Clone(b.features),
		NoDefaultFeatures: b.noDefaultFeatures,
		AllFeatures:       b.allFeatures,
		Args:              slices.Clone(b.args),
	}
	res = res.Combine(validateFields(req))
	res = res.Combine(envValidator(b.env))
	if !res.Valid {
		return Request{}, ErrConfiguration.
			WithContext("binary", b.binary).
			WithContext("dir", b.dir).
			WithDetail(strings.Join(res.Messages(), "\n"))
	}
	return req, nil
}

func (b Builder) invoker() *cargo.Invoker {
	return cargo.NewInvoker(
		cargo.WithProgram(b.cargo),
		cargo.WithEnv(b.env...),
		cargo.WithLogger(b.logger),
		cargo.WithRecorder(b.recorder),
		cargo.WithStderrLimit(b.stderrLimit),
	)
}

// Build validates the options, runs cargo and returns the path of the binary.
func (b Builder) Build(ctx context.Context) (string, error) {
	req, err := b.Request()
	if err != nil {
		metrics.OrNoop(b.recorder).IncBuildOutcome(metrics.OutcomeConfigError)
		return "", err
	}
	return b.invoker().Build(ctx, req.spec())
}
