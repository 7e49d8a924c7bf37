package commands

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/testbin"
	"git.home.luguber.info/inful/testbin/internal/config"
	ferrors "git.home.luguber.info/inful/testbin/internal/foundation/errors"
	"git.home.luguber.info/inful/testbin/internal/logfields"
)

// LocateCmd implements the 'locate' command.
type LocateCmd struct {
	Config string   `short:"c" help:"Configuration file path" default:"testbin.yaml"`
	Jobs   int      `short:"j" help:"Maximum concurrent builds" default:"4"`
	Names  []string `arg:"" optional:"" help:"Binaries to build (default: all configured)"`
}

func (l *LocateCmd) Run(ctx context.Context, g *Global) error {
	cfg, err := config.Load(l.Config)
	if err != nil {
		return err
	}

	names := l.Names
	if len(names) == 0 {
		names = cfg.Names()
	}
	binaries := make([]config.Binary, 0, len(names))
	for _, name := range names {
		b, ok := cfg.Find(name)
		if !ok {
			return ferrors.NotFoundError("binary not configured").
				WithContext("binary", name).
				WithContext("config", l.Config).
				Build()
		}
		binaries = append(binaries, b)
	}

	cache := testbin.NewCache(testbin.WithCacheRecorder(g.Recorder), testbin.WithCacheLogger(g.Logger))
	paths := make([]string, len(binaries))
	errs := make([]error, len(binaries))

	var grp errgroup.Group
	if l.Jobs > 0 {
		grp.SetLimit(l.Jobs)
	}
	for i, b := range binaries {
		grp.Go(func() error {
			paths[i], errs[i] = cache.Build(ctx, builderFor(cfg, b, g))
			if errs[i] != nil {
				g.Logger.Error("Build failed", logfields.Binary(b.Name), logfields.Dir(b.Dir), logfields.Error(errs[i]))
			}
			return nil
		})
	}
	_ = grp.Wait()

	for i, b := range binaries {
		if errs[i] == nil {
			fmt.Fprintf(g.Out, "%s\t%s\n", b.Name, paths[i])
		}
	}
	return errors.Join(errs...)
}

// builderFor translates a configured binary into build options.
func builderFor(cfg *config.Config, b config.Binary, g *Global) testbin.Builder {
	builder := testbin.New(b.Name, b.Dir).
		WithCargo(cfg.Cargo).
		WithEnv(cfg.EnvList()...).
		WithFeatures(b.Features...).
		WithArgs(b.Args...).
		WithLogger(g.Logger).
		WithRecorder(g.Recorder)
	if b.Profile != "" {
		builder = builder.WithProfile(b.Profile)
	}
	if b.NoDefaultFeatures {
		builder = builder.NoDefaultFeatures()
	}
	if b.AllFeatures {
		builder = builder.WithAllFeatures()
	}
	return builder
}
