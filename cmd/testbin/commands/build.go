package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/testbin"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Name              string   `arg:"" help:"Name of the bin target"`
	Dir               string   `short:"d" required:"" help:"Package directory containing Cargo.toml"`
	Release           bool     `short:"r" help:"Build with the release profile"`
	Profile           string   `short:"p" help:"Build with a named cargo profile"`
	Features          []string `short:"F" name:"feature" help:"Enable a feature (repeatable)"`
	NoDefaultFeatures bool     `help:"Disable the package's default features"`
	AllFeatures       bool     `help:"Enable all features"`
	Cargo             string   `help:"cargo executable (defaults to $CARGO, then cargo on PATH)"`
	Args              []string `arg:"" optional:"" help:"Extra cargo arguments, after --"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global) error {
	builder := testbin.New(b.Name, b.Dir).
		WithFeatures(b.Features...).
		WithArgs(b.Args...).
		WithCargo(b.Cargo).
		WithLogger(g.Logger).
		WithRecorder(g.Recorder)
	if b.Release {
		builder = builder.WithRelease()
	}
	if b.Profile != "" {
		builder = builder.WithProfile(b.Profile)
	}
	if b.NoDefaultFeatures {
		builder = builder.NoDefaultFeatures()
	}
	if b.AllFeatures {
		builder = builder.WithAllFeatures()
	}

	path, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(g.Out, path)
	return err
}
