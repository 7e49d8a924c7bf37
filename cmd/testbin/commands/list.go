package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/testbin/internal/config"
	"git.home.luguber.info/inful/testbin/internal/logfields"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	Config string `short:"c" help:"Configuration file path" default:"testbin.yaml"`
}

func (l *ListCmd) Run(g *Global) error {
	cfg, err := config.Load(l.Config)
	if err != nil {
		return err
	}
	g.Logger.Debug("Loaded configuration", logfields.Config(l.Config), "binaries", len(cfg.Binaries))

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIR\tPROFILE\tFEATURES")
	for _, b := range cfg.Binaries {
		profile := b.Profile
		if profile == "" {
			profile = "dev"
		}
		features := strings.Join(b.Features, ",")
		switch {
		case b.AllFeatures:
			features = "(all)"
		case b.NoDefaultFeatures && features == "":
			features = "(none)"
		case features == "":
			features = "(default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Name, b.Dir, profile, features)
	}
	return tw.Flush()
}
