package commands

import (
	"fmt"

	"git.home.luguber.info/inful/testbin/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Config string `short:"c" help:"Configuration file path" default:"testbin.yaml"`
	Force  bool   `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global) error {
	if err := config.Init(i.Config, i.Force); err != nil {
		return err
	}
	_, err := fmt.Fprintf(g.Out, "Wrote %s\n", i.Config)
	return err
}
