// Command testbin builds cargo test binaries and prints their paths.
package main

import (
	"os"

	"git.home.luguber.info/inful/testbin/cmd/testbin/commands"
)

func main() {
	os.Exit(commands.Main(os.Args[1:], os.Stdout, os.Stderr))
}
