//go:build !unix

package cargo

import "os/exec"

func setProcessGroup(*exec.Cmd) {}
