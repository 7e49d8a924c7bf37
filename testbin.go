package testbin

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/testbin/internal/cargo"
	"git.home.luguber.info/inful/testbin/internal/workspace"
)

// Build compiles the bin target name of the package in dir with default
// options and returns the executable's path.
func Build(ctx context.Context, name, dir string) (string, error) {
	return New(name, dir).Build(ctx)
}

// FromWorkspace returns a Builder for the workspace member called name,
// found by running `cargo metadata` in workspaceDir. The member must declare
// a bin target of the same name.
func FromWorkspace(ctx context.Context, name, workspaceDir string) (Builder, error) {
	pkg, err := workspace.Locate(ctx, cargo.NewInvoker(), workspaceDir, name)
	if err != nil {
		return Builder{}, err
	}
	if !pkg.HasBin(name) {
		return Builder{}, ErrArtifactNotFound.
			WithContext("binary", name).
			WithContext("dir", pkg.Dir()).
			WithDetail(fmt.Sprintf("package %s declares no bin target named %q", pkg.ID, name))
	}
	return New(name, pkg.Dir()), nil
}
