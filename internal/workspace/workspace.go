// Package workspace finds the source directory of a package inside a cargo
// workspace by asking `cargo metadata`.
package workspace

import (
	"context"
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/testbin/internal/cargo"
	cerrors "git.home.luguber.info/inful/testbin/internal/cargo/errors"
	ferrors "git.home.luguber.info/inful/testbin/internal/foundation/errors"
)

// Package is the subset of a `cargo metadata` package record in use here.
type Package struct {
	Name         string   `json:"name"`
	ID           string   `json:"id"`
	ManifestPath string   `json:"manifest_path"`
	Targets      []Target `json:"targets"`
}

// Target is a package target as reported by `cargo metadata`.
type Target struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// Dir returns the directory holding the package manifest.
func (p Package) Dir() string {
	return filepath.Dir(p.ManifestPath)
}

// HasBin reports whether the package declares a bin target called name.
func (p Package) HasBin(name string) bool {
	for _, t := range p.Targets {
		if t.Name == name && slices.Contains(t.Kind, "bin") {
			return true
		}
	}
	return false
}

// Metadata is the decoded output of `cargo metadata --format-version 1`.
type Metadata struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	WorkspaceRoot    string    `json:"workspace_root"`
}

// Members returns the packages that belong to the workspace.
func (m Metadata) Members() []Package {
	out := make([]Package, 0, len(m.WorkspaceMembers))
	for _, p := range m.Packages {
		if slices.Contains(m.WorkspaceMembers, p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the workspace member named name.
func (m Metadata) Find(name string) (Package, bool) {
	for _, p := range m.Members() {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}

// Load runs `cargo metadata` in dir.
func Load(ctx context.Context, inv *cargo.Invoker, dir string) (Metadata, error) {
	out, err := inv.Output(ctx, dir, "metadata", "--format-version", "1", "--no-deps")
	if err != nil {
		return Metadata{}, err
	}
	var md Metadata
	if err := json.Unmarshal(out, &md); err != nil {
		return Metadata{}, ferrors.WrapError(err, ferrors.CategoryInternal, "decode cargo metadata").
			WithContext("dir", dir).
			Build()
	}
	return md, nil
}

// Locate returns the workspace member called name.
func Locate(ctx context.Context, inv *cargo.Invoker, dir, name string) (Package, error) {
	md, err := Load(ctx, inv, dir)
	if err != nil {
		return Package{}, err
	}
	if p, ok := md.Find(name); ok {
		return p, nil
	}
	names := make([]string, 0, len(md.WorkspaceMembers))
	for _, p := range md.Members() {
		names = append(names, p.Name)
	}
	slices.Sort(names)
	return Package{}, cerrors.ErrPackageNotFound.
		WithContext("binary", name).
		WithContext("dir", dir).
		WithContext("workspace_root", md.WorkspaceRoot).
		WithDetail("workspace members: " + strings.Join(names, ", "))
}
