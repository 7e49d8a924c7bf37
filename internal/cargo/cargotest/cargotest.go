// Package cargotest provides a scripted stand-in for the cargo executable.
//
// The fake is a POSIX shell script written into a temporary directory. It
// replays canned stdout and stderr, exits with a chosen code and records
// every invocation so tests can assert how often, where and with which
// arguments cargo was started.
package cargotest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Fake describes the behaviour of one fake cargo executable.
type Fake struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Hang makes the script sleep before producing output, for cancellation tests.
	Hang bool
}

// Cargo is an installed fake.
type Cargo struct {
	Program string
	dir     string
}

// Install writes the fake into a fresh temporary directory.
func Install(t testing.TB, f Fake) *Cargo {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake cargo is a POSIX shell script")
	}
	dir := t.TempDir()
	write(t, filepath.Join(dir, "stdout"), f.Stdout, 0o644)
	write(t, filepath.Join(dir, "stderr"), f.Stderr, 0o644)

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "echo run >> %q\n", filepath.Join(dir, "count"))
	fmt.Fprintf(&b, "pwd > %q\n", filepath.Join(dir, "pwd"))
	fmt.Fprintf(&b, "printf '%%s\\n' \"$@\" > %q\n", filepath.Join(dir, "args"))
	if f.Hang {
		b.WriteString("sleep 30\n")
	}
	fmt.Fprintf(&b, "cat %q\n", filepath.Join(dir, "stdout"))
	fmt.Fprintf(&b, "cat %q >&2\n", filepath.Join(dir, "stderr"))
	fmt.Fprintf(&b, "exit %d\n", f.ExitCode)

	program := filepath.Join(dir, "cargo")
	write(t, program, b.String(), 0o755)
	return &Cargo{Program: program, dir: dir}
}

// Invocations returns how many times the fake ran.
func (c *Cargo) Invocations(t testing.TB) int {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(c.dir, "count"))
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("read invocation count: %v", err)
	}
	return strings.Count(string(data), "\n")
}

// Args returns the arguments of the most recent invocation.
func (c *Cargo) Args(t testing.TB) []string {
	t.Helper()
	return strings.Split(strings.TrimSuffix(c.read(t, "args"), "\n"), "\n")
}

// WorkDir returns the working directory of the most recent invocation.
func (c *Cargo) WorkDir(t testing.TB) string {
	t.Helper()
	return strings.TrimSpace(c.read(t, "pwd"))
}

func (c *Cargo) read(t testing.TB, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

// Crate creates a directory containing a minimal Cargo.toml for package name.
func Crate(t testing.TB, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := fmt.Sprintf("[package]\nname = %q\nversion = \"0.1.0\"\nedition = \"2021\"\n", name)
	write(t, filepath.Join(dir, "Cargo.toml"), manifest, 0o644)
	return dir
}

// Executable writes a shell script that exits 0 and returns its path.
func Executable(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	write(t, path, "#!/bin/sh\nexit 0\n", 0o755)
	return path
}

// ArtifactLine renders a compiler-artifact record for a bin target.
func ArtifactLine(name string, paths ...string) string {
	return ArtifactLineFor(name+" 0.1.0 (path+file:///testbins/"+name+")", name, []string{"bin"}, paths...)
}

// ArtifactLineFor renders a compiler-artifact record with full control over
// package id and target kinds.
func ArtifactLineFor(packageID, name string, kind []string, paths ...string) string {
	rec := map[string]any{
		"reason":     "compiler-artifact",
		"package_id": packageID,
		"target": map[string]any{
			"name":        name,
			"kind":        kind,
			"crate_types": kind,
			"src_path":    "/testbins/" + name + "/src/main.rs",
		},
		"profile": map[string]any{
			"opt_level":        "0",
			"debuginfo":        2,
			"debug_assertions": true,
			"overflow_checks":  true,
			"test":             false,
		},
		"features":  []string{},
		"filenames": paths,
		"fresh":     false,
	}
	if paths == nil {
		rec["filenames"] = []string{}
	}
	return mustJSON(rec)
}

// MessageLine renders a compiler-message record with the given rendered text.
func MessageLine(name, rendered string) string {
	return mustJSON(map[string]any{
		"reason":     "compiler-message",
		"package_id": name + " 0.1.0 (path+file:///testbins/" + name + ")",
		"target":     map[string]any{"name": name, "kind": []string{"bin"}},
		"message":    map[string]any{"rendered": rendered, "level": "error", "message": strings.TrimSpace(rendered)},
	})
}

// FinishedLine renders a build-finished record.
func FinishedLine(success bool) string {
	return mustJSON(map[string]any{"reason": "build-finished", "success": success})
}

// Lines joins records into newline-terminated output.
func Lines(records ...string) string {
	return strings.Join(records, "\n") + "\n"
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func write(t testing.TB, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
