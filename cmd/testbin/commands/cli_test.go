package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/testbin/internal/cargo/cargotest"
	"git.home.luguber.info/inful/testbin/internal/version"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Main(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestBuildCommand(t *testing.T) {
	dir := cargotest.Crate(t, "does-build")
	fake := cargotest.Install(t, cargotest.Fake{
		Stdout: cargotest.Lines(cargotest.ArtifactLine("does-build", "/work/target/release/does-build"), cargotest.FinishedLine(true)),
	})

	code, out, errOut := runCLI(t, "build", "does-build", "--dir", dir, "--cargo", fake.Program,
		"--release", "-F", "working", "--feature", "extra", "--", "--locked")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "/work/target/release/does-build\n", out)
	assert.Equal(t, []string{
		"build", "--message-format=json-diagnostic-rendered-ansi",
		"--release", "--features", "working,extra",
		"--bin", "does-build", "--locked",
	}, fake.Args(t))
}

func TestBuildCommand_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		fake cargotest.Fake
		args []string
		code int
		msg  string
	}{
		{
			name: "not produced",
			fake: cargotest.Fake{Stdout: cargotest.Lines(cargotest.FinishedLine(true))},
			code: 12,
			msg:  "artifact: binary not produced",
		},
		{
			name: "compile error",
			fake: cargotest.Fake{Stderr: "error[E0425]: cannot find value\n", ExitCode: 101},
			code: 11,
			msg:  "error[E0425]: cannot find value",
		},
		{
			name: "conflicting options",
			fake: cargotest.Fake{},
			args: []string{"--release", "--profile", "ci"},
			code: 7,
			msg:  "config: invalid build configuration",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := cargotest.Install(t, tt.fake)
			args := append([]string{"build", "fla", "--dir", cargotest.Crate(t, "fla"), "--cargo", fake.Program}, tt.args...)
			code, out, errOut := runCLI(t, args...)
			assert.Equal(t, tt.code, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, tt.msg)
		})
	}
}

func TestBuildCommand_LaunchError(t *testing.T) {
	code, _, errOut := runCLI(t, "build", "fla", "--dir", cargotest.Crate(t, "fla"), "--cargo", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 8, code)
	assert.Contains(t, errOut, "launch: failed to start build tool")
}

func TestParseError(t *testing.T) {
	code, _, errOut := runCLI(t, "build")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "testbin:")
}

func TestVersionAndHelpReturnToCaller(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, version.String()+"\n", out)

	code, out, _ = runCLI(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: testbin")
}

func writeConfig(t *testing.T, cargo string, names ...string) string {
	t.Helper()
	base := t.TempDir()
	var b strings.Builder
	b.WriteString("cargo: " + cargo + "\nbase_dir: " + base + "\nenv:\n  RUSTFLAGS: -Awarnings\nbinaries:\n")
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(base, n), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(base, n, "Cargo.toml"), []byte("[package]\nname = \""+n+"\"\n"), 0o644))
		b.WriteString("  - name: " + n + "\n")
	}
	b.WriteString("  - name: feature-test\n    dir: " + names[0] + "\n    profile: release\n    features: [working]\n    no_default_features: true\n")
	path := filepath.Join(t.TempDir(), "testbin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestListCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := writeConfig(t, "cargo", "does-build")

	code, out, errOut := runCLI(t, "list", "--config", cfg)
	require.Equal(t, 0, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "does-build")
	assert.Contains(t, lines[1], "(default)")
	assert.Contains(t, lines[2], "feature-test")
	assert.Contains(t, lines[2], "release")
	assert.Contains(t, lines[2], "working")
}

func TestLocateCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	fake := cargotest.Install(t, cargotest.Fake{
		Stdout: cargotest.Lines(cargotest.ArtifactLine("does-build", "/work/target/debug/does-build"), cargotest.FinishedLine(true)),
	})
	cfg := writeConfig(t, fake.Program, "does-build")
	metricsFile := filepath.Join(t.TempDir(), "testbin.prom")

	code, out, errOut := runCLI(t, "--metrics", metricsFile, "locate", "--config", cfg, "does-build", "does-build")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "does-build\t/work/target/debug/does-build\ndoes-build\t/work/target/debug/does-build\n", out)
	assert.Equal(t, 1, fake.Invocations(t))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `testbin_build_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, string(data), `testbin_cache_lookups_total{result="miss"}`)
}

func TestLocateCommand_PartialFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	// The fake only ever reports does-build, so feature-test is not produced.
	fake := cargotest.Install(t, cargotest.Fake{
		Stdout: cargotest.Lines(cargotest.ArtifactLine("does-build", "/work/target/debug/does-build"), cargotest.FinishedLine(true)),
	})
	cfg := writeConfig(t, fake.Program, "does-build")

	code, out, errOut := runCLI(t, "locate", "--config", cfg)
	assert.Equal(t, 12, code)
	assert.Equal(t, "does-build\t/work/target/debug/does-build\n", out)
	assert.Contains(t, errOut, "binary not produced")
	assert.Equal(t, 2, fake.Invocations(t))
}

func TestLocateCommand_UnknownName(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := writeConfig(t, "cargo", "does-build")
	code, _, errOut := runCLI(t, "locate", "--config", cfg, "nope")
	assert.Equal(t, 4, code)
	assert.Contains(t, errOut, "binary not configured")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "testbin.yaml")

	code, out, errOut := runCLI(t, "init", "--config", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Wrote")

	code, _, errOut = runCLI(t, "init", "--config", path)
	assert.Equal(t, 7, code)
	assert.Contains(t, errOut, "already exists")
}
