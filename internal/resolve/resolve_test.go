package resolve

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "git.home.luguber.info/inful/testbin/internal/cargo/errors"
	"git.home.luguber.info/inful/testbin/internal/events"
	ferrors "git.home.luguber.info/inful/testbin/internal/foundation/errors"
)

func artifact(pkg, name string, kind []string, paths ...string) *events.CompilerArtifact {
	return &events.CompilerArtifact{
		PackageID: pkg,
		Target:    events.Target{Name: name, Kind: kind},
		Filenames: paths,
	}
}

func collect(binary string, evs ...events.Event) *Collector {
	c := NewCollector(binary, 0)
	for _, ev := range evs {
		c.Observe(ev)
	}
	return c
}

func TestCollector_SelectsBinTargetsByName(t *testing.T) {
	c := collect("does-build",
		artifact("dep 0.1.0", "dep", []string{"lib"}, "libdep.rlib"),
		artifact("does-build 0.1.0", "does-build", []string{"lib"}, "libdoes_build.rlib"),
		artifact("does-build 0.1.0", "does-build", []string{"bin"}, "target/debug/does-build"),
		artifact("other 0.1.0", "other", []string{"bin"}, "target/debug/other"),
	)
	require.Len(t, c.Matches(), 1)
	assert.Equal(t, "does-build 0.1.0", c.Matches()[0].PackageID)
}

func TestCollector_DiagnosticsAreBounded(t *testing.T) {
	c := NewCollector("fla", 64)
	for i := range 100 {
		c.Observe(&events.CompilerMessage{Message: events.Diagnostic{Rendered: fmt.Sprintf("warning %03d\n", i)}})
	}
	c.Observe(&events.TextLine{Text: "last line"})

	o := c.Outcome("testbins/fla", nil, 0, "")
	assert.LessOrEqual(t, len(o.Diagnostics), 64)
	assert.True(t, strings.HasSuffix(o.Diagnostics, "warning 099\nlast line\n"), o.Diagnostics)
	assert.True(t, c.Truncated())
}

func TestCollector_SmallDiagnosticsKeptWhole(t *testing.T) {
	c := collect("fla",
		&events.CompilerMessage{Message: events.Diagnostic{Rendered: "error: oops\n"}},
		&events.TextLine{Text: "plain"},
	)
	assert.Equal(t, "error: oops\nplain\n", c.Outcome("d", nil, 0, "").Diagnostics)
	assert.False(t, c.Truncated())
}

func TestResolve(t *testing.T) {
	fail := false
	ok := true
	exitErr := errors.New("exit status 101")

	tests := []struct {
		name     string
		outcome  Outcome
		want     string
		sentinel error
	}{
		{
			name:    "single match",
			outcome: Outcome{Binary: "fla", Matches: []*events.CompilerArtifact{artifact("fla", "fla", []string{"bin"}, "target/debug/fla")}, Finished: &ok},
			want:    "target/debug/fla",
		},
		{
			name:     "no match",
			outcome:  Outcome{Binary: "fla", Finished: &ok},
			sentinel: cerrors.ErrArtifactNotFound,
		},
		{
			name:     "match without executable",
			outcome:  Outcome{Binary: "fla", Matches: []*events.CompilerArtifact{artifact("fla", "fla", []string{"bin"}, "target/debug/fla.pdb")}},
			sentinel: cerrors.ErrArtifactNotFound,
		},
		{
			name: "two matching events",
			outcome: Outcome{Binary: "fla", Matches: []*events.CompilerArtifact{
				artifact("a 0.1.0", "fla", []string{"bin"}, "a/fla"),
				artifact("b 0.1.0", "fla", []string{"bin"}, "b/fla"),
			}},
			sentinel: cerrors.ErrArtifactAmbiguous,
		},
		{
			name:     "one event with two executables",
			outcome:  Outcome{Binary: "fla", Matches: []*events.CompilerArtifact{artifact("a", "fla", []string{"bin"}, "x/fla", "y/fla")}},
			sentinel: cerrors.ErrArtifactAmbiguous,
		},
		{
			name:     "non-zero exit beats artifact",
			outcome:  Outcome{Binary: "fla", ExitErr: exitErr, ExitCode: 101, Stderr: "error: could not compile `fla`", Matches: []*events.CompilerArtifact{artifact("fla", "fla", []string{"bin"}, "target/debug/fla")}},
			sentinel: cerrors.ErrBuildFailure,
		},
		{
			name:     "build-finished false with zero exit",
			outcome:  Outcome{Binary: "fla", Finished: &fail},
			sentinel: cerrors.ErrBuildFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.outcome)
			if tt.sentinel == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.ErrorIs(t, err, tt.sentinel)
			assert.Empty(t, got)
		})
	}
}

func TestResolve_FailureCarriesDiagnosticsVerbatim(t *testing.T) {
	stderr := "   Compiling fla v0.1.0\nerror: could not compile `fla` (bin \"fla\") due to 1 previous error\n"
	c := collect("fla",
		artifact("fla", "fla", []string{"bin"}, "target/debug/fla"),
		&events.CompilerMessage{Message: events.Diagnostic{Rendered: "error: unknown start of token\n\n"}},
		&events.TextLine{Text: "Surprise text line!"},
	)
	cause := errors.New("exit status 101")

	path, err := Resolve(c.Outcome("testbins/fla", cause, 101, stderr))
	require.Error(t, err)
	assert.Empty(t, path)
	assert.ErrorIs(t, err, cerrors.ErrBuildFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), stderr)
	assert.Contains(t, err.Error(), "error: unknown start of token")
	assert.Contains(t, err.Error(), "Surprise text line!")

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	got, _ := ce.Context().GetString("stderr")
	assert.Equal(t, stderr, got)
	binary, _ := ce.Context().GetString("binary")
	assert.Equal(t, "fla", binary)
}

func TestResolve_FailureWithoutOutput(t *testing.T) {
	_, err := Resolve(Outcome{Binary: "fla", ExitErr: errors.New("signal: killed")})
	require.ErrorIs(t, err, cerrors.ErrBuildFailure)
	assert.Contains(t, err.Error(), "signal: killed")
}

func TestResolve_AmbiguousListsCandidates(t *testing.T) {
	_, err := Resolve(Outcome{Binary: "fla", Matches: []*events.CompilerArtifact{
		artifact("a 0.1.0", "fla", []string{"bin"}, "a/fla"),
		artifact("b 0.1.0", "fla", []string{"bin"}, "b/fla"),
	}})
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.Contains(msg, "a/fla (a 0.1.0)") && strings.Contains(msg, "b/fla (b 0.1.0)"), msg)
	assert.False(t, errors.Is(err, cerrors.ErrArtifactNotFound))
}
