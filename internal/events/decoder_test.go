package events

import (
	"errors"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, input string) ([]Event, *Decoder) {
	t.Helper()
	d := NewDecoder(strings.NewReader(input))
	evs := slices.Collect(d.All())
	require.NoError(t, d.Err())
	return evs, d
}

func TestDecoder_Success(t *testing.T) {
	data, err := os.ReadFile("testdata/success.jsonl")
	require.NoError(t, err)

	evs, d := decodeAll(t, string(data))
	require.Len(t, evs, 2)
	assert.Zero(t, d.Skipped())

	art, ok := evs[0].(*CompilerArtifact)
	require.True(t, ok, "first event should be an artifact, got %T", evs[0])
	assert.Equal(t, "fla", art.Target.Name)
	assert.True(t, art.Target.HasKind("bin"))
	assert.Equal(t, "0", art.Profile.OptLevel)
	assert.True(t, art.Profile.DebugAssertions)
	assert.Equal(t, []string{"/test-binary/testbins/fla/target/debug/fla"}, art.ExecutablePaths())

	fin, ok := evs[1].(*BuildFinished)
	require.True(t, ok)
	assert.True(t, fin.Success)
}

func TestDecoder_FailureWithTextLine(t *testing.T) {
	data, err := os.ReadFile("testdata/failure.jsonl")
	require.NoError(t, err)

	evs, d := decodeAll(t, string(data))
	require.Len(t, evs, 4)
	assert.Equal(t, 1, d.Skipped())

	msg, ok := evs[0].(*CompilerMessage)
	require.True(t, ok)
	assert.Equal(t, "error", msg.Message.Level)
	assert.True(t, strings.HasPrefix(msg.Message.Rendered, `error: unknown start of token: \u{1f9a9}`))

	text, ok := evs[1].(*TextLine)
	require.True(t, ok)
	assert.Equal(t, "Surprise text line!", text.Text)
	assert.Empty(t, text.Reason())

	fin, ok := evs[3].(*BuildFinished)
	require.True(t, ok)
	assert.False(t, fin.Success)
}

func TestDecoder_TolerantRecords(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		kind    string
		skipped int
	}{
		{"unknown reason", `{"reason":"timing-info","unit":{}}`, "timing-info", 0},
		{"missing reason", `{"package_id":"x"}`, "", 0},
		{"build finished without success", `{"reason":"build-finished"}`, ReasonBuildFinished, 0},
		{"artifact without target", `{"reason":"compiler-artifact","package_id":"x 0.1.0","filenames":["x"]}`, ReasonCompilerArtifact, 0},
		{"artifact with wrong field type", `{"reason":"compiler-artifact","package_id":"x","target":"bin"}`, ReasonCompilerArtifact, 0},
		{"build script without package", `{"reason":"build-script-executed"}`, ReasonBuildScriptExecuted, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evs, d := decodeAll(t, tt.line+"\n")
			require.Len(t, evs, 1)
			u, ok := evs[0].(*Unknown)
			require.True(t, ok, "got %T", evs[0])
			assert.Equal(t, tt.kind, u.Reason())
			assert.Equal(t, tt.line, string(u.Raw))
			assert.Equal(t, tt.skipped, d.Skipped())
		})
	}
}

func TestDecoder_SkipsNonJSON(t *testing.T) {
	input := "   Compiling fla v0.1.0\n\n[1,2]\n{not json\n" + `{"reason":"build-finished","success":true}` + "\n"
	evs, d := decodeAll(t, input)
	require.Len(t, evs, 4)
	assert.Equal(t, 3, d.Skipped())
	assert.IsType(t, &BuildFinished{}, evs[3])
}

func TestDecoder_UnknownFieldsIgnored(t *testing.T) {
	line := `{"reason":"build-script-executed","package_id":"p 1.0.0","linked_libs":[],"out_dir":"/tmp/out","new_field":{"a":1}}`
	evs, _ := decodeAll(t, line)
	require.Len(t, evs, 1)
	b, ok := evs[0].(*BuildScriptExecuted)
	require.True(t, ok)
	assert.Equal(t, "/tmp/out", b.OutDir)
}

func TestDecoder_StopEarly(t *testing.T) {
	input := `{"reason":"build-finished","success":true}` + "\n" + `{"reason":"build-finished","success":false}` + "\n"
	d := NewDecoder(strings.NewReader(input))
	n := 0
	for range d.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestDecoder_ReadError(t *testing.T) {
	d := NewDecoder(failingReader{})
	assert.Empty(t, slices.Collect(d.All()))
	require.EqualError(t, d.Err(), "pipe closed")
}

func TestExecutablePaths(t *testing.T) {
	tests := []struct {
		name string
		art  CompilerArtifact
		want []string
	}{
		{
			name: "executable field wins",
			art:  CompilerArtifact{Executable: "target/debug/a", Filenames: []string{"target/debug/a", "target/debug/a.pdb"}},
			want: []string{"target/debug/a"},
		},
		{
			name: "filenames filtered",
			art:  CompilerArtifact{Filenames: []string{`target\debug\a.exe`, `target\debug\a.pdb`, "target/debug/a.dSYM"}},
			want: []string{`target\debug\a.exe`},
		},
		{
			name: "library outputs only",
			art:  CompilerArtifact{Filenames: []string{"liba.rlib", "liba.rmeta"}},
			want: nil,
		},
		{
			name: "two executables",
			art:  CompilerArtifact{Filenames: []string{"a", "b"}},
			want: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.art.ExecutablePaths())
		})
	}
}
