package events

import (
	"path/filepath"
	"slices"
	"strings"
)

// Reason values emitted by cargo.
const (
	ReasonCompilerArtifact    = "compiler-artifact"
	ReasonCompilerMessage     = "compiler-message"
	ReasonBuildScriptExecuted = "build-script-executed"
	ReasonBuildFinished       = "build-finished"
)

// Event is one decoded record of the build stream.
type Event interface {
	// Reason returns the record's discriminant, or "" for non-JSON lines.
	Reason() string
}

// Target describes the compilation target an artifact or message belongs to.
type Target struct {
	Name       string   `json:"name"`
	Kind       []string `json:"kind"`
	CrateTypes []string `json:"crate_types"`
	SrcPath    string   `json:"src_path"`
}

// HasKind reports whether the target is of the given kind (e.g. "bin").
func (t Target) HasKind(kind string) bool {
	return slices.Contains(t.Kind, kind)
}

// ArtifactProfile is the effective profile settings of an artifact.
type ArtifactProfile struct {
	OptLevel        string `json:"opt_level"`
	DebugInfo       any    `json:"debuginfo"`
	DebugAssertions bool   `json:"debug_assertions"`
	OverflowChecks  bool   `json:"overflow_checks"`
	Test            bool   `json:"test"`
}

// CompilerArtifact reports files produced for one target.
type CompilerArtifact struct {
	PackageID  string          `json:"package_id"`
	Target     Target          `json:"target"`
	Profile    ArtifactProfile `json:"profile"`
	Features   []string        `json:"features"`
	Filenames  []string        `json:"filenames"`
	Executable string          `json:"executable"`
	Fresh      bool            `json:"fresh"`
}

func (*CompilerArtifact) Reason() string { return ReasonCompilerArtifact }

// nonExecutableExt lists outputs that cargo reports next to executables.
var nonExecutableExt = []string{".pdb", ".dsym", ".d", ".rlib", ".rmeta", ".a", ".so", ".dylib", ".dll", ".lib"}

// ExecutablePaths returns the runnable files of the artifact, exactly as reported.
// The executable field wins; older cargo versions only fill filenames.
func (a *CompilerArtifact) ExecutablePaths() []string {
	if a.Executable != "" {
		return []string{a.Executable}
	}
	var out []string
	for _, f := range a.Filenames {
		if slices.Contains(nonExecutableExt, strings.ToLower(filepath.Ext(f))) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Diagnostic is the compiler message payload; only the rendered text is kept.
type Diagnostic struct {
	Message  string `json:"message"`
	Level    string `json:"level"`
	Rendered string `json:"rendered"`
}

// CompilerMessage carries one rustc diagnostic.
type CompilerMessage struct {
	PackageID string     `json:"package_id"`
	Target    Target     `json:"target"`
	Message   Diagnostic `json:"message"`
}

func (*CompilerMessage) Reason() string { return ReasonCompilerMessage }

// BuildScriptExecuted reports a finished build script run.
type BuildScriptExecuted struct {
	PackageID string `json:"package_id"`
	OutDir    string `json:"out_dir"`
}

func (*BuildScriptExecuted) Reason() string { return ReasonBuildScriptExecuted }

// BuildFinished is the last record of a build.
type BuildFinished struct {
	Success bool `json:"-"`
}

func (*BuildFinished) Reason() string { return ReasonBuildFinished }

// TextLine is a stdout line that was not a JSON object.
type TextLine struct {
	Text string
}

func (*TextLine) Reason() string { return "" }

// Unknown is a JSON record that could not be mapped to a known variant.
type Unknown struct {
	Kind string
	Raw  []byte
}

func (u *Unknown) Reason() string { return u.Kind }
