// Package resolve turns a finished build into exactly one executable path.
package resolve

import (
	"fmt"
	"strings"

	cerrors "git.home.luguber.info/inful/testbin/internal/cargo/errors"
	"git.home.luguber.info/inful/testbin/internal/events"
)

// DefaultDiagnosticsLimit is how many trailing bytes of diagnostics a
// Collector keeps.
const DefaultDiagnosticsLimit = 1 << 20

// Collector accumulates the events of one build that matter for resolution.
// It is not safe for concurrent use.
type Collector struct {
	binary      string
	matches     []*events.CompilerArtifact
	diagnostics []byte
	limit       int
	truncated   bool
	finished    *bool
}

// NewCollector returns a collector selecting "bin" artifacts named binary.
// Only the last limit bytes of diagnostics are kept; limit <= 0 selects
// DefaultDiagnosticsLimit.
func NewCollector(binary string, limit int) *Collector {
	if limit <= 0 {
		limit = DefaultDiagnosticsLimit
	}
	return &Collector{binary: binary, limit: limit}
}

// Observe records ev.
func (c *Collector) Observe(ev events.Event) {
	switch e := ev.(type) {
	case *events.CompilerArtifact:
		if e.Target.Name == c.binary && e.Target.HasKind("bin") {
			c.matches = append(c.matches, e)
		}
	case *events.CompilerMessage:
		c.appendDiagnostic(e.Message.Rendered)
	case *events.TextLine:
		c.appendDiagnostic(e.Text + "\n")
	case *events.BuildFinished:
		ok := e.Success
		c.finished = &ok
	}
}

// appendDiagnostic compacts the buffer once it holds twice the limit, so the
// retained text never exceeds 2*limit bytes between compactions.
func (c *Collector) appendDiagnostic(text string) {
	c.diagnostics = append(c.diagnostics, text...)
	if len(c.diagnostics) > 2*c.limit {
		c.diagnostics = append(c.diagnostics[:0], c.diagnostics[len(c.diagnostics)-c.limit:]...)
		c.truncated = true
	}
}

func (c *Collector) diagnosticsTail() string {
	if len(c.diagnostics) > c.limit {
		c.truncated = true
		return string(c.diagnostics[len(c.diagnostics)-c.limit:])
	}
	return string(c.diagnostics)
}

// Truncated reports whether earlier diagnostics were discarded.
func (c *Collector) Truncated() bool {
	return c.truncated || len(c.diagnostics) > c.limit
}

// Matches returns the artifacts observed so far.
func (c *Collector) Matches() []*events.CompilerArtifact {
	return c.matches
}

// Outcome builds the resolver input from the collected events.
func (c *Collector) Outcome(dir string, exitErr error, exitCode int, stderr string) Outcome {
	return Outcome{
		Binary:      c.binary,
		Dir:         dir,
		ExitErr:     exitErr,
		ExitCode:    exitCode,
		Stderr:      stderr,
		Diagnostics: c.diagnosticsTail(),
		Finished:    c.finished,
		Matches:     c.matches,
	}
}

// Outcome is everything known about a build once the child has exited.
type Outcome struct {
	Binary   string
	Dir      string
	ExitErr  error
	ExitCode int
	Stderr   string
	// Diagnostics holds the tail of rendered compiler messages and stray
	// text lines.
	Diagnostics string
	// Finished is the build-finished success flag, nil if never reported.
	Finished *bool
	Matches  []*events.CompilerArtifact
}

// Failed reports whether the build tool itself reported failure.
func (o Outcome) Failed() bool {
	return o.ExitErr != nil || (o.Finished != nil && !*o.Finished)
}

// Resolve applies the resolution policy to o. A failed build always wins over
// any artifact seen before the failure; the returned path is exactly as
// reported by the build tool.
func Resolve(o Outcome) (string, error) {
	if o.Failed() {
		err := cerrors.ErrBuildFailure.
			WithContext("binary", o.Binary).
			WithContext("dir", o.Dir).
			WithContext("exit_code", o.ExitCode).
			WithContext("stderr", o.Stderr).
			WithDetail(failureDetail(o))
		if o.ExitErr != nil {
			err = err.WithCause(o.ExitErr)
		}
		return "", err
	}

	switch len(o.Matches) {
	case 0:
		return "", cerrors.ErrArtifactNotFound.
			WithContext("binary", o.Binary).
			WithContext("dir", o.Dir).
			WithDetail(fmt.Sprintf("no bin target named %q was built; check the binary name and the package's [[bin]] targets", o.Binary))
	case 1:
	default:
		return "", ambiguous(o, o.Matches)
	}

	paths := o.Matches[0].ExecutablePaths()
	switch len(paths) {
	case 0:
		return "", cerrors.ErrArtifactNotFound.
			WithContext("binary", o.Binary).
			WithContext("dir", o.Dir).
			WithDetail(fmt.Sprintf("target %q of %s reported no executable file", o.Binary, o.Matches[0].PackageID))
	case 1:
		return paths[0], nil
	default:
		return "", ambiguous(o, o.Matches)
	}
}

func failureDetail(o Outcome) string {
	parts := make([]string, 0, 2)
	if o.Diagnostics != "" {
		parts = append(parts, strings.TrimRight(o.Diagnostics, "\n"))
	}
	if o.Stderr != "" {
		parts = append(parts, o.Stderr)
	}
	if len(parts) == 0 {
		if o.ExitErr != nil {
			return o.ExitErr.Error()
		}
		return "build tool reported failure without diagnostics"
	}
	return strings.Join(parts, "\n")
}

func ambiguous(o Outcome, matches []*events.CompilerArtifact) error {
	var b strings.Builder
	fmt.Fprintf(&b, "more than one executable matches %q:", o.Binary)
	for _, m := range matches {
		paths := m.ExecutablePaths()
		if len(paths) == 0 {
			fmt.Fprintf(&b, "\n  <no executable> (%s)", m.PackageID)
		}
		for _, p := range paths {
			fmt.Fprintf(&b, "\n  %s (%s)", p, m.PackageID)
		}
	}
	return cerrors.ErrArtifactAmbiguous.
		WithContext("binary", o.Binary).
		WithContext("dir", o.Dir).
		WithContext("matches", len(matches)).
		WithDetail(b.String())
}
