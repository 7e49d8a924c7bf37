// Package errors provides the sentinel errors of a test binary build.
//
// Each sentinel is a ClassifiedError; occurrences are specialised with
// WithContext/WithDetail/WithCause and still match the sentinel through
// errors.Is, so callers can tell "did not compile" apart from "asked for the
// wrong target".
package errors

import ferrors "git.home.luguber.info/inful/testbin/internal/foundation/errors"

var (
	// ErrConfiguration indicates invalid or conflicting build options.
	ErrConfiguration = ferrors.ConfigError("invalid build configuration").Build()
	// ErrLaunch indicates the build tool executable could not be started.
	ErrLaunch = ferrors.LaunchError("failed to start build tool").Build()
	// ErrBuildFailure indicates the build tool ran and reported failure.
	ErrBuildFailure = ferrors.BuildError("build failed").Build()
	// ErrArtifactNotFound indicates a successful build produced no matching executable.
	ErrArtifactNotFound = ferrors.ArtifactError("binary not produced").Build()
	// ErrArtifactAmbiguous indicates more than one executable matched the binary name.
	ErrArtifactAmbiguous = ferrors.ArtifactError("ambiguous artifact").Build()
	// ErrPackageNotFound indicates no workspace member has the requested name.
	ErrPackageNotFound = ferrors.NotFoundError("package not found in workspace").Build()
)
