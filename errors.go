package testbin

import cerrors "git.home.luguber.info/inful/testbin/internal/cargo/errors"

// Sentinel errors. Returned errors carry context and diagnostics and match
// these with errors.Is.
var (
	ErrConfiguration     = cerrors.ErrConfiguration
	ErrLaunch            = cerrors.ErrLaunch
	ErrBuildFailure      = cerrors.ErrBuildFailure
	ErrArtifactNotFound  = cerrors.ErrArtifactNotFound
	ErrArtifactAmbiguous = cerrors.ErrArtifactAmbiguous
	ErrPackageNotFound   = cerrors.ErrPackageNotFound
)
