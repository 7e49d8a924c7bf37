// Package errors provides foundational, type-safe error primitives used across testbin.
//
// This package contains classified error types and helpers for error handling
// around test binary builds, including a fluent builder API for constructing
// ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, launch, build, artifact, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, context and detail text
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter for exit codes and error presentation
//
// A ClassifiedError matches another under errors.Is when both carry the same
// category and message, so package-level sentinels can be specialised with
// context and still be recognised by callers:
//
//	var ErrArtifactNotFound = errors.ArtifactError("binary not produced").Build()
//
//	return ErrArtifactNotFound.WithContext("binary", name)
//
// Example usage:
//
//	err := errors.WrapError(exitErr, errors.CategoryBuild, "cargo build failed").
//		WithContext("binary", name).
//		WithDetail(stderr).
//		Build()
package errors
