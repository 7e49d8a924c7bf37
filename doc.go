// Package testbin builds the auxiliary executables a test suite needs by
// running `cargo build` and reporting where the binary was written.
//
// The simplest entry point builds with default options:
//
//	path, err := testbin.Build(ctx, "does-build", "testbins/does-build")
//
// Options are accumulated on an immutable Builder and validated before cargo
// is started:
//
//	path, err := testbin.New("feature-test", "testbins/feature-test").
//		WithRelease().
//		NoDefaultFeatures().
//		WithFeature("working").
//		Build(ctx)
//
// BuildOnce memoizes outcomes for the lifetime of the process, so any number
// of parallel tests can ask for the same binary and cargo runs once:
//
//	path, err := testbin.BuildOnce(ctx, "does-build", "testbins/does-build")
//
// Returned paths are exactly what cargo reported. Cargo reports absolute
// paths; if it ever reports a relative one it is relative to the directory
// passed in, so callers should not change working directory before use.
//
// Errors match one of the exported sentinels with errors.Is.
package testbin
