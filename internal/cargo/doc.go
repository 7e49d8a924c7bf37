// Package cargo runs `cargo build` for a single binary target and feeds its
// JSON-lines output to the event decoder while the build is in progress.
//
// The invoker never buffers stdout as a whole. Stderr is drained
// concurrently; its most recent bytes are kept for error reports and every
// line is mirrored to the debug log.
package cargo
