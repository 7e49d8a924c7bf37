// Package metrics provides observability hooks for test binary builds.
//
// # Design Philosophy
//
// This package implements the Null Object pattern so that build code can
// record metrics without nil checks. By default every component uses
// NoopRecorder, whose methods do nothing.
//
// # Usage Pattern
//
// Components receive a Recorder through their options:
//
//	inv := cargo.NewInvoker(cargo.WithRecorder(recorder))
//
// # Activation
//
// The testbin CLI swaps in a PrometheusRecorder when --metrics is given and
// writes the gathered families in the text exposition format when the run
// finishes, for consumption by a node_exporter textfile collector or CI
// artifact upload.
package metrics
