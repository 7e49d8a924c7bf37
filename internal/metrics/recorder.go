package metrics

import "time"

// OutcomeLabel enumerates build outcome categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess          OutcomeLabel = "success"
	OutcomeBuildFailure     OutcomeLabel = "build_failure"
	OutcomeArtifactNotFound OutcomeLabel = "not_found"
	OutcomeAmbiguous        OutcomeLabel = "ambiguous"
	OutcomeLaunchError      OutcomeLabel = "launch_error"
	OutcomeConfigError      OutcomeLabel = "config_error"
)

// Recorder defines observability hooks for cargo invocations and the build cache.
// Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveBuildDuration(binary string, d time.Duration)
	IncBuildOutcome(outcome OutcomeLabel)
	IncCacheLookup(hit bool)
	AddSkippedRecords(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(string, time.Duration) {}
func (NoopRecorder) IncBuildOutcome(OutcomeLabel)               {}
func (NoopRecorder) IncCacheLookup(bool)                        {}
func (NoopRecorder) AddSkippedRecords(int)                      {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
