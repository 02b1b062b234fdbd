// Package metrics exposes build observability hooks.
package metrics

import "time"

// Outcome labels the result of a build pass.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Recorder receives build and per-file observations. Implementations may
// forward to Prometheus or anything else.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome Outcome)
	IncFileAction(action string)
	SetLastBuild(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(Outcome)            {}
func (NoopRecorder) IncFileAction(string)               {}
func (NoopRecorder) SetLastBuild(time.Time)             {}
