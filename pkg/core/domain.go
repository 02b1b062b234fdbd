// Package core holds the build pipeline of stitch: title resolution, page
// composition, staleness decisions, the build orchestrator and the watch loop.
//
// Filesystem access goes through the Store and Watcher ports so the pipeline
// can be driven by the default fs adapter or by test doubles.
package core

import (
	"strings"
	"time"
)

// Kind classifies an input file.
type Kind string

const (
	KindPage  Kind = "page"
	KindAsset Kind = "asset"
)

// InputFile is a file found under the input root during one build pass.
type InputFile struct {
	RelPath string // slash-separated, relative to the input root
	Path    string // full path on disk
	Kind    Kind
	ModTime time.Time
}

// ClassifyKind returns KindPage for HTML fragments and KindAsset otherwise.
func ClassifyKind(name string) Kind {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") {
		return KindPage
	}
	return KindAsset
}

// PartialKind names one of the shared structural fragments.
type PartialKind string

const (
	PartialHead   PartialKind = "head"
	PartialHeader PartialKind = "header"
	PartialFooter PartialKind = "footer"
)

// RequiredPartials lists the partials every build needs, in load order.
var RequiredPartials = []PartialKind{PartialHead, PartialHeader, PartialFooter}

// FileName is the partial's file name inside the partials root.
func (k PartialKind) FileName() string {
	return string(k) + ".html"
}

// Partials are the shared fragments loaded once per build pass.
type Partials struct {
	Head   string
	Header string
	Footer string

	// Newest is the most recent modification time among the partials.
	Newest time.Time
}

// Action is what the orchestrator did (or would do) with one input file.
type Action string

const (
	ActionCompose      Action = "compose"
	ActionCopy         Action = "copy"
	ActionFresh        Action = "fresh"
	ActionWouldCompose Action = "would compose"
	ActionWouldCopy    Action = "would copy"
)

// Report summarizes one build pass.
type Report struct {
	BuildID  string
	Actions  map[Action]int
	Marker   string // value written to the reload marker, empty if none
	Duration time.Duration
}

// Count returns how many files received the given action.
func (r Report) Count(a Action) int {
	return r.Actions[a]
}

// Writes returns the number of output files written (or simulated) by the pass.
func (r Report) Writes() int {
	return r.Actions[ActionCompose] + r.Actions[ActionCopy] +
		r.Actions[ActionWouldCompose] + r.Actions[ActionWouldCopy]
}

// EventType represents the type of change observed under a watched root.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change under the input or partials root.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Path
}
