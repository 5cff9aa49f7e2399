package domain

import "strings"

// Optional distinguishes a value the server reported from one it omitted.
type Optional[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{value: v, ok: true} }

func None[T any]() Optional[T] { return Optional[T]{} }

func (o Optional[T]) Get() (T, bool) { return o.value, o.ok }

func (o Optional[T]) IsSet() bool { return o.ok }

func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Color is the health indicator of a job, e.g. "blue", "red", "blue_anime".
type Color string

const buildingSuffix = "_anime"

// Building reports whether the indicator marks a build in progress.
func (c Color) Building() bool {
	return strings.Contains(string(c), buildingSuffix)
}

type JobState int

const (
	StateIdle JobState = iota
	StateQueued
	StateActive
)

func (s JobState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateQueued:
		return "queued"
	default:
		return "idle"
	}
}

type BuildResult string

const (
	ResultSuccess  BuildResult = "SUCCESS"
	ResultFailure  BuildResult = "FAILURE"
	ResultUnstable BuildResult = "UNSTABLE"
	ResultAborted  BuildResult = "ABORTED"
)

type Snapshot struct {
	Job       string
	Build     int
	Result    BuildResult
	Color     Color
	URL       string
	Retrieved int64
}
