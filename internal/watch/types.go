// Package watch implements the file watcher (spec.md §4.7): a hybrid
// fsnotify/polling watcher that emits coalesced, ignore-filtered change
// events to the ingest pipeline, with a cold-start reconciliation walk and
// an asymmetric backpressure policy.
//
// Grounded directly on the teacher's internal/watcher package (HybridWatcher,
// Debouncer, PollingWatcher), generalized from a hardcoded ".amanmcp"
// exclusion to enginepath's engine-state directory, and from an
// undifferentiated drop-whole-batch backpressure policy to an asymmetric
// one: create/delete are never dropped, and a full queue drops its oldest
// queued modify whether or not a newer event for that path is queued.
package watch

import "time"

// Operation enumerates the change kinds spec.md §4.7 names. Renames are
// not a distinct kind here: per spec.md, a rename is always split into a
// delete of the old path plus a create of the new one.
type Operation int

const (
	OpCreate Operation = iota
	OpModify
	OpDelete
	// OpGitignoreChange signals a .gitignore file changed; the watcher
	// reloads its ignore rules and the pipeline should reconcile paths
	// affected by the pattern diff rather than assume a normal file event.
	OpGitignoreChange
)

func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	case OpGitignoreChange:
		return "gitignore-change"
	default:
		return "unknown"
	}
}

// Event is one coalesced file-system change.
type Event struct {
	Path      string
	Operation Operation
	IsDir     bool
	Timestamp time.Time
}

// Options configures a Watcher.
type Options struct {
	// DebounceWindow coalesces rapid per-path events (spec.md §4.7 default
	// 150ms).
	DebounceWindow time.Duration
	// PollInterval is the scan period used when fsnotify is unavailable.
	PollInterval time.Duration
	// EventBufferSize bounds the outbound event queue (spec.md §4.7
	// backpressure).
	EventBufferSize int
	// IgnorePatterns are additional gitignore-syntax patterns applied on
	// top of any .gitignore files found under the workspace root.
	IgnorePatterns []string
	// EngineStateDir is always ignored regardless of gitignore content
	// (spec.md §4.7 "always ignore the engine state directory"); callers
	// pass enginepath's base directory name.
	EngineStateDir string
}

func (o Options) withDefaults() Options {
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = 150 * time.Millisecond
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 5 * time.Second
	}
	if o.EventBufferSize <= 0 {
		o.EventBufferSize = 1000
	}
	return o
}
