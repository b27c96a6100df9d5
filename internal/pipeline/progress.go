package pipeline

// Stage identifies one step of the per-file state machine.
type Stage string

const (
	StageValidating Stage = "validating"
	StageEffects    Stage = "effects"
	StageMastering  Stage = "mastering"
	StageArtwork    Stage = "artwork"
	StageMetadata   Stage = "metadata"
	StageCleaningUp Stage = "cleaning up"
)

// Event is emitted once per stage per file for consumption by whatever
// front end is driving the run.
type Event struct {
	Index    int // zero-based position in the batch
	Total    int
	FileName string
	Stage    Stage
}

// ProgressFunc receives Events. Implementations must be safe for concurrent
// calls when the batch runs with multiple workers.
type ProgressFunc func(Event)

// Status is the terminal state of one file's run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Result is the per-file outcome record. A batch yields one Result per
// input, in input order, regardless of individual failures.
type Result struct {
	Status        Status
	OriginalPath  string
	OutputPath    string // empty unless Succeeded
	GeneratedName string
	ArtworkPath   string   // empty when artwork was disabled or failed
	Notes         []string // diagnostics from degraded paths
	Err           error    // set when Status is Failed
}

// Success reports whether the file completed.
func (r Result) Success() bool { return r.Status == StatusSucceeded }
