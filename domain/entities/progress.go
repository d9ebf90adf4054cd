package entities

import "time"

// ProgressKind categorises progress events
type ProgressKind string

const (
	ProgressStageStart ProgressKind = "stage_start"
	ProgressStageEnd   ProgressKind = "stage_end"
	ProgressWarning    ProgressKind = "warning"
	ProgressFailure    ProgressKind = "failure"
	ProgressInfo       ProgressKind = "info"
)

// ProgressEvent is delivered synchronously to the caller while a run executes
type ProgressEvent struct {
	RunID      string       `json:"run_id"`
	Kind       ProgressKind `json:"kind"`
	StageIndex int          `json:"stage_index"` // 1-based, 0 outside stages
	StageName  string       `json:"stage_name,omitempty"`
	Status     StageStatus  `json:"status,omitempty"` // set on stage_end
	Message    string       `json:"message"`
	Timestamp  time.Time    `json:"timestamp"`
}
