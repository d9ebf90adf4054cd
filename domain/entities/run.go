package entities

import "time"

// StageResult is the journaled outcome of one stage
type StageResult struct {
	Index    int         `json:"index"`
	Name     string      `json:"name"`
	Status   StageStatus `json:"status"`
	Message  string      `json:"message"`
	Artifact string      `json:"artifact,omitempty"` // diagnostic screenshot, if one was taken
}

// RunSummary describes one finished workflow run
type RunSummary struct {
	ID         string        `json:"id"`
	Operator   string        `json:"operator"`
	PatientID  string        `json:"patient_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Success    bool          `json:"success"`
	Stages     []StageResult `json:"stages"`
}
