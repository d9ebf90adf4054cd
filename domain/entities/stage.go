package entities

// StageStatus classifies how a workflow stage ended
type StageStatus string

const (
	StageSuccess  StageStatus = "SUCCESS"
	StageSoftFail StageStatus = "SOFT_FAIL"
	StageHardFail StageStatus = "HARD_FAIL"
)

// StageOutcome is the result of executing one stage
type StageOutcome struct {
	Status   StageStatus `json:"status"`
	Message  string      `json:"message"`
	Err      error       `json:"-"`
	Artifact string      `json:"artifact,omitempty"` // diagnostic screenshot path
}

// Success - builds a successful outcome
func Success(message string) StageOutcome {
	return StageOutcome{Status: StageSuccess, Message: message}
}

// SoftFail - builds an outcome that lets the workflow continue
func SoftFail(message string, err error) StageOutcome {
	return StageOutcome{Status: StageSoftFail, Message: message, Err: err}
}

// HardFail - builds an outcome that halts the workflow
func HardFail(message string, err error) StageOutcome {
	return StageOutcome{Status: StageHardFail, Message: message, Err: err}
}

// Failed - reports whether the stage did not succeed
func (o StageOutcome) Failed() bool {
	return o.Status != StageSuccess
}
