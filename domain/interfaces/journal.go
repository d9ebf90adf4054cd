package interfaces

import (
	"context"

	"dialysis_autofill/domain/entities"
)

// RunJournal keeps an audit trail of workflow runs
type RunJournal interface {
	// Record stores a finished run
	Record(ctx context.Context, summary entities.RunSummary) error

	// Recent returns the latest runs, newest first
	Recent(ctx context.Context, limit int) ([]entities.RunSummary, error)
}
