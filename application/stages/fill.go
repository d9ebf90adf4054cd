package stages

import (
	"context"
	"errors"
	"fmt"

	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

// FieldFill writes the record data into the form
type FieldFill struct{}

func (FieldFill) Name() string { return "Field fill" }

func (FieldFill) Execute(ctx context.Context, sess interfaces.Session, rc *RunContext) entities.StageOutcome {
	report := rc.Mapper.Fill(ctx, sess, rc.Record)
	rc.FillReport = &report

	failures := make([]error, len(report.Failures))
	for i, f := range report.Failures {
		failures[i] = f
	}

	if report.Total() == 0 {
		return entities.SoftFail(fmt.Sprintf("no fields filled, %d failed", len(failures)), errors.Join(failures...))
	}

	msg := fmt.Sprintf("Filled %d field(s) and %d hourly cell(s)", report.Filled, report.HourlyFilled)
	if len(failures) > 0 {
		msg += fmt.Sprintf(", %d could not be filled", len(failures))
	}
	return entities.Success(msg)
}
