package fieldmap

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"dialysis_autofill/application/locator"
	"dialysis_autofill/domain/entities"
	apperrors "dialysis_autofill/domain/errors"
	"dialysis_autofill/domain/interfaces"
)

// Report summarises one fill pass
type Report struct {
	Filled       int // basic fields written
	HourlyFilled int // hourly cells written
	Failures     []*apperrors.FieldFillError
}

// Total - number of fields written, basic and hourly
func (r Report) Total() int {
	return r.Filled + r.HourlyFilled
}

// Mapper writes record values into the open treatment record form
type Mapper struct {
	resolver *locator.Resolver
	logger   *logrus.Logger
}

// NewMapper - creates a field mapper resolving controls with resolver
func NewMapper(resolver *locator.Resolver, logger *logrus.Logger) *Mapper {
	return &Mapper{resolver: resolver, logger: logger}
}

// Fill - writes every non-empty basic field and hourly cell; failures are collected, never fatal
func (m *Mapper) Fill(ctx context.Context, sess interfaces.Session, record entities.RecordData) Report {
	var report Report

	for _, field := range record.BasicEntries() {
		err := m.fillOne(ctx, sess, BasicChain(field.Key), field.Value, entities.SelectFields[field.Key])
		if err != nil {
			report.Failures = append(report.Failures, m.failure(field.Key, field.Value, err))
			continue
		}
		report.Filled++
		m.logger.WithField("field", field.Key).Info("field filled")
	}

	if len(record.Hourly) > 0 {
		m.logger.Infof("Filling %d hourly observations", len(record.Hourly))
	}
	for i, obs := range record.Hourly {
		row := i + 1
		for _, cell := range obs.Entries() {
			name := fmt.Sprintf("%s[%d]", cell.Key, row)
			if err := m.fillOne(ctx, sess, HourlyChain(row, cell.Key), cell.Value, false); err != nil {
				report.Failures = append(report.Failures, m.failure(name, cell.Value, err))
				continue
			}
			report.HourlyFilled++
			m.logger.WithField("field", name).Debug("hourly cell filled")
		}
	}

	return report
}

func (m *Mapper) fillOne(ctx context.Context, sess interfaces.Session, chain locator.Chain, value string, selectByText bool) error {
	el, err := m.resolver.Resolve(ctx, sess, chain)
	if err != nil {
		return err
	}
	if selectByText {
		return el.SelectByText(ctx, value)
	}
	return el.Fill(ctx, value)
}

func (m *Mapper) failure(field, value string, err error) *apperrors.FieldFillError {
	fillErr := &apperrors.FieldFillError{Field: field, Value: value, Err: err}
	m.logger.WithField("field", field).Warnf("Could not fill field: %v", err)
	return fillErr
}

// BasicChain - strategies for a basic field: adjacent label text, then the derived name attribute
func BasicChain(key string) locator.Chain {
	return locator.Chain{
		entities.Label(strings.ReplaceAll(key, "_", " ")),
		entities.AttrEquals("", "name", strings.ToLower(key)),
	}
}

// HourlyChain - strategies for one cell of the observation table, row is 1-based
func HourlyChain(row int, key string) locator.Chain {
	lower := strings.ToLower(key)
	chain := locator.Chain{
		entities.AttrEquals("input", "name", fmt.Sprintf("%s_%d", lower, row)),
		entities.AttrEquals("input", "name", fmt.Sprintf("%s%d", lower, row)),
	}
	if col := hourlyColumn(key); col > 0 {
		chain = append(chain, entities.Position(hourlyCellPath(row, col)))
	}
	return chain
}

// hourlyTable selects the innermost table carrying the UFR header.
// Layout tables wrapping the whole form contain the header too and must not match.
var hourlyTable = fmt.Sprintf(
	"//table[.//*[contains(text(), '%[1]s')] and not(.//table[.//*[contains(text(), '%[1]s')]])]",
	entities.HourlyUFR)

// hourlyCellPath - input of the row-th data row (rows holding inputs) at column col, both 1-based
func hourlyCellPath(row, col int) string {
	return fmt.Sprintf("(%[1]s/tbody/tr[.//input] | %[1]s/tr[.//input])[%[2]d]/td[%[3]d]//input",
		hourlyTable, row, col)
}

func hourlyColumn(key string) int {
	for i, k := range entities.HourlyFields {
		if k == key {
			return i + 1
		}
	}
	return 0
}
