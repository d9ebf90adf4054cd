package fieldmap

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialysis_autofill/application/locator"
	"dialysis_autofill/application/sessiontest"
	"dialysis_autofill/domain/entities"
	apperrors "dialysis_autofill/domain/errors"
)

func newMapper() *Mapper {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewMapper(locator.NewResolver(time.Second, logger), logger)
}

// yesNoForm resolves label strategies; select fields offer Yes/No/-.
func yesNoForm() sessiontest.ResolveFunc {
	return func(s entities.LocatorStrategy) (*sessiontest.Element, bool) {
		if s.Kind != entities.LocateByLabel {
			return nil, false
		}
		if s.Values[0] == "COMFORTABLE" {
			return &sessiontest.Element{Options: []string{"Yes", "No", "-"}}, true
		}
		return &sessiontest.Element{}, true
	}
}

func TestFill_SelectFieldPicksVisibleText(t *testing.T) {
	sess := sessiontest.New("", yesNoForm())

	report := newMapper().Fill(context.Background(), sess, entities.RecordData{
		Basic: map[string]string{entities.FieldComfortable: "Yes"},
	})

	assert.Equal(t, 1, report.Filled)
	assert.Empty(t, report.Failures)
	selects := sess.ActionsOf(sessiontest.ActionSelect)
	require.Len(t, selects, 1)
	assert.Equal(t, "Yes", selects[0].Value)
	assert.Empty(t, sess.ActionsOf(sessiontest.ActionFill))
}

func TestFill_MissingOptionFailsWithoutHalting(t *testing.T) {
	sess := sessiontest.New("", yesNoForm())

	report := newMapper().Fill(context.Background(), sess, entities.RecordData{
		Basic: map[string]string{
			entities.FieldDate:        "08-10-2025",
			entities.FieldComfortable: "Maybe",
			entities.FieldRemarks:     "stable",
		},
	})

	assert.Equal(t, 2, report.Filled)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, entities.FieldComfortable, report.Failures[0].Field)
	assert.True(t, errors.Is(report.Failures[0], apperrors.ErrFieldFill))
	assert.Contains(t, report.Failures[0].Error(), "Maybe")

	fills := sess.ActionsOf(sessiontest.ActionFill)
	require.Len(t, fills, 2)
	// vocabulary order: DATE before REMARKS
	assert.Equal(t, "08-10-2025", fills[0].Value)
	assert.Equal(t, "stable", fills[1].Value)
}

func TestFill_FallsBackToNameAttribute(t *testing.T) {
	sess := sessiontest.New("", sessiontest.FindWhere(func(s entities.LocatorStrategy) bool {
		return s.Kind == entities.LocateByAttribute && s.Attr == "name" && s.Values[0] == "pre_bp"
	}))

	report := newMapper().Fill(context.Background(), sess, entities.RecordData{
		Basic: map[string]string{entities.FieldPreBP: "120/80"},
	})

	assert.Equal(t, 1, report.Filled)
	fills := sess.ActionsOf(sessiontest.ActionFill)
	require.Len(t, fills, 1)
	assert.Equal(t, entities.AttrEquals("", "name", "pre_bp"), fills[0].Strategy)
	assert.Equal(t, entities.Label("PRE BP"), sess.Finds[0])
}

func TestFill_IgnoresEmptyAndUnknownKeys(t *testing.T) {
	sess := sessiontest.New("", sessiontest.FindAll())

	report := newMapper().Fill(context.Background(), sess, entities.RecordData{
		Basic: map[string]string{entities.FieldUF: "", "BOGUS": "1"},
	})

	assert.Zero(t, report.Total())
	assert.Empty(t, sess.Finds)
}

func TestFill_AllFieldsFail(t *testing.T) {
	sess := sessiontest.New("", sessiontest.FindNone())

	report := newMapper().Fill(context.Background(), sess, entities.RecordData{
		Basic: map[string]string{entities.FieldDate: "08-10-2025", entities.FieldPreBP: "120/80"},
	})

	assert.Zero(t, report.Filled)
	require.Len(t, report.Failures, 2)
	for _, f := range report.Failures {
		assert.True(t, apperrors.IsElementNotFound(f))
	}
}

func TestFill_HourlyRows(t *testing.T) {
	sess := sessiontest.New("", sessiontest.FindWhere(func(s entities.LocatorStrategy) bool {
		return s.Kind == entities.LocateByPosition
	}))

	report := newMapper().Fill(context.Background(), sess, entities.RecordData{
		Hourly: []entities.HourlyObservation{
			{"TIME": "07:10", "BP": "120/80", "VP": "160", "QB": "300", "QD": "500", "PULSE": "P-84", "UFR": "625"},
			{"TIME": "08:10", "BP": "118/76"},
		},
	})

	assert.Zero(t, report.Filled)
	assert.Equal(t, 9, report.HourlyFilled)
	assert.Empty(t, report.Failures)

	fills := sess.ActionsOf(sessiontest.ActionFill)
	require.Len(t, fills, 9)
	assert.Equal(t, hourlyCellPath(1, 1), fills[0].Strategy.Path)
	assert.Equal(t, hourlyCellPath(1, 7), fills[6].Strategy.Path)
	assert.Equal(t, hourlyCellPath(2, 2), fills[8].Strategy.Path)
}

// treatmentPage nests the basic form and the observation table inside a layout table.
const treatmentPage = `<html><body>
<table id="layout">
  <tr><td>
    <table>
      <tr><td>DATE</td><td><input name="date_field"></td></tr>
      <tr><td>PRE BP</td><td><input name="pre_bp_field"></td></tr>
    </table>
  </td></tr>
  <tr><td>
    <table id="hourly">
      <tr><th>TIME</th><th>BP</th><th>VP</th><th>QB</th><th>QD</th><th>PULSE</th><th>UFR</th></tr>
      <tr>
        <td><input name="c11"></td><td><input name="c12"></td><td><input name="c13"></td><td><input name="c14"></td>
        <td><input name="c15"></td><td><input name="c16"></td><td><input name="c17"></td>
      </tr>
      <tr>
        <td><input name="c21"></td><td><input name="c22"></td><td><input name="c23"></td><td><input name="c24"></td>
        <td><input name="c25"></td><td><input name="c26"></td><td><input name="c27"></td>
      </tr>
    </table>
  </td></tr>
</table>
</body></html>`

func TestFill_HourlyCellsInsideLayoutTable(t *testing.T) {
	resolve, err := sessiontest.FindInMarkup(treatmentPage)
	require.NoError(t, err)
	sess := sessiontest.New(treatmentPage, resolve)

	report := newMapper().Fill(context.Background(), sess, entities.RecordData{
		Basic: map[string]string{"DATE": "08-10-2025", "PRE_BP": "120/80"},
		Hourly: []entities.HourlyObservation{
			{"TIME": "07:10", "UFR": "625"},
			{"TIME": "08:10", "BP": "118/76"},
		},
	})
	assert.Empty(t, report.Failures)
	assert.Equal(t, 2, report.Filled)
	assert.Equal(t, 4, report.HourlyFilled)

	written := map[string]string{}
	for _, a := range sess.ActionsOf(sessiontest.ActionFill) {
		_, dup := written[a.Target]
		assert.False(t, dup, "%s written twice", a.Target)
		written[a.Target] = a.Value
	}
	assert.Equal(t, map[string]string{
		"date_field":   "08-10-2025",
		"pre_bp_field": "120/80",
		"c11":          "07:10",
		"c17":          "625",
		"c21":          "08:10",
		"c22":          "118/76",
	}, written)
}

func TestHourlyChain_NameVariants(t *testing.T) {
	chain := HourlyChain(3, entities.HourlyPulse)
	require.Len(t, chain, 3)
	assert.Equal(t, "pulse_3", chain[0].Values[0])
	assert.Equal(t, "pulse3", chain[1].Values[0])
	assert.Equal(t, entities.LocateByPosition, chain[2].Kind)
}
