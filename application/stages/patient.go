package stages

import (
	"context"
	"errors"
	"fmt"

	"dialysis_autofill/application/locator"
	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

// PatientLookup finds the patient by MRN in the dialysis queue
type PatientLookup struct{}

func (PatientLookup) Name() string { return "Patient lookup" }

func (PatientLookup) Execute(ctx context.Context, sess interfaces.Session, rc *RunContext) entities.StageOutcome {
	mrn := rc.PatientID
	if mrn == "" {
		return entities.HardFail("no patient identifier given", errors.New("empty MRN"))
	}
	log := rc.Logger.WithField("mrn", mrn)

	direct := locator.Chain{
		entities.TextContains("td", mrn),
		entities.TextContains("a", mrn),
	}

	el, err := rc.Resolver.Resolve(ctx, sess, direct)
	if err == nil {
		if err = el.Click(ctx); err == nil {
			return entities.Success("Patient found on current page")
		}
	}
	log.Infof("Patient not on current page, trying search: %v", err)

	if err = searchFor(ctx, sess, rc, mrn); err == nil {
		if el, err = rc.Resolver.Resolve(ctx, sess, direct); err == nil {
			if err = el.Click(ctx); err == nil {
				return entities.Success("Patient found via search")
			}
		}
	}
	log.Infof("Search did not find patient, scanning table rows: %v", err)

	row := locator.Chain{entities.NestedTextContains("tr", mrn).Within("a")}
	if el, err = rc.Resolver.Resolve(ctx, sess, row); err == nil {
		if err = el.Click(ctx); err == nil {
			return entities.Success("Patient found in table")
		}
	}

	return entities.HardFail(fmt.Sprintf("could not find patient with MRN %s", mrn), err)
}

func searchFor(ctx context.Context, sess interfaces.Session, rc *RunContext, mrn string) error {
	box, err := rc.Resolver.Resolve(ctx, sess, locator.Chain{
		entities.AttrEquals("input", "type", "text"),
		entities.AttrEquals("input", "type", "search"),
	})
	if err != nil {
		return err
	}
	if err := box.Fill(ctx, mrn); err != nil {
		return err
	}
	return box.Press(ctx, "Enter")
}
