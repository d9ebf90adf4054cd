package stages

import (
	"context"

	"dialysis_autofill/application/locator"
	"dialysis_autofill/domain/entities"
	apperrors "dialysis_autofill/domain/errors"
	"dialysis_autofill/domain/interfaces"
)

// Save submits the edited record
type Save struct{}

func (Save) Name() string { return "Save" }

func (Save) Execute(ctx context.Context, sess interfaces.Session, rc *RunContext) entities.StageOutcome {
	chain := make(locator.Chain, 0, 2*len(rc.Settings.SaveCaptions))
	for _, caption := range rc.Settings.SaveCaptions {
		chain = append(chain, entities.TextContains("button", caption))
	}
	for _, caption := range rc.Settings.SaveCaptions {
		chain = append(chain, entities.AttrEquals("input", "value", caption))
	}

	el, err := rc.Resolver.Resolve(ctx, sess, chain)
	if err != nil {
		return entities.SoftFail("save control not found, could not verify save", apperrors.NewSaveUnconfirmedError(err))
	}
	if err := el.Click(ctx); err != nil {
		return entities.SoftFail("save click failed, could not verify save", apperrors.NewSaveUnconfirmedError(err))
	}
	return entities.Success("Save clicked")
}
