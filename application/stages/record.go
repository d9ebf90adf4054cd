package stages

import (
	"context"

	"dialysis_autofill/application/locator"
	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

// RecordNavigation opens the haemodialysis treatment record of the patient
type RecordNavigation struct{}

func (RecordNavigation) Name() string { return "Record navigation" }

func (RecordNavigation) Execute(ctx context.Context, sess interfaces.Session, rc *RunContext) entities.StageOutcome {
	link := locator.Chain{entities.TextContains("a", rc.Settings.RecordLinkWords...)}

	// the group toggles, so only click it while the link is hidden
	el, err := rc.Resolver.Resolve(ctx, sess, link)
	if err != nil {
		group, gerr := rc.Resolver.Resolve(ctx, sess, locator.Chain{entities.TextContains("", rc.Settings.MenuGroup)})
		if gerr == nil {
			gerr = group.Click(ctx)
		}
		if gerr != nil {
			rc.Logger.Infof("Menu group %s not clicked: %v", rc.Settings.MenuGroup, gerr)
		}
		el, err = rc.Resolver.Resolve(ctx, sess, link)
	}
	if err != nil {
		return entities.HardFail("treatment record link not found", err)
	}
	if err := el.Click(ctx); err != nil {
		return entities.HardFail("could not open treatment record", err)
	}
	return entities.Success("Treatment record opened")
}
