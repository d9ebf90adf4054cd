package stages

import (
	"context"
	"fmt"

	"dialysis_autofill/application/locator"
	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

// DepartmentSelect picks the dialysis unit on the post-login welcome page
type DepartmentSelect struct{}

func (DepartmentSelect) Name() string { return "Department select" }

func (DepartmentSelect) Execute(ctx context.Context, sess interfaces.Session, rc *RunContext) entities.StageOutcome {
	src, err := sess.PageSource(ctx)
	if err != nil {
		return entities.SoftFail("could not read page", err)
	}
	if !containsFold(src, rc.Settings.WelcomeSignature) {
		return entities.SoftFail("department selection not shown, already past this step", nil)
	}

	selected := true
	control, err := rc.Resolver.Resolve(ctx, sess, locator.Chain{entities.Position("(//select)[1]")})
	if err == nil {
		err = control.SelectByText(ctx, rc.Settings.Department)
	}
	if err != nil {
		selected = false
		rc.Logger.Infof("Department selector unavailable: %v", err)
	}

	confirm := make(locator.Chain, 0, len(rc.Settings.ConfirmCaptions))
	for _, caption := range rc.Settings.ConfirmCaptions {
		confirm = append(confirm, entities.TextContains("button", caption))
	}
	button, err := rc.Resolver.Resolve(ctx, sess, confirm)
	if err == nil {
		err = button.Click(ctx)
	}
	if err != nil {
		return entities.SoftFail("department confirm button not found", err)
	}

	if !selected {
		return entities.SoftFail("department selector absent, confirmed existing choice", nil)
	}
	return entities.Success(fmt.Sprintf("%s selected", rc.Settings.Department))
}
