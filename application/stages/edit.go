package stages

import (
	"context"

	"dialysis_autofill/application/locator"
	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

// EditMode switches the record into edit mode
type EditMode struct{}

func (EditMode) Name() string { return "Edit mode" }

func (EditMode) Execute(ctx context.Context, sess interfaces.Session, rc *RunContext) entities.StageOutcome {
	caption := rc.Settings.EditCaption
	el, err := rc.Resolver.Resolve(ctx, sess, locator.Chain{
		entities.AttrContains("button", "class", "edit"),
		entities.AttrContains("i", "class", "pencil"),
		entities.AttrContains("a", "title", caption),
		entities.TextContains("button", caption),
		entities.TextContains("a", caption),
	})
	if err == nil {
		err = el.Click(ctx)
	}
	if err != nil {
		return entities.SoftFail("edit control not found, assuming form is already editable", err)
	}
	return entities.Success("Edit mode active")
}
