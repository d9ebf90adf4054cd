package stages

import (
	"context"
	"fmt"
	"strconv"

	"dialysis_autofill/application/locator"
	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

// monthOnly is the first period strategy that ignores the year
const monthOnly = 2

var firstRowChain = locator.Chain{
	entities.Position("//table//tbody//tr[1]//a"),
	entities.Position("//table//tbody//tr[1]//td"),
}

// PeriodTable opens the treatment table of the current month
type PeriodTable struct{}

func (PeriodTable) Name() string { return "Period table" }

func (PeriodTable) Execute(ctx context.Context, sess interfaces.Session, rc *RunContext) entities.StageOutcome {
	now := rc.Now()
	month := now.Month().String()
	year := strconv.Itoa(now.Year())
	period := month + " " + year
	rc.Logger.WithField("period", period).Info("Looking for period table")

	el, idx, err := rc.Resolver.ResolveIndex(ctx, sess, locator.Chain{
		entities.TextContains("td", month, year),
		entities.TextContains("a", month, year),
		entities.TextContains("td", month),
		entities.TextContains("a", month),
	})
	if err == nil {
		if err = el.Click(ctx); err == nil {
			if idx >= monthOnly {
				rc.Logger.Warnf("%s matched by month only", period)
				return entities.SoftFail(fmt.Sprintf("%s table opened, matched month only; verify the year before saving", month), nil)
			}
			return entities.Success(fmt.Sprintf("%s table opened", period))
		}
	}

	if !rc.Settings.AllowPeriodFallback {
		return entities.SoftFail(fmt.Sprintf("%s table not found", period), err)
	}

	first, ferr := rc.Resolver.Resolve(ctx, sess, firstRowChain)
	if ferr == nil {
		ferr = first.Click(ctx)
	}
	if ferr != nil {
		return entities.SoftFail("no period table found", ferr)
	}
	rc.Logger.Warnf("%s not found, first table row opened instead", period)
	return entities.SoftFail(fmt.Sprintf("%s table not found, opened first row; verify the period before saving", period), err)
}
