package stages

import (
	"context"
	"fmt"

	"dialysis_autofill/application/locator"
	"dialysis_autofill/domain/entities"
	apperrors "dialysis_autofill/domain/errors"
	"dialysis_autofill/domain/interfaces"
)

var (
	usernameChain = locator.Chain{
		entities.AttrContains("input", "placeholder", "USER"),
		entities.AttrContains("input", "placeholder", "user"),
		entities.Position("(//input)[1]"),
	}
	passwordChain = locator.Chain{
		entities.AttrEquals("input", "type", "password"),
	}
	loginButtonChain = locator.Chain{
		entities.TextContains("button", "LOGIN"),
		entities.AttrEquals("input", "value", "LOGIN"),
	}
)

// Login opens the portal and submits the operator's credentials
type Login struct{}

func (Login) Name() string { return "Login" }

func (Login) Execute(ctx context.Context, sess interfaces.Session, rc *RunContext) entities.StageOutcome {
	url, err := openPortal(ctx, sess, rc)
	if err != nil {
		return entities.HardFail("could not reach the portal", err)
	}

	user, err := rc.Resolver.Resolve(ctx, sess, usernameChain)
	if err != nil {
		return entities.HardFail("username field not found", err)
	}
	if err := user.Fill(ctx, rc.Credentials.Username); err != nil {
		return entities.HardFail("could not enter username", err)
	}
	rc.Logger.WithField("username", rc.Credentials.Username).Info("Username entered")

	pass, err := rc.Resolver.Resolve(ctx, sess, passwordChain)
	if err != nil {
		return entities.HardFail("password field not found", err)
	}
	if err := pass.Fill(ctx, rc.Credentials.Password); err != nil {
		return entities.HardFail("could not enter password", err)
	}

	button, err := rc.Resolver.Resolve(ctx, sess, loginButtonChain)
	if err != nil {
		return entities.HardFail("login button not found", err)
	}
	if err := button.Click(ctx); err != nil {
		return entities.HardFail("could not submit login", err)
	}

	return entities.Success(fmt.Sprintf("Credentials submitted at %s", url))
}

// openPortal - navigates the candidate URLs in order until one shows a landing page
func openPortal(ctx context.Context, sess interfaces.Session, rc *RunContext) (string, error) {
	var lastErr error
	for _, url := range rc.CandidateURLs {
		log := rc.Logger.WithField("url", url)
		log.Info("Trying portal")

		if err := sess.Navigate(ctx, url); err != nil {
			log.Warnf("Navigation failed: %v", err)
			lastErr = err
			continue
		}

		src, err := sess.PageSource(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		for _, sig := range rc.Settings.LandingSignatures {
			if containsFold(src, sig) {
				log.Info("Portal landing page loaded")
				return url, nil
			}
		}
		lastErr = fmt.Errorf("%s: landing page not recognised", url)
		log.Warn("Landing page not recognised")
	}
	return "", apperrors.NewPortalUnreachableError(rc.CandidateURLs, lastErr)
}
