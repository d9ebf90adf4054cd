package locator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"dialysis_autofill/domain/entities"
	apperrors "dialysis_autofill/domain/errors"
	"dialysis_autofill/domain/interfaces"
)

// Chain is an ordered list of strategies evaluated first-match-wins
type Chain []entities.LocatorStrategy

// Resolver finds UI elements by walking a fallback chain
type Resolver struct {
	timeout time.Duration
	logger  *logrus.Logger
}

// NewResolver - creates a resolver that waits at most timeout per strategy
func NewResolver(timeout time.Duration, logger *logrus.Logger) *Resolver {
	return &Resolver{timeout: timeout, logger: logger}
}

// Resolve - returns the element matched by the first successful strategy
func (r *Resolver) Resolve(ctx context.Context, sess interfaces.Session, chain Chain) (interfaces.Element, error) {
	el, _, err := r.ResolveIndex(ctx, sess, chain)
	return el, err
}

// ResolveIndex - like Resolve, also reporting which strategy matched
func (r *Resolver) ResolveIndex(ctx context.Context, sess interfaces.Session, chain Chain) (interfaces.Element, int, error) {
	notFound := &apperrors.ElementNotFoundError{Attempts: make([]string, 0, len(chain))}

	for i, strategy := range chain {
		notFound.Attempts = append(notFound.Attempts, strategy.String())

		el, err := sess.Find(ctx, strategy, r.timeout)
		if err == nil {
			r.logger.WithField("strategy", strategy.String()).Debug("element resolved")
			return el, i, nil
		}
		notFound.Err = err

		if ctx.Err() != nil {
			break
		}
	}

	return nil, -1, notFound
}
