package interfaces

import (
	"context"
	"time"

	"dialysis_autofill/domain/entities"
)

// Element is a resolved UI element of the current page
type Element interface {
	// Click clicks the element
	Click(ctx context.Context) error

	// Fill clears existing content and types value verbatim
	Fill(ctx context.Context, value string) error

	// SelectByText selects the option whose visible text equals text
	SelectByText(ctx context.Context, text string) error

	// Press sends a key press such as "Enter" to the element
	Press(ctx context.Context, key string) error
}

// Session is one live browser-automation connection owned by a single run
type Session interface {
	// Navigate loads url in the session's page
	Navigate(ctx context.Context, url string) error

	// PageSource returns the current document markup
	PageSource(ctx context.Context) (string, error)

	// Find returns the first element in document order matching the strategy,
	// waiting at most timeout for it to appear
	Find(ctx context.Context, strategy entities.LocatorStrategy, timeout time.Duration) (Element, error)

	// Screenshot writes an image of the current page to path
	Screenshot(ctx context.Context, path string) error

	// Close releases the browser; calling it again is a no-op
	Close() error
}

// SessionOptions configures a new session
type SessionOptions struct {
	Headless bool
	Timeout  time.Duration
}

// SessionFactory starts browser sessions
type SessionFactory interface {
	Open(ctx context.Context, opts SessionOptions) (Session, error)
}
