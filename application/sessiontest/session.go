// Package sessiontest provides an in-memory Session for exercising workflow
// stages without a browser.
package sessiontest

import (
	"context"
	"fmt"
	"time"

	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

// ActionKind names an interaction performed on an element
type ActionKind string

const (
	ActionClick  ActionKind = "click"
	ActionFill   ActionKind = "fill"
	ActionSelect ActionKind = "select"
	ActionPress  ActionKind = "press"
)

// Action is one recorded element interaction
type Action struct {
	Kind     ActionKind
	Strategy entities.LocatorStrategy
	Target   string // name attribute of the element, when known
	Value    string
}

// Element configures how a matched element behaves
type Element struct {
	// Name is the element's name attribute, recorded as the action target
	Name string

	// Options makes the element a drop-down with these visible texts
	Options []string

	ClickErr error
	FillErr  error

	// OnClick runs after a successful click, e.g. to switch page source
	OnClick func(s *Session)

	// OnPress runs after a key press
	OnPress func(s *Session)
}

// ResolveFunc decides whether a strategy matches an element
type ResolveFunc func(strategy entities.LocatorStrategy) (*Element, bool)

// Session is a scripted fake of interfaces.Session
type Session struct {
	// Source is the markup returned by PageSource when no page matches
	Source string

	// Pages maps navigated URLs to their markup
	Pages map[string]string

	// NavigateErrors fails navigation to specific URLs
	NavigateErrors map[string]error

	// Resolve matches strategies; nil finds nothing
	Resolve ResolveFunc

	ScreenshotErr error

	Navigations []string
	Finds       []entities.LocatorStrategy
	Actions     []Action
	Screenshots []string
	CloseCount  int

	current string
}

// New creates a fake whose pages all share source
func New(source string, resolve ResolveFunc) *Session {
	return &Session{Source: source, Resolve: resolve, Pages: map[string]string{}}
}

// FindAll matches every strategy with a plain element
func FindAll() ResolveFunc {
	return func(entities.LocatorStrategy) (*Element, bool) {
		return &Element{}, true
	}
}

// FindNone matches nothing
func FindNone() ResolveFunc {
	return func(entities.LocatorStrategy) (*Element, bool) {
		return nil, false
	}
}

// FindWhere matches strategies accepted by match
func FindWhere(match func(entities.LocatorStrategy) bool) ResolveFunc {
	return func(s entities.LocatorStrategy) (*Element, bool) {
		if match(s) {
			return &Element{}, true
		}
		return nil, false
	}
}

// Navigate records the URL and switches the current page
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.Navigations = append(s.Navigations, url)
	if err, ok := s.NavigateErrors[url]; ok {
		return err
	}
	s.current = url
	return nil
}

// PageSource returns the markup of the current page
func (s *Session) PageSource(ctx context.Context) (string, error) {
	if src, ok := s.Pages[s.current]; ok {
		return src, nil
	}
	return s.Source, nil
}

// Find records the lookup and consults Resolve
func (s *Session) Find(ctx context.Context, strategy entities.LocatorStrategy, timeout time.Duration) (interfaces.Element, error) {
	s.Finds = append(s.Finds, strategy)
	if s.Resolve == nil {
		return nil, fmt.Errorf("no match for %s", strategy)
	}
	el, ok := s.Resolve(strategy)
	if !ok {
		return nil, fmt.Errorf("no match for %s", strategy)
	}
	if el == nil {
		el = &Element{}
	}
	return &element{session: s, strategy: strategy, config: el}, nil
}

// Screenshot records the path
func (s *Session) Screenshot(ctx context.Context, path string) error {
	if s.ScreenshotErr != nil {
		return s.ScreenshotErr
	}
	s.Screenshots = append(s.Screenshots, path)
	return nil
}

// Close counts calls
func (s *Session) Close() error {
	s.CloseCount++
	return nil
}

// ActionsOf returns the recorded actions of one kind
func (s *Session) ActionsOf(kind ActionKind) []Action {
	var out []Action
	for _, a := range s.Actions {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// FindsOf returns the lookups made with one locator kind
func (s *Session) FindsOf(kind entities.LocatorKind) []entities.LocatorStrategy {
	var out []entities.LocatorStrategy
	for _, f := range s.Finds {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

type element struct {
	session  *Session
	strategy entities.LocatorStrategy
	config   *Element
}

func (e *element) record(kind ActionKind, value string) {
	e.session.Actions = append(e.session.Actions, Action{Kind: kind, Strategy: e.strategy, Target: e.config.Name, Value: value})
}

func (e *element) Click(ctx context.Context) error {
	if e.config.ClickErr != nil {
		return e.config.ClickErr
	}
	e.record(ActionClick, "")
	if e.config.OnClick != nil {
		e.config.OnClick(e.session)
	}
	return nil
}

func (e *element) Fill(ctx context.Context, value string) error {
	if e.config.FillErr != nil {
		return e.config.FillErr
	}
	e.record(ActionFill, value)
	return nil
}

func (e *element) SelectByText(ctx context.Context, text string) error {
	if e.config.Options == nil {
		return fmt.Errorf("%s is not a select element", e.strategy)
	}
	for _, opt := range e.config.Options {
		if opt == text {
			e.record(ActionSelect, text)
			return nil
		}
	}
	return fmt.Errorf("no option %q in %v", text, e.config.Options)
}

func (e *element) Press(ctx context.Context, key string) error {
	e.record(ActionPress, key)
	if e.config.OnPress != nil {
		e.config.OnPress(e.session)
	}
	return nil
}

var _ interfaces.Session = (*Session)(nil)
