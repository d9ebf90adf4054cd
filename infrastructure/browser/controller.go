package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"dialysis_autofill/domain/entities"
	apperrors "dialysis_autofill/domain/errors"
	"dialysis_autofill/domain/interfaces"
)

var launchArgs = []string{
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--start-maximized",
	"--ignore-certificate-errors",
	"--ignore-ssl-errors",
}

// Launcher starts playwright-driven Chromium sessions
type Launcher struct {
	logger *logrus.Logger
}

// NewLauncher - creates a session factory backed by playwright
func NewLauncher(logger *logrus.Logger) *Launcher {
	return &Launcher{logger: logger}
}

// Install - downloads the playwright driver and Chromium
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

// Open - launches Chromium and opens one page
func (l *Launcher) Open(ctx context.Context, opts interfaces.SessionOptions) (interfaces.Session, error) {
	l.logger.Info("Initializing Chromium...")

	pw, err := playwright.Run()
	if err != nil {
		return nil, apperrors.NewSessionInitError(fmt.Errorf("failed to start playwright: %w", err))
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     launchArgs,
	})
	if err != nil {
		pw.Stop()
		return nil, apperrors.NewSessionInitError(fmt.Errorf("failed to launch browser: %w", err))
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, apperrors.NewSessionInitError(fmt.Errorf("failed to create context: %w", err))
	}

	page, err := bctx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, apperrors.NewSessionInitError(fmt.Errorf("failed to create page: %w", err))
	}

	timeoutMs := float64(opts.Timeout.Milliseconds())
	bctx.SetDefaultTimeout(timeoutMs)

	s := &session{
		pw:        pw,
		browser:   browser,
		context:   bctx,
		page:      page,
		pages:     []playwright.Page{page},
		timeoutMs: timeoutMs,
		logger:    l.logger,
	}
	s.watch(page)

	// the portal opens some records in a new window; follow it
	bctx.OnPage(func(newPage playwright.Page) {
		s.pagesMutex.Lock()
		s.pages = append(s.pages, newPage)
		s.page = newPage
		s.pagesMutex.Unlock()
		s.watch(newPage)
	})

	l.logger.Info("Chromium initialized")
	return s, nil
}

type session struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	context    playwright.BrowserContext
	page       playwright.Page
	pages      []playwright.Page
	pagesMutex sync.Mutex
	timeoutMs  float64
	closed     bool
	logger     *logrus.Logger
}

func (s *session) watch(page playwright.Page) {
	page.OnDialog(func(dialog playwright.Dialog) {
		s.logger.Infof("Accepting dialog: %s", dialog.Message())
		dialog.Accept()
	})

	page.OnClose(func(closedPage playwright.Page) {
		s.pagesMutex.Lock()
		defer s.pagesMutex.Unlock()

		for i, p := range s.pages {
			if p == closedPage {
				s.pages = append(s.pages[:i], s.pages[i+1:]...)
				break
			}
		}
		if s.page == closedPage && len(s.pages) > 0 {
			s.page = s.pages[len(s.pages)-1]
		}
	})
}

func (s *session) currentPage() playwright.Page {
	s.pagesMutex.Lock()
	defer s.pagesMutex.Unlock()
	return s.page
}

// Navigate - loads url, waiting for the DOM
func (s *session) Navigate(ctx context.Context, url string) error {
	resp, err := s.currentPage().Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.timeoutMs),
	})
	if err != nil {
		return err
	}
	if resp != nil && resp.Status() >= 500 {
		return fmt.Errorf("%s answered %d", url, resp.Status())
	}
	return nil
}

// PageSource - returns the current document markup
func (s *session) PageSource(ctx context.Context) (string, error) {
	return s.currentPage().Content()
}

// Find - first visible element in document order matching the strategy
func (s *session) Find(ctx context.Context, strategy entities.LocatorStrategy, timeout time.Duration) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	xpath := strategy.XPath()
	if xpath == "" {
		return nil, fmt.Errorf("strategy %s has no selector", strategy)
	}

	page := s.currentPage()
	locator := page.Locator("xpath=" + xpath).First()
	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("%s not visible: %w", strategy, err)
	}

	return &element{page: page, locator: locator, timeoutMs: s.timeoutMs}, nil
}

// Screenshot - writes a full-page screenshot to path
func (s *session) Screenshot(ctx context.Context, path string) error {
	_, err := s.currentPage().Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// Close - closes the context, the browser and the playwright driver once
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var closeErr error
	if s.context != nil {
		if err := s.context.Close(); err != nil && !isClosedErr(err) {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		s.context = nil
	}

	if s.browser != nil {
		if err := s.browser.Close(); err != nil && !isClosedErr(err) {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; failed to close browser: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("failed to close browser: %w", err)
			}
		}
		s.browser = nil
	}

	if s.pw != nil {
		if err := s.pw.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
		s.pw = nil
	}

	return closeErr
}

// isClosedErr - playwright reports already-closed targets as errors
func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

type element struct {
	page      playwright.Page
	locator   playwright.Locator
	timeoutMs float64
}

func (e *element) Click(ctx context.Context) error {
	if err := e.locator.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(e.timeoutMs),
	}); err != nil {
		return err
	}

	e.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(e.timeoutMs),
	})
	return nil
}

func (e *element) Fill(ctx context.Context, value string) error {
	if err := e.locator.Clear(playwright.LocatorClearOptions{
		Timeout: playwright.Float(e.timeoutMs),
	}); err != nil {
		return err
	}
	return e.locator.Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(e.timeoutMs),
	})
}

func (e *element) SelectByText(ctx context.Context, text string) error {
	labels := []string{text}
	_, err := e.locator.SelectOption(playwright.SelectOptionValues{
		Labels: &labels,
	}, playwright.LocatorSelectOptionOptions{
		Timeout: playwright.Float(e.timeoutMs),
	})
	if err != nil {
		return fmt.Errorf("option %q not selectable: %w", text, err)
	}
	return nil
}

func (e *element) Press(ctx context.Context, key string) error {
	if err := e.locator.Press(key, playwright.LocatorPressOptions{
		Timeout: playwright.Float(e.timeoutMs),
	}); err != nil {
		return err
	}

	e.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(e.timeoutMs),
	})
	return nil
}

// Ensure Launcher implements SessionFactory
var _ interfaces.SessionFactory = (*Launcher)(nil)
