// Package portal drives a real browser through the SIGA portal, the
// resulting Session is the siga.Driver used in production.
package portal

import (
	"context"
	"errors"
	"fmt"
	"sigahorarios/internal/assert"
	"sigahorarios/internal/catalog"
	"sigahorarios/internal/siga"
	"sigahorarios/internal/telemetry"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("sigahorarios.internal.portal")

const DefaultBaseURL = "https://siga.usm.cl"

const (
	loginPage = "/pag/home.jsp"
	menuPage  = "/pag/menu.jsp"

	searchFrame  = "frame1"
	optionsFrame = "frame5"
)

const (
	report_login  = "login"
	report_select = "select"
	report_close  = "close"
)

type Options struct {
	BaseURL  string
	Username string
	Password string
	Headless bool
	// Timeout bounds every single browser action.
	Timeout time.Duration
	// ResultsTimeout bounds the wait for the results table after the search
	// form is submitted.
	ResultsTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.ResultsTimeout <= 0 {
		o.ResultsTimeout = 20 * time.Second
	}
	return o
}

// Query selects which results table is shown.
type Query struct {
	Campus catalog.Campus
	Period catalog.PeriodCode
	Shift  catalog.Shift
}

// Session is a logged in browser, it is not safe to share between runs.
type Session struct {
	mutex sync.Mutex

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	options Options
	tel     telemetry.API

	page  playwright.Page
	frame playwright.Frame
}

// Open launches chromium and logs into the portal.
func Open(ctx context.Context, options Options, tel telemetry.API) (*Session, error) {
	assert.NotEmptyStr(options.Username)
	assert.NotNil(tel)

	ctx, span := tracer.Start(ctx, "Open")
	defer span.End()

	options = options.withDefaults()
	session, err := launch(options, telemetry.NewScopedAPI("portal", tel))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to launch browser")
		return nil, err
	}

	err = session.login(ctx)
	if err != nil {
		session.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to log in")
		return nil, err
	}
	return session, nil
}

func launch(options Options, tel telemetry.API) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(options.Headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	bctx, err := browser.NewContext()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(options.Timeout.Milliseconds()))
	bctx.SetDefaultNavigationTimeout(float64(options.Timeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("create page: %w", err)
	}

	return &Session{
		pw:      pw,
		browser: browser,
		context: bctx,
		options: options,
		tel:     tel,
		page:    page,
	}, nil
}

func (s *Session) goTo(path string) error {
	_, err := s.page.Goto(s.options.BaseURL+path, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("go to %s: %w", path, err)
	}
	return nil
}

func (s *Session) login(ctx context.Context) error {
	err := s.goTo(loginPage)
	if err != nil {
		return err
	}
	s.tel.ReportDebug(report_login, s.options.Username)

	err = s.page.Locator("input[name='login']").Fill(s.options.Username)
	if err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	err = s.page.Locator("input[name='passwd']").Fill(s.options.Password)
	if err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	err = s.page.Locator("a[href*='ValidaLogin']").Click()
	if err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	err = s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateLoad,
	})
	if err != nil {
		return fmt.Errorf("wait for login: %w", err)
	}

	err = s.goTo(menuPage)
	if err != nil {
		return err
	}
	err = s.page.Locator("a[href*='insc_procesos.jsp']").Click()
	if err != nil {
		return fmt.Errorf("open subject schedules: %w", err)
	}
	_, err = s.waitFrame(ctx, searchFrame, s.options.Timeout)
	return err
}

// SelectResults fills the search form and waits for the results table to
// load, it leaves the session on the main window outside of any frame.
func (s *Session) SelectResults(ctx context.Context, query Query) (err error) {
	ctx, span := tracer.Start(ctx, "SelectResults")
	defer span.End()
	span.SetAttributes(
		attribute.String("campus", query.Campus.Code),
		attribute.String("period", query.Period.String()),
		attribute.String("shift", query.Shift.Code),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to select results")
		}
	}()

	s.tel.ReportDebug(report_select, query.Campus.Name, query.Period.Display(), query.Shift.Name)

	search, err := s.waitFrame(ctx, searchFrame, s.options.Timeout)
	if err != nil {
		return err
	}
	for _, field := range []struct{ name, value string }{
		{"periodo", query.Period.String()},
		{"jornada", query.Shift.Code},
		{"sede", query.Campus.Code},
	} {
		_, err = search.Locator(fmt.Sprintf("select[name='%s']", field.name)).
			SelectOption(playwright.SelectOptionValues{Values: &[]string{field.value}})
		if err != nil {
			return fmt.Errorf("select %s=%s: %w", field.name, field.value, err)
		}
	}

	options, err := s.waitFrame(ctx, optionsFrame, s.options.Timeout)
	if err != nil {
		return err
	}
	for _, name := range []string{"op", "op_asig"} {
		_, err = options.Locator(fmt.Sprintf("select[name='%s']", name)).
			SelectOption(playwright.SelectOptionValues{Values: &[]string{"1"}})
		if err != nil {
			return fmt.Errorf("select %s: %w", name, err)
		}
	}
	_, err = options.Locator("form[name='form_f1']").Evaluate("f => f.submit()", nil)
	if err != nil {
		return fmt.Errorf("submit search: %w", err)
	}

	results, err := s.waitFrame(ctx, siga.ResultsFrame, s.options.ResultsTimeout)
	if err != nil {
		return err
	}
	_, err = results.WaitForSelector("table.Celda01", playwright.FrameWaitForSelectorOptions{
		Timeout: playwright.Float(float64(s.options.ResultsTimeout.Milliseconds())),
	})
	if err != nil {
		return &siga.NavigationError{Row: -1, Step: "wait for results table", Err: err}
	}
	return nil
}

// waitFrame polls for a frame of the main window.
func (s *Session) waitFrame(ctx context.Context, name string, timeout time.Duration) (playwright.Frame, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		s.mutex.Lock()
		frame := s.page.Frame(playwright.PageFrameOptions{Name: playwright.String(name)})
		s.mutex.Unlock()
		if frame != nil {
			err := frame.WaitForLoadState(playwright.FrameWaitForLoadStateOptions{
				State: playwright.LoadStateLoad,
			})
			return frame, err
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("frame %s: %w after %s", name, siga.ErrTimeout, timeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close stops the browser and the playwright driver, it is safe to call
// more than once.
func (s *Session) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.pw == nil {
		return nil
	}
	var errs []error
	err := s.browser.Close()
	if err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	err = s.pw.Stop()
	if err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}
	s.pw = nil
	err = errors.Join(errs...)
	if err != nil {
		s.tel.ReportWarning(report_close, err)
	}
	return err
}
