package siga

import (
	"context"
	"errors"
	"fmt"
	"sigahorarios/internal/assert"
	"sigahorarios/internal/telemetry"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("sigahorarios.internal.siga")

const (
	// ResultsFrame holds the results table in the main window.
	ResultsFrame = "frame3"
	// DetailFrame holds the schedule of a section in the popup window.
	DetailFrame = "cuerpo"

	primaryWindow = 0
	popupWindow   = 1
)

const (
	report_close_popup = "navigator.close-popup"
	report_reset       = "navigator.reset"
	report_detail      = "navigator.detail"
)

// NavigatorOptions bounds every wait the navigator does.
type NavigatorOptions struct {
	// WindowTimeout bounds the wait for the detail popup to open.
	WindowTimeout time.Duration
	// FrameTimeout bounds the wait for a frame (and its content) to be available.
	FrameTimeout time.Duration
	// PollInterval is the time between two checks of a waited condition.
	PollInterval time.Duration
}

func (o NavigatorOptions) withDefaults() NavigatorOptions {
	if o.WindowTimeout <= 0 {
		o.WindowTimeout = 5 * time.Second
	}
	if o.FrameTimeout <= 0 {
		o.FrameTimeout = 5 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 100 * time.Millisecond
	}
	return o
}

// Navigator moves a Driver between the results frame of the main window and
// the detail popup of each row. A successful call leaves the driver inside
// the results frame, a failed one leaves it on the main window.
type Navigator struct {
	driver  Driver
	tel     telemetry.API
	options NavigatorOptions
}

func NewNavigator(driver Driver, tel telemetry.API, options NavigatorOptions) Navigator {
	assert.NotNil(driver)
	assert.NotNil(tel)

	return Navigator{
		driver:  driver,
		tel:     telemetry.NewScopedAPI("siga", tel),
		options: options.withDefaults(),
	}
}

// EnterResults switches to the results frame of the main window.
func (n Navigator) EnterResults(ctx context.Context) error {
	err := n.driver.SwitchWindow(primaryWindow)
	if err != nil {
		return err
	}
	err = n.driver.DefaultContent()
	if err != nil {
		return err
	}
	return n.waitForFrame(ctx, ResultsFrame)
}

// ReadResults reads every row of the results table.
func (n Navigator) ReadResults(ctx context.Context) ([]ResultRow, error) {
	ctx, span := tracer.Start(ctx, "ReadResults")
	defer span.End()

	err := n.EnterResults(ctx)
	if err != nil {
		err = &NavigationError{Row: -1, Step: "enter results frame", Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to enter results frame")
		return nil, err
	}
	doc, err := n.document()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read results frame")
		return nil, err
	}
	rows, err := ParseResults(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse results table")
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows, nil
}

// OpenSectionDetail opens the detail popup of a row, extracts it and goes
// back to the results frame. The popup is closed whatever the outcome.
func (n Navigator) OpenSectionDetail(ctx context.Context, row ResultRow) (detail Detail, err error) {
	ctx, span := tracer.Start(ctx, "OpenSectionDetail", trace.WithAttributes(
		attribute.Int("row", row.Index),
		attribute.String("code", row.Code),
		attribute.String("section", row.Section),
	))
	defer span.End()

	defer func() {
		if err == nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open section detail")
		var navErr *NavigationError
		if errors.As(err, &navErr) {
			n.reset(row.Index)
		}
	}()

	err = n.driver.ClickDetail(row.Index)
	if err != nil {
		return Detail{}, &NavigationError{Row: row.Index, Step: "click detail link", Err: err}
	}
	err = n.waitFor(ctx, n.options.WindowTimeout, func() (bool, error) {
		count, err := n.driver.WindowCount()
		return count > 1, err
	})
	if err != nil {
		return Detail{}, &NavigationError{Row: row.Index, Step: "wait for detail window", Err: err}
	}
	err = n.driver.SwitchWindow(popupWindow)
	if err != nil {
		return Detail{}, &NavigationError{Row: row.Index, Step: "switch to detail window", Err: err}
	}

	detail, readErr := n.readDetail(ctx, row.Index)

	closeErr := n.driver.CloseWindow()
	if closeErr != nil {
		n.tel.ReportDebug(report_close_popup, row.Index, closeErr)
	}

	err = n.EnterResults(ctx)
	if err != nil {
		return Detail{}, &NavigationError{Row: row.Index, Step: "return to results frame", Err: err}
	}
	if readErr != nil {
		return Detail{}, readErr
	}

	n.tel.ReportDebug(report_detail, row.Index, len(detail.Professors), len(detail.Schedule.Slots()))
	return detail, nil
}

// readDetail waits for the detail frame to render its schedule table and
// extracts it, the driver always leaves the frame before returning.
func (n Navigator) readDetail(ctx context.Context, row int) (Detail, error) {
	err := n.waitForFrame(ctx, DetailFrame)
	if err != nil {
		return Detail{}, &NavigationError{Row: row, Step: "enter detail frame", Err: err}
	}
	defer n.driver.DefaultContent()

	var doc *goquery.Document
	err = n.waitFor(ctx, n.options.FrameTimeout, func() (bool, error) {
		var err error
		doc, err = n.document()
		if err != nil {
			return false, err
		}
		return HasScheduleTable(doc), nil
	})
	if errors.Is(err, ErrTimeout) {
		return Detail{}, fmt.Errorf("row %d: %w", row, &ExtractionError{Element: "schedule table", Err: err})
	}
	if err != nil {
		return Detail{}, &NavigationError{Row: row, Step: "read detail frame", Err: err}
	}

	detail, err := ExtractDetail(doc)
	if err != nil {
		return Detail{}, fmt.Errorf("row %d: %w", row, err)
	}
	return detail, nil
}

// reset closes a dangling popup and returns to the main window, its own
// errors are only reported.
func (n Navigator) reset(row int) {
	count, err := n.driver.WindowCount()
	if err != nil {
		n.tel.ReportWarning(report_reset, row, fmt.Errorf("count windows: %w", err))
	}
	if count > 1 {
		err = n.driver.SwitchWindow(popupWindow)
		if err == nil {
			err = n.driver.CloseWindow()
		}
		if err != nil {
			n.tel.ReportWarning(report_reset, row, fmt.Errorf("close popup: %w", err))
		}
	}
	err = n.driver.SwitchWindow(primaryWindow)
	if err == nil {
		err = n.driver.DefaultContent()
	}
	if err != nil {
		n.tel.ReportWarning(report_reset, row, fmt.Errorf("switch to main window: %w", err))
	}
}

func (n Navigator) document() (*goquery.Document, error) {
	content, err := n.driver.Content()
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

func (n Navigator) waitForFrame(ctx context.Context, name string) error {
	return n.waitFor(ctx, n.options.FrameTimeout, func() (bool, error) {
		err := n.driver.EnterFrame(name)
		if errors.Is(err, ErrFrameNotFound) {
			return false, nil
		}
		return err == nil, err
	})
}

// waitFor polls cond until it holds, fails or timeout expires.
func (n Navigator) waitFor(ctx context.Context, timeout time.Duration, cond func() (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(n.options.PollInterval)
	defer ticker.Stop()

	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w after %s", ErrTimeout, timeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
