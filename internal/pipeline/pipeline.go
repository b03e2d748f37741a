// Package pipeline runs a full scrape: log in, walk every row of the results
// table, persist the tree and retry whatever failed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sigahorarios/internal/assert"
	"sigahorarios/internal/catalog"
	"sigahorarios/internal/checkpoint"
	"sigahorarios/internal/chrono"
	"sigahorarios/internal/notify"
	"sigahorarios/internal/portal"
	"sigahorarios/internal/siga"
	"sigahorarios/internal/snapshot"
	"sigahorarios/internal/telemetry"
	"sigahorarios/internal/walker"
	"time"

	"github.com/google/uuid"
)

const (
	report_attempt   = "attempt"
	report_scrape    = "scrape"
	report_import    = "import"
	report_resume    = "resume"
	report_snapshot  = "snapshot"
	report_notify    = "notify"
	report_close     = "close-browser"
	report_exhausted = "exhausted"
)

// ErrAttemptsExhausted is joined with the last error once every attempt failed.
var ErrAttemptsExhausted = errors.New("every attempt failed")

// Browser is a logged in portal session.
type Browser interface {
	siga.Driver
	SelectResults(ctx context.Context, query portal.Query) error
	Close() error
}

// OpenFunc opens a new Browser, every attempt gets a fresh one.
type OpenFunc func(ctx context.Context) (Browser, error)

type Importer interface {
	Import(ctx context.Context, tree catalog.Catalog) error
}

type Options struct {
	Campus catalog.Campus
	Period catalog.PeriodCode
	Shift  catalog.Shift
	// Limit stops the walk after that many rows, 0 means no limit.
	Limit int

	MaxAttempts int
	Cooldown    time.Duration

	OutputDir      string
	CheckpointFile string

	Navigator siga.NavigatorOptions
}

type Dependencies struct {
	Open OpenFunc
	// Importer is optional, without it the snapshot is the only output.
	Importer Importer
	Notifier notify.Notifier
	Time     chrono.API
}

type Runner struct {
	deps    Dependencies
	options Options
	tel     telemetry.API
}

func NewRunner(deps Dependencies, options Options, tel telemetry.API) Runner {
	assert.NotNil(deps.Open)
	assert.NotNil(deps.Time)
	assert.NotNil(tel)
	assert.NotEmptyStr(options.Campus.Name)

	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	if options.MaxAttempts <= 0 {
		options.MaxAttempts = 5
	}
	if options.OutputDir == "" {
		options.OutputDir = snapshot.DefaultDir
	}
	if options.CheckpointFile == "" {
		options.CheckpointFile = checkpoint.DefaultFile
	}

	return Runner{
		deps:    deps,
		options: options,
		tel:     telemetry.NewScopedAPI("pipeline", tel),
	}
}

// Result describes a successful run.
type Result struct {
	RunID        string
	Attempts     int
	Summary      walker.Summary
	SnapshotPath string
	Imported     bool
}

// Run scrapes and imports the configured campus and period, retrying up to
// MaxAttempts times. A failed scrape resumes from the checkpoint on the
// next attempt, a failed import only retries the import.
func (r Runner) Run(ctx context.Context) (Result, error) {
	var (
		scraped *scrapeResult
		lastErr error
		runID   string
	)
	for attempt := 1; attempt <= r.options.MaxAttempts; attempt++ {
		if attempt > 1 {
			err := r.cooldown(ctx)
			if err != nil {
				return Result{}, err
			}
		}
		runID = uuid.NewString()
		r.tel.ReportDebug(report_attempt, runID, attempt, r.options.Campus.Name, r.options.Period.Display())

		if scraped == nil {
			res, err := r.scrape(ctx, runID)
			if err != nil {
				lastErr = fmt.Errorf("attempt %d: %w", attempt, err)
				r.tel.ReportWarning(report_scrape, runID, attempt, err)
				if ctx.Err() != nil {
					return Result{}, ctx.Err()
				}
				continue
			}
			scraped = &res
		}

		imported := false
		if r.deps.Importer != nil {
			err := r.deps.Importer.Import(ctx, scraped.tree)
			if err != nil {
				lastErr = fmt.Errorf("attempt %d: %w", attempt, err)
				r.tel.ReportWarning(report_import, runID, attempt, err)
				if ctx.Err() != nil {
					return Result{}, ctx.Err()
				}
				continue
			}
			imported = true
		}

		if !scraped.summary.Limited {
			scraped.controller.Clear()
		}
		return Result{
			RunID:        runID,
			Attempts:     attempt,
			Summary:      scraped.summary,
			SnapshotPath: scraped.snapshotPath,
			Imported:     imported,
		}, nil
	}

	err := errors.Join(ErrAttemptsExhausted, lastErr)
	r.tel.ReportBroken(report_exhausted, runID, err)
	notifyErr := r.deps.Notifier.NotifyFailure(ctx, notify.Failure{
		RunID:    runID,
		Campus:   r.options.Campus.Name,
		Period:   r.options.Period.Display(),
		Attempts: r.options.MaxAttempts,
		At:       r.deps.Time.Now(),
		Err:      lastErr,
	})
	if notifyErr != nil {
		r.tel.ReportWarning(report_notify, runID, notifyErr)
	}
	return Result{RunID: runID, Attempts: r.options.MaxAttempts}, err
}

func (r Runner) cooldown(ctx context.Context) error {
	if r.options.Cooldown <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.options.Cooldown)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type scrapeResult struct {
	tree         catalog.Catalog
	summary      walker.Summary
	snapshotPath string
	controller   checkpoint.Controller
}

// resumeState restores the tree of an interrupted run, an unusable
// checkpoint is cleared and the run starts over.
func (r Runner) resumeState(controller checkpoint.Controller) (catalog.Catalog, snapshot.Writer, int) {
	fresh := func() (catalog.Catalog, snapshot.Writer, int) {
		return catalog.Catalog{}, snapshot.NewRunWriter(r.options.OutputDir, r.deps.Time.Now()), 0
	}

	cp, ok := controller.Load()
	if !ok {
		return fresh()
	}
	if cp.SnapshotPath == "" {
		controller.Clear()
		return fresh()
	}
	tree, err := snapshot.Load(cp.SnapshotPath)
	if err != nil {
		r.tel.ReportWarning(report_resume, cp.SnapshotPath, err)
		controller.Clear()
		return fresh()
	}
	r.tel.ReportDebug(report_resume, cp.SnapshotPath, cp.NextRow())
	return tree, snapshot.NewWriter(cp.SnapshotPath), cp.NextRow()
}

func (r Runner) scrape(ctx context.Context, runID string) (scrapeResult, error) {
	controller := checkpoint.NewController(
		r.options.CheckpointFile,
		r.options.Campus.Name,
		r.options.Period.String(),
		r.tel,
	)
	tree, writer, from := r.resumeState(controller)
	period := tree.Period(r.options.Campus.Name, r.options.Period.String())

	browser, err := r.deps.Open(ctx)
	if err != nil {
		return scrapeResult{}, fmt.Errorf("open portal: %w", err)
	}
	defer func() {
		err := browser.Close()
		if err != nil {
			r.tel.ReportDebug(report_close, runID, err)
		}
	}()

	err = browser.SelectResults(ctx, portal.Query{
		Campus: r.options.Campus,
		Period: r.options.Period,
		Shift:  r.options.Shift,
	})
	if err != nil {
		return scrapeResult{}, fmt.Errorf("select results: %w", err)
	}

	nav := siga.NewNavigator(browser, r.tel, r.options.Navigator)
	rows, err := nav.ReadResults(ctx)
	if err != nil {
		return scrapeResult{}, err
	}

	progress := walker.ProgressFunc(func(_ context.Context, row int) {
		err := writer.Write(tree)
		if err != nil {
			r.tel.ReportWarning(report_snapshot, row, err)
			return
		}
		controller.Record(row, absPath(writer.Path()))
	})
	summary, err := walker.New(nav, progress, r.tel).Walk(ctx, rows, period, walker.Options{
		From:  from,
		Limit: r.options.Limit,
	})
	if err != nil {
		return scrapeResult{}, err
	}

	err = writer.Write(tree)
	if err != nil {
		r.tel.ReportWarning(report_snapshot, -1, err)
	}
	return scrapeResult{
		tree:         tree,
		summary:      summary,
		snapshotPath: writer.Path(),
		controller:   controller,
	}, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
