// Package walker folds the rows of the results table into the catalog tree,
// continuation rows (no subject code) belong to the last subject seen.
package walker

import (
	"context"
	"sigahorarios/internal/assert"
	"sigahorarios/internal/catalog"
	"sigahorarios/internal/siga"
	"sigahorarios/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var meter = otel.Meter("sigahorarios.internal.walker")

const (
	report_row       = "row"
	report_skipped   = "skipped"
	report_processed = "processed"
	report_metric    = "metric"
)

const (
	PhaseClassify = "classify"
	PhaseDetail   = "detail"
	PhaseCancel   = "cancel"
)

// DetailOpener fetches the detail of a row, this is siga.Navigator in production.
//
// note: fault injection point
type DetailOpener interface {
	OpenSectionDetail(ctx context.Context, row siga.ResultRow) (siga.Detail, error)
}

// Progress is notified after a row has been added to the tree.
type Progress interface {
	RowDone(ctx context.Context, row int)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(ctx context.Context, row int)

func (f ProgressFunc) RowDone(ctx context.Context, row int) {
	f(ctx, row)
}

// Context is the subject the next continuation row belongs to.
type Context struct {
	SubjectCode string
	SubjectName string
	Department  string
}

// Step folds one row into the context. A row with a code starts a new
// subject, a row without one continues the current subject.
func Step(state Context, row siga.ResultRow) (Context, error) {
	if row.Code != "" {
		return Context{
			SubjectCode: row.Code,
			SubjectName: row.Name,
			Department:  row.Department,
		}, nil
	}
	if state.SubjectCode == "" {
		return state, &siga.MalformedRowError{
			Row:    row.Index,
			Reason: "continuation row without a preceding subject",
		}
	}
	return state, nil
}

// Options controls which rows are processed.
type Options struct {
	// From is the index of the first row to process, earlier rows only
	// update the context.
	From int
	// Limit stops the walk after this many processed rows, 0 means no limit.
	Limit int
}

// Summary describes what a walk did.
type Summary struct {
	Processed int
	Skipped   int
	Limited   bool
}

type Walker struct {
	opener    DetailOpener
	progress  Progress
	tel       telemetry.API
	processed metric.Int64Counter
}

func New(opener DetailOpener, progress Progress, tel telemetry.API) Walker {
	assert.NotNil(opener)
	assert.NotNil(progress)
	assert.NotNil(tel)

	scoped := telemetry.NewScopedAPI("walker", tel)
	counter, err := meter.Int64Counter(
		"siga.rows.processed",
		metric.WithDescription("Rows of the results table added to the catalog."),
	)
	if err != nil {
		scoped.ReportWarning(report_metric, err)
		counter = noop.Int64Counter{}
	}

	return Walker{
		opener:    opener,
		progress:  progress,
		tel:       scoped,
		processed: counter,
	}
}

// Walk adds a section to period for every row from options.From onwards. Any
// failure to read a row's detail stops the walk, since the rows that follow
// can no longer be trusted to line up with their detail forms.
func (w Walker) Walk(ctx context.Context, rows []siga.ResultRow, period catalog.Period, options Options) (Summary, error) {
	assert.NotNil(period)

	summary := Summary{}
	state := Context{}
	for _, row := range rows {
		err := ctx.Err()
		if err != nil {
			return summary, &siga.RowError{Row: row.Index, Phase: PhaseCancel, Err: err}
		}

		state, err = Step(state, row)
		if err != nil {
			return summary, &siga.RowError{Row: row.Index, Phase: PhaseClassify, Err: err}
		}
		if row.Index < options.From {
			summary.Skipped++
			continue
		}
		if options.Limit > 0 && summary.Processed >= options.Limit {
			summary.Limited = true
			break
		}

		if row.Code != "" {
			period.EnsureSubject(state.SubjectCode)
		}
		w.tel.ReportDebug(report_row, row.Index, state.SubjectCode, row.Section)
		detail, err := w.opener.OpenSectionDetail(ctx, row)
		if err != nil {
			w.tel.ReportBroken(report_row, row.Index, err)
			return summary, &siga.RowError{Row: row.Index, Phase: PhaseDetail, Err: err}
		}

		period.Append(state.SubjectCode, catalog.Section{
			Name:       state.SubjectName,
			Department: state.Department,
			Label:      row.Section,
			Professors: detail.Professors,
			Capacity:   row.Capacity,
			Schedule:   detail.Schedule,
		})
		summary.Processed++
		w.processed.Add(ctx, 1)
		w.progress.RowDone(ctx, row.Index)
	}

	w.tel.ReportCount(report_skipped, int64(summary.Skipped))
	w.tel.ReportCount(report_processed, int64(summary.Processed))
	return summary, nil
}
