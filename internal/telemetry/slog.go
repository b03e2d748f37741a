package telemetry

import (
	"fmt"
	"log/slog"
)

// SlogAPI implements API using the log/slog package, an optional set of
// attributes (ex. a run id) is attached to every record.
type SlogAPI struct {
	attrs []any
}

// NewSlogAPI creates a SlogAPI that attaches the given key/value pairs to
// every report.
func NewSlogAPI(attrs ...any) SlogAPI {
	return SlogAPI{attrs: attrs}
}

func (s SlogAPI) pairs(id string, params []any) []any {
	out := make([]any, 0, 2+len(s.attrs)+len(params)*2)
	out = append(out, "id", id)
	out = append(out, s.attrs...)
	for i, p := range params {
		if err, ok := p.(error); ok {
			out = append(out, fmt.Sprintf("params.%d", i), err.Error())
			continue
		}
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	slog.Error("broken component", s.pairs(id, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	slog.Warn("warning", s.pairs(id, params)...)
}

func (s SlogAPI) ReportDebug(id string, params ...any) {
	slog.Debug("debug", s.pairs(id, params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	pairs := append([]any{"id", id, "n", count}, s.attrs...)
	slog.Info("count", pairs...)
}
