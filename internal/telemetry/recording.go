package telemetry

import (
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelWarning
	LevelBroken
	LevelCount
)

type Report struct {
	Level  Level
	ID     string
	Params []any
	Count  int64
}

// RecordingAPI keeps every report in memory, it is meant to be used in tests.
type RecordingAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func (r *RecordingAPI) add(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *RecordingAPI) ReportBroken(id string, params ...any) {
	r.add(Report{Level: LevelBroken, ID: id, Params: params})
}

func (r *RecordingAPI) ReportWarning(id string, params ...any) {
	r.add(Report{Level: LevelWarning, ID: id, Params: params})
}

func (r *RecordingAPI) ReportDebug(id string, params ...any) {
	r.add(Report{Level: LevelDebug, ID: id, Params: params})
}

func (r *RecordingAPI) ReportCount(id string, count int64) {
	r.add(Report{Level: LevelCount, ID: id, Count: count})
}

// Reports returns a copy of every report with the given level.
func (r *RecordingAPI) Reports(level Level) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	out := []Report{}
	for _, report := range r.reports {
		if report.Level == level {
			out = append(out, report)
		}
	}
	return out
}

// Has returns true if a report with the given level has an id ending with suffix,
// this makes it possible to match ids regardless of the ScopedAPI namespace.
func (r *RecordingAPI) Has(level Level, suffix string) bool {
	for _, report := range r.Reports(level) {
		if strings.HasSuffix(report.ID, suffix) {
			return true
		}
	}
	return false
}
