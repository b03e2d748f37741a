// Package checkpoint persists how far a scrape got so an interrupted run can
// resume instead of starting over.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sigahorarios/internal/assert"
	"sigahorarios/internal/telemetry"
)

const DefaultFile = "scraping_state.json"

const (
	report_write    = "write"
	report_read     = "read"
	report_mismatch = "mismatch"
	report_clear    = "clear"
)

// Checkpoint is the resume point of a run, LastRow is the index of the last
// row whose section is present in the snapshot at SnapshotPath.
type Checkpoint struct {
	Campus       string `json:"campus"`
	Period       string `json:"periodo"`
	LastRow      int    `json:"ultimo_contador"`
	SnapshotPath string `json:"archivo_json"`
}

// NextRow is the first row a resumed run must process.
func (c Checkpoint) NextRow() int {
	return c.LastRow + 1
}

// Controller records checkpoints of the run for one campus and period.
// Failures to write are reported but never returned.
type Controller struct {
	path   string
	campus string
	period string
	tel    telemetry.API
}

func NewController(path, campus, period string, tel telemetry.API) Controller {
	assert.NotEmptyStr(path)
	assert.NotEmptyStr(campus)
	assert.NotEmptyStr(period)
	assert.NotNil(tel)

	return Controller{
		path:   path,
		campus: campus,
		period: period,
		tel:    telemetry.NewScopedAPI("checkpoint", tel),
	}
}

func (c Controller) Path() string {
	return c.path
}

// Record saves row as the last processed row.
func (c Controller) Record(row int, snapshotPath string) {
	err := c.write(Checkpoint{
		Campus:       c.campus,
		Period:       c.period,
		LastRow:      row,
		SnapshotPath: snapshotPath,
	})
	if err != nil {
		c.tel.ReportWarning(report_write, row, err)
	}
}

func (c Controller) write(cp Checkpoint) error {
	serialized, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(c.path)
	if dir != "." {
		err = os.MkdirAll(dir, 0755)
		if err != nil {
			return err
		}
	}
	tmp := c.path + ".tmp"
	err = os.WriteFile(tmp, serialized, 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

// Load returns the saved checkpoint if it belongs to this campus and period.
// A checkpoint of another campus or period is deleted.
func (c Controller) Load() (Checkpoint, bool) {
	cp, err := Read(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return Checkpoint{}, false
	}
	if err != nil {
		c.tel.ReportWarning(report_read, err)
		return Checkpoint{}, false
	}
	if cp.Campus != c.campus || cp.Period != c.period {
		c.tel.ReportWarning(
			report_mismatch,
			fmt.Sprintf("checkpoint is for %s/%s, run is for %s/%s", cp.Campus, cp.Period, c.campus, c.period),
		)
		c.Clear()
		return Checkpoint{}, false
	}
	return cp, true
}

// Clear deletes the checkpoint file if it exists.
func (c Controller) Clear() {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		c.tel.ReportWarning(report_clear, err)
	}
}

// Read parses a checkpoint file without validating it.
func Read(path string) (Checkpoint, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Checkpoint{}, err
	}
	var cp Checkpoint
	err = json.Unmarshal(contents, &cp)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("parse checkpoint %s: %w", path, err)
	}
	return cp, nil
}
