// Package importer replaces the relational copy of every period in a catalog
// tree, each import runs in a single transaction.
package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sigahorarios/internal/assert"
	"sigahorarios/internal/catalog"
	"sigahorarios/internal/chrono"
	"sigahorarios/internal/db"
	"sigahorarios/internal/telemetry"
	"sigahorarios/lib/textutil"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("sigahorarios.internal.importer")

const DefaultLastImportFile = "ultima_act_bdd.txt"

const lastImportLayout = "2006-01-02 15:04:05"

const roomPrefix = "Sala "

const (
	report_capacity    = "capacity"
	report_empty       = "empty-subject"
	report_last_import = "last-import"
	report_sections    = "sections"
	report_slots       = "slots"
	report_professors  = "new-professors"
	report_period      = "period"
)

type Options struct {
	DB   *sql.DB
	Time chrono.API
	// LastImportFile receives the time of the last successful import, it
	// is skipped when empty.
	LastImportFile string
}

type Importer struct {
	makeTx         db.MakeTx
	time           chrono.API
	lastImportFile string
	tel            telemetry.API
}

func New(opts Options, tel telemetry.API) Importer {
	assert.NotNil(opts.DB)
	assert.NotNil(opts.Time)
	assert.NotNil(tel)

	return Importer{
		makeTx:         db.NewMakeTx(opts.DB),
		time:           opts.Time,
		lastImportFile: opts.LastImportFile,
		tel:            telemetry.NewScopedAPI("importer", tel),
	}
}

// Import replaces every (campus, period) of the tree in the database. Any
// failure rolls the whole import back.
func (i Importer) Import(ctx context.Context, tree catalog.Catalog) (err error) {
	ctx, span := tracer.Start(ctx, "Import")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to import catalog")
		}
	}()

	txqry, discard, commit, err := i.makeTx(ctx)
	if err != nil {
		return &PersistenceError{Phase: PhaseBegin, Err: err}
	}
	defer discard()

	state := &importState{
		qry:        txqry,
		tel:        i.tel,
		professors: map[string]int64{},
	}
	rows, err := txqry.ListProfessors(ctx)
	if err != nil {
		return &PersistenceError{Phase: PhaseProfessors, Err: err}
	}
	for _, r := range rows {
		state.professors[r.Nombre] = r.ID
	}

	for _, campus := range sortedKeys(tree) {
		for _, period := range sortedKeys(tree[campus]) {
			err = state.importPeriod(ctx, campus, period, tree[campus][period])
			if err != nil {
				return err
			}
		}
	}

	err = commit()
	if err != nil {
		return &PersistenceError{Phase: PhaseCommit, Err: err}
	}

	span.SetAttributes(
		attribute.Int("sections", state.sections),
		attribute.Int("slots", state.slots),
	)
	i.tel.ReportCount(report_sections, int64(state.sections))
	i.tel.ReportCount(report_slots, int64(state.slots))
	i.tel.ReportCount(report_professors, int64(state.newProfessors))

	i.writeLastImport(i.time.Now())
	return nil
}

func (i Importer) writeLastImport(at time.Time) {
	if i.lastImportFile == "" {
		return
	}
	dir := filepath.Dir(i.lastImportFile)
	if dir != "." {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			i.tel.ReportWarning(report_last_import, err)
			return
		}
	}
	err := os.WriteFile(i.lastImportFile, []byte(at.Format(lastImportLayout)), 0644)
	if err != nil {
		i.tel.ReportWarning(report_last_import, err)
	}
}

// ReadLastImport returns the time written by the last successful import.
func ReadLastImport(path string, loc *time.Location) (time.Time, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(lastImportLayout, strings.TrimSpace(string(contents)), loc)
}

// importState lives for a single transaction, the caches it holds are only
// valid while that transaction is open.
type importState struct {
	qry *db.Queries
	tel telemetry.API

	professors map[string]int64

	sections      int
	slots         int
	newProfessors int
}

func (s *importState) importPeriod(ctx context.Context, campus, period string, subjects catalog.Period) error {
	ctx, span := tracer.Start(ctx, "importPeriod")
	defer span.End()
	span.SetAttributes(
		attribute.String("campus", campus),
		attribute.String("period", period),
	)

	code, err := catalog.ParsePeriodCode(period)
	if err != nil {
		return &PersistenceError{Phase: PhaseSemester, Err: err}
	}
	s.tel.ReportDebug(report_period, campus, code.Display(), len(subjects))

	campusId, err := s.campusId(ctx, campus)
	if err != nil {
		return &PersistenceError{Phase: PhaseCampus, Err: err}
	}

	err = s.qry.DeleteSemester(ctx, db.DeleteSemesterParams{
		CampusID: campusId,
		Codigo:   code.Display(),
	})
	if err != nil {
		return &PersistenceError{Phase: PhaseSemester, Err: fmt.Errorf("delete %s: %w", code.Display(), err)}
	}
	semesterId, err := s.qry.CreateSemester(ctx, db.CreateSemesterParams{
		CampusID: campusId,
		Codigo:   code.Display(),
	})
	if err != nil {
		return &PersistenceError{Phase: PhaseSemester, Err: fmt.Errorf("create %s: %w", code.Display(), err)}
	}

	subjectIds := map[string]int64{}
	existing, err := s.qry.ListSubjects(ctx, semesterId)
	if err != nil {
		return &PersistenceError{Phase: PhaseSubjects, Err: err}
	}
	for _, r := range existing {
		subjectIds[r.Codigo] = r.ID
	}

	for _, subjectCode := range sortedKeys(subjects) {
		sections := subjects[subjectCode]
		if len(sections) == 0 {
			s.tel.ReportDebug(report_empty, campus, period, subjectCode)
			continue
		}

		subjectId, ok := subjectIds[subjectCode]
		if !ok {
			first := sections[0]
			subjectId, err = s.qry.CreateSubject(ctx, db.CreateSubjectParams{
				SemestreID:   semesterId,
				Codigo:       subjectCode,
				Nombre:       first.Name,
				Departamento: first.Department,
			})
			if err != nil {
				return &PersistenceError{Phase: PhaseSubjects, Err: fmt.Errorf("create %s: %w", subjectCode, err)}
			}
			subjectIds[subjectCode] = subjectId
		}

		for _, section := range sections {
			err = s.importSection(ctx, subjectId, subjectCode, section)
			if err != nil {
				return &PersistenceError{Phase: PhaseSections, Err: err}
			}
		}
	}
	return nil
}

func (s *importState) campusId(ctx context.Context, name string) (int64, error) {
	id, err := s.qry.GetCampusId(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return s.qry.CreateCampus(ctx, name)
	}
	return id, err
}

func (s *importState) importSection(ctx context.Context, subjectId int64, subjectCode string, section catalog.Section) error {
	sectionId, err := s.qry.UpsertSection(ctx, db.UpsertSectionParams{
		AsignaturaID: subjectId,
		Paralelo:     section.Label,
		Cupos:        s.capacity(subjectCode, section),
	})
	if err != nil {
		return fmt.Errorf("upsert %s-%s: %w", subjectCode, section.Label, err)
	}
	s.sections++

	for _, name := range section.Professors {
		professorId, ok, err := s.professorId(ctx, name)
		if err != nil {
			return fmt.Errorf("professor %q: %w", name, err)
		}
		if !ok {
			continue
		}
		err = s.qry.LinkProfessor(ctx, db.LinkProfessorParams{
			ParaleloID: sectionId,
			ProfesorID: professorId,
		})
		if err != nil {
			return fmt.Errorf("link professor %q to %s-%s: %w", name, subjectCode, section.Label, err)
		}
	}

	for _, slot := range section.Schedule.Slots() {
		err = s.qry.CreateScheduleSlot(ctx, db.CreateScheduleSlotParams{
			ParaleloID:   sectionId,
			DiaSemana:    int64(slot.Day + db.DayOffset),
			BloqueInicio: int64(slot.Block + db.BlockOffset),
			Sala:         strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(slot.Room), roomPrefix)),
		})
		if err != nil {
			return fmt.Errorf("schedule of %s-%s: %w", subjectCode, section.Label, err)
		}
		s.slots++
	}
	return nil
}

// professorId resolves a professor by normalized name, creating it when it
// is new. Names that normalize to nothing are skipped.
func (s *importState) professorId(ctx context.Context, name string) (int64, bool, error) {
	name = textutil.NormalizeProfessor(name)
	if name == "" {
		return 0, false, nil
	}
	if id, ok := s.professors[name]; ok {
		return id, true, nil
	}
	id, err := s.qry.CreateProfessor(ctx, name)
	if err != nil {
		return 0, false, err
	}
	s.professors[name] = id
	s.newProfessors++
	return id, true, nil
}

func (s *importState) capacity(subjectCode string, section catalog.Section) int64 {
	raw := strings.TrimSpace(section.Capacity)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.tel.ReportWarning(report_capacity, subjectCode, section.Label, err)
		return 0
	}
	return value
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
