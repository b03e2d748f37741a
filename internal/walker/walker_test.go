package walker

import (
	"context"
	"errors"
	"sigahorarios/internal/catalog"
	"sigahorarios/internal/siga"
	"sigahorarios/internal/telemetry"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	details map[int]siga.Detail
	errs    map[int]error
	opened  []int
}

func (f *fakeOpener) OpenSectionDetail(ctx context.Context, row siga.ResultRow) (siga.Detail, error) {
	f.opened = append(f.opened, row.Index)
	if err := f.errs[row.Index]; err != nil {
		return siga.Detail{}, err
	}
	return f.details[row.Index], nil
}

func room(block, day int, name string) catalog.Matrix {
	var m catalog.Matrix
	m[block][day] = name
	return m
}

func sampleRows() []siga.ResultRow {
	return []siga.ResultRow{
		{Index: 0, Code: "MAT023", Name: "Cálculo", Department: "DMAT", Section: "1", Capacity: "40"},
		{Index: 1, Section: "2", Capacity: "35"},
		{Index: 2, Code: "INF155", Name: "Programación", Department: "DI", Section: "200", Capacity: "90"},
		{Index: 3, Section: "201", Capacity: "80"},
		{Index: 4, Section: "202", Capacity: "70"},
	}
}

func sampleOpener() *fakeOpener {
	return &fakeOpener{details: map[int]siga.Detail{
		0: {Schedule: room(2, 0, "C-204"), Professors: []string{"Juan Pérez"}},
		1: {Schedule: room(3, 1, "C-205"), Professors: []string{}},
		2: {Schedule: room(0, 4, "P-101"), Professors: []string{"Ana Soto"}},
		3: {Schedule: room(1, 2, "P-102"), Professors: []string{"Ana Soto", "Luis Díaz"}},
		4: {Schedule: room(9, 6, "LAB"), Professors: []string{}},
	}}
}

func noProgress() Progress {
	return ProgressFunc(func(context.Context, int) {})
}

func TestStep(t *testing.T) {
	state, err := Step(Context{}, siga.ResultRow{Code: "INF155", Name: "Programación", Department: "DI"})
	require.NoError(t, err)
	require.Equal(t, Context{SubjectCode: "INF155", SubjectName: "Programación", Department: "DI"}, state)

	next, err := Step(state, siga.ResultRow{Section: "2"})
	require.NoError(t, err)
	require.Equal(t, state, next)

	_, err = Step(Context{}, siga.ResultRow{Index: 0, Section: "1"})
	var malformed *siga.MalformedRowError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, 0, malformed.Row)
}

func TestWalkCarriesSubjectForward(t *testing.T) {
	period := catalog.Period{}
	w := New(sampleOpener(), noProgress(), &telemetry.RecordingAPI{})

	summary, err := w.Walk(context.Background(), sampleRows(), period, Options{})
	require.NoError(t, err)
	require.Equal(t, Summary{Processed: 5}, summary)

	require.Len(t, period, 2)
	require.Len(t, period["MAT023"], 2)
	require.Len(t, period["INF155"], 3)

	second := period["MAT023"][1]
	require.Equal(t, "Cálculo", second.Name)
	require.Equal(t, "DMAT", second.Department)
	require.Equal(t, "2", second.Label)
	require.Equal(t, "35", second.Capacity)
	require.Equal(t, "C-205", second.Schedule[3][1])

	require.Equal(t, []string{"Ana Soto", "Luis Díaz"}, period["INF155"][1].Professors)
}

func TestWalkScenario(t *testing.T) {
	period := catalog.Period{}
	opener := &fakeOpener{details: map[int]siga.Detail{
		0: {Schedule: room(2, 0, "C-204"), Professors: []string{"Juan Pérez"}},
	}}
	w := New(opener, noProgress(), &telemetry.RecordingAPI{})

	_, err := w.Walk(context.Background(), []siga.ResultRow{
		{Index: 0, Code: "MAT023", Name: "Cálculo", Department: "DMAT", Section: "1", Capacity: "40"},
	}, period, Options{})
	require.NoError(t, err)

	section := period["MAT023"][0]
	require.Equal(t, "C-204", section.Schedule[2][0])
	require.Len(t, section.Schedule.Slots(), 1)
	require.Equal(t, []string{"Juan Pérez"}, section.Professors)
}

func TestWalkResumeMatchesFullRun(t *testing.T) {
	full := catalog.Period{}
	_, err := New(sampleOpener(), noProgress(), &telemetry.RecordingAPI{}).
		Walk(context.Background(), sampleRows(), full, Options{})
	require.NoError(t, err)

	for k := 1; k < len(sampleRows()); k++ {
		partial := catalog.Period{}
		_, err := New(sampleOpener(), noProgress(), &telemetry.RecordingAPI{}).
			Walk(context.Background(), sampleRows(), partial, Options{Limit: k})
		require.NoError(t, err)

		opener := sampleOpener()
		summary, err := New(opener, noProgress(), &telemetry.RecordingAPI{}).
			Walk(context.Background(), sampleRows(), partial, Options{From: k})
		require.NoError(t, err)
		require.Equal(t, k, summary.Skipped)

		if diff := cmp.Diff(full, partial); diff != "" {
			t.Fatalf("resume from %d differs (-full +resumed):\n%s", k, diff)
		}
		for _, index := range opener.opened {
			require.GreaterOrEqual(t, index, k)
		}
	}
}

func TestWalkFailsFast(t *testing.T) {
	opener := sampleOpener()
	opener.errs = map[int]error{
		2: &siga.NavigationError{Row: 2, Step: "wait for detail window", Err: siga.ErrTimeout},
	}
	tel := &telemetry.RecordingAPI{}
	period := catalog.Period{}

	summary, err := New(opener, noProgress(), tel).Walk(context.Background(), sampleRows(), period, Options{})
	var rowErr *siga.RowError
	require.ErrorAs(t, err, &rowErr)
	require.Equal(t, 2, rowErr.Row)
	require.Equal(t, PhaseDetail, rowErr.Phase)
	require.ErrorIs(t, err, siga.ErrTimeout)

	require.Equal(t, 2, summary.Processed)
	require.Equal(t, []int{0, 1, 2}, opener.opened)
	require.Empty(t, period["INF155"])
	require.True(t, tel.Has(telemetry.LevelBroken, "walker:row"))
}

func TestWalkRejectsOrphanContinuation(t *testing.T) {
	rows := []siga.ResultRow{{Index: 0, Section: "1"}}
	opener := &fakeOpener{}

	_, err := New(opener, noProgress(), &telemetry.RecordingAPI{}).Walk(context.Background(), rows, catalog.Period{}, Options{})
	var malformed *siga.MalformedRowError
	require.ErrorAs(t, err, &malformed)
	require.Empty(t, opener.opened)
}

func TestWalkProgressAfterMutation(t *testing.T) {
	period := catalog.Period{}
	done := []int{}
	progress := ProgressFunc(func(_ context.Context, row int) {
		done = append(done, row)
		require.Equal(t, row+1, period.Sections())
	})

	_, err := New(sampleOpener(), progress, &telemetry.RecordingAPI{}).
		Walk(context.Background(), sampleRows(), period, Options{})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4}, done)
}

func TestWalkLimit(t *testing.T) {
	period := catalog.Period{}
	summary, err := New(sampleOpener(), noProgress(), &telemetry.RecordingAPI{}).
		Walk(context.Background(), sampleRows(), period, Options{From: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, Summary{Processed: 2, Skipped: 1, Limited: true}, summary)
	require.Len(t, period["MAT023"], 1)
	require.Len(t, period["INF155"], 1)
}

func TestWalkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(sampleOpener(), noProgress(), &telemetry.RecordingAPI{}).
		Walk(ctx, sampleRows(), catalog.Period{}, Options{})
	require.True(t, errors.Is(err, context.Canceled))
}
