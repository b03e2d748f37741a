package siga_test

import (
	"context"
	"errors"
	"sigahorarios/internal/catalog"
	"sigahorarios/internal/siga"
	"sigahorarios/internal/siga/sigatest"
	"sigahorarios/internal/telemetry"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fastOptions = siga.NavigatorOptions{
	WindowTimeout: 50 * time.Millisecond,
	FrameTimeout:  50 * time.Millisecond,
	PollInterval:  5 * time.Millisecond,
}

func twoRowBrowser() *sigatest.Browser {
	var first [catalog.BlockCount][catalog.DayCount]string
	first[2][0] = "Sala C-204"
	var second [catalog.BlockCount][catalog.DayCount]string
	second[0][1] = "Prof. Ana Soto\nP-101"

	return sigatest.NewBrowser(
		sigatest.ResultsHTML([]sigatest.Row{
			{Code: "MAT023", Name: "Cálculo", Department: "DMAT", Section: "1", Capacity: "40"},
			{Section: "2", Capacity: "35"},
		}),
		map[int]string{
			1: sigatest.DetailHTML(first, []string{"Juan Pérez"}),
			2: sigatest.DetailHTML(second, []string{"Ana Soto"}),
		},
	)
}

func TestNavigatorReadsEveryRow(t *testing.T) {
	browser := twoRowBrowser()
	nav := siga.NewNavigator(browser, &telemetry.RecordingAPI{}, fastOptions)
	ctx := context.Background()

	rows, err := nav.ReadResults(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	detail, err := nav.OpenSectionDetail(ctx, rows[0])
	require.NoError(t, err)
	require.Equal(t, "C-204", detail.Schedule[2][0])
	require.Equal(t, []string{"Juan Pérez"}, detail.Professors)
	require.True(t, browser.InResults())

	detail, err = nav.OpenSectionDetail(ctx, rows[1])
	require.NoError(t, err)
	require.Equal(t, "P-101", detail.Schedule[0][1])
	require.Equal(t, []string{"Ana Soto"}, detail.Professors)
	require.True(t, browser.InResults())

	require.Equal(t, []int{1, 2}, browser.ClickedForms())
}

func TestNavigatorPopupNeverOpens(t *testing.T) {
	browser := twoRowBrowser()
	browser.NoPopup = map[int]bool{1: true}
	nav := siga.NewNavigator(browser, &telemetry.RecordingAPI{}, fastOptions)
	ctx := context.Background()

	rows, err := nav.ReadResults(ctx)
	require.NoError(t, err)

	_, err = nav.OpenSectionDetail(ctx, rows[0])
	var navErr *siga.NavigationError
	require.ErrorAs(t, err, &navErr)
	require.Equal(t, 1, navErr.Row)
	require.Equal(t, "wait for detail window", navErr.Step)
	require.ErrorIs(t, err, siga.ErrTimeout)
	require.Equal(t, 1, browser.OpenWindows())

	// the navigator can still be used for the next row.
	require.NoError(t, nav.EnterResults(ctx))
	detail, err := nav.OpenSectionDetail(ctx, rows[1])
	require.NoError(t, err)
	require.Equal(t, "P-101", detail.Schedule[0][1])
}

func TestNavigatorClosesPopupOnFrameTimeout(t *testing.T) {
	browser := twoRowBrowser()
	browser.NoDetailFrame = map[int]bool{1: true}
	tel := &telemetry.RecordingAPI{}
	nav := siga.NewNavigator(browser, tel, fastOptions)
	ctx := context.Background()

	rows, err := nav.ReadResults(ctx)
	require.NoError(t, err)

	_, err = nav.OpenSectionDetail(ctx, rows[0])
	var navErr *siga.NavigationError
	require.ErrorAs(t, err, &navErr)
	require.Equal(t, "enter detail frame", navErr.Step)
	require.Equal(t, 1, browser.OpenWindows())
}

func TestNavigatorExtractionFailure(t *testing.T) {
	browser := twoRowBrowser()
	browser.Details[1] = "<html><body>sin horario</body></html>"
	nav := siga.NewNavigator(browser, &telemetry.RecordingAPI{}, fastOptions)
	ctx := context.Background()

	rows, err := nav.ReadResults(ctx)
	require.NoError(t, err)

	_, err = nav.OpenSectionDetail(ctx, rows[0])
	var extractErr *siga.ExtractionError
	require.ErrorAs(t, err, &extractErr)
	var navErr *siga.NavigationError
	require.False(t, errors.As(err, &navErr))

	// the popup was closed and the results frame restored anyway.
	require.True(t, browser.InResults())
}

func TestNavigatorSwallowsCloseErrors(t *testing.T) {
	browser := twoRowBrowser()
	browser.CloseFails = true
	tel := &telemetry.RecordingAPI{}
	nav := siga.NewNavigator(browser, tel, fastOptions)
	ctx := context.Background()

	rows, err := nav.ReadResults(ctx)
	require.NoError(t, err)

	_, err = nav.OpenSectionDetail(ctx, rows[0])
	require.NoError(t, err)
	require.True(t, browser.InResults())
	require.True(t, tel.Has(telemetry.LevelDebug, "navigator.close-popup"))
}

func TestNavigatorClickFailure(t *testing.T) {
	browser := twoRowBrowser()
	browser.ClickErrors = map[int]error{2: errors.New("element is not attached to the DOM")}
	nav := siga.NewNavigator(browser, &telemetry.RecordingAPI{}, fastOptions)
	ctx := context.Background()

	rows, err := nav.ReadResults(ctx)
	require.NoError(t, err)

	_, err = nav.OpenSectionDetail(ctx, rows[1])
	var navErr *siga.NavigationError
	require.ErrorAs(t, err, &navErr)
	require.Equal(t, 2, navErr.Row)
	require.Equal(t, "click detail link", navErr.Step)
	require.Equal(t, 1, browser.OpenWindows())
}

func TestNavigatorHonorsCancellation(t *testing.T) {
	browser := twoRowBrowser()
	browser.NoPopup = map[int]bool{1: true}
	nav := siga.NewNavigator(browser, &telemetry.RecordingAPI{}, siga.NavigatorOptions{
		WindowTimeout: time.Minute,
		PollInterval:  5 * time.Millisecond,
	})

	rows, err := nav.ReadResults(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = nav.OpenSectionDetail(ctx, rows[0])
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadResultsWithoutFrame(t *testing.T) {
	browser := sigatest.NewBrowser("", nil)
	require.NoError(t, browser.SwitchWindow(0))
	nav := siga.NewNavigator(&frameless{browser}, &telemetry.RecordingAPI{}, fastOptions)

	_, err := nav.ReadResults(context.Background())
	var navErr *siga.NavigationError
	require.ErrorAs(t, err, &navErr)
	require.ErrorIs(t, err, siga.ErrTimeout)
}

// frameless never finds any frame.
type frameless struct {
	*sigatest.Browser
}

func (frameless) EnterFrame(string) error {
	return siga.ErrFrameNotFound
}
