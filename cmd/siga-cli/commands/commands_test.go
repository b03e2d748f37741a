package commands

import (
	"sigahorarios/internal/catalog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPipelineOptions(t *testing.T) {
	now := time.Date(2024, time.September, 1, 12, 0, 0, 0, time.UTC)

	cfg := defaultConfig().Scrape
	options, err := cfg.pipelineOptions(now)
	require.NoError(t, err)
	require.Equal(t, catalog.CasaCentral, options.Campus)
	require.Equal(t, catalog.Diurno, options.Shift)
	require.Equal(t, catalog.PeriodCode{Year: 2024, Half: 2}, options.Period)
	require.Equal(t, 5, options.MaxAttempts)
	require.Equal(t, 5*time.Second, options.Cooldown)

	cfg.Campus = "3"
	cfg.Period = "2023-1"
	cfg.Shift = "vespertino"
	options, err = cfg.pipelineOptions(now)
	require.NoError(t, err)
	require.Equal(t, catalog.VinaDelMar, options.Campus)
	require.Equal(t, catalog.Vespertino, options.Shift)
	require.Equal(t, "20231", options.Period.String())

	for _, broken := range []ScrapeConfig{
		{Campus: "Antofagasta"},
		{Campus: "1", Shift: "nocturno"},
		{Campus: "1", Period: "2010-1"},
		{Campus: "1", Limit: -1},
	} {
		_, err = broken.pipelineOptions(now)
		require.Error(t, err, "%+v", broken)
	}
}

func TestPortalOptions(t *testing.T) {
	options := defaultConfig().Portal.options()
	require.True(t, options.Headless)
	require.Equal(t, 30*time.Second, options.Timeout)

	headless := false
	options = PortalConfig{Headless: &headless}.options()
	require.False(t, options.Headless)
}

func TestSummarize(t *testing.T) {
	tree := catalog.Catalog{}
	var schedule catalog.Matrix
	schedule[0][0] = "C-204"
	schedule[1][0] = "C-204"
	tree.Period("Viña del Mar", "20241").Append("MAT023", catalog.Section{Name: "Cálculo", Label: "1", Schedule: schedule})
	casaCentral := tree.Period("Casa Central", "20241")
	casaCentral.Append("MAT023", catalog.Section{Name: "Cálculo", Label: "1", Schedule: schedule})
	casaCentral.Append("MAT023", catalog.Section{Name: "Cálculo", Label: "2"})
	casaCentral.EnsureSubject("FIS110")

	require.Equal(t, []periodSummary{
		{Campus: "Casa Central", Period: "20241", Subjects: 2, Sections: 2, Slots: 2},
		{Campus: "Viña del Mar", Period: "20241", Subjects: 1, Sections: 1, Slots: 2},
	}, summarize(tree))

	require.Equal(t, []subjectSummary{
		{Code: "FIS110"},
		{Code: "MAT023", Name: "Cálculo", Sections: 2, Slots: 2},
	}, summarizeSubjects(casaCentral))

	require.Equal(t, "2024-1", displayPeriod("20241"))
	require.Equal(t, "???", displayPeriod("???"))
}
