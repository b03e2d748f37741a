package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeriodCode(t *testing.T) {
	cases := []struct {
		input   string
		expect  PeriodCode
		invalid bool
	}{
		{input: "20241", expect: PeriodCode{Year: 2024, Half: 1}},
		{input: "2024-2", expect: PeriodCode{Year: 2024, Half: 2}},
		{input: " 20152 ", expect: PeriodCode{Year: 2015, Half: 2}},
		{input: "20243", invalid: true},
		{input: "20141", invalid: true},
		{input: "2024", invalid: true},
		{input: "abcd1", invalid: true},
	}

	for _, test := range cases {
		code, err := ParsePeriodCode(test.input)
		if test.invalid {
			require.Error(t, err, test.input)
			continue
		}
		require.NoError(t, err, test.input)
		require.Equal(t, test.expect, code)
	}

	code := PeriodCode{Year: 2024, Half: 1}
	require.Equal(t, "20241", code.String())
	require.Equal(t, "2024-1", code.Display())
}

func TestCurrentPeriod(t *testing.T) {
	require.Equal(t, PeriodCode{Year: 2024, Half: 1}, CurrentPeriod(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, PeriodCode{Year: 2024, Half: 1}, CurrentPeriod(time.Date(2024, time.July, 31, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, PeriodCode{Year: 2024, Half: 2}, CurrentPeriod(time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, PeriodCode{Year: 2024, Half: 2}, CurrentPeriod(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func TestLookupCampus(t *testing.T) {
	campus, err := LookupCampus("santiago san joaquín")
	require.NoError(t, err)
	require.Equal(t, SantiagoSanJoaquin, campus)

	campus, err = LookupCampus("4")
	require.NoError(t, err)
	require.Equal(t, Concepcion, campus)

	_, err = LookupCampus("Talca")
	require.Error(t, err)

	shift, err := LookupShift("")
	require.NoError(t, err)
	require.Equal(t, Diurno, shift)

	shift, err = LookupShift("vespertino")
	require.NoError(t, err)
	require.Equal(t, Vespertino, shift)
}

func TestSectionJSON(t *testing.T) {
	tree := Catalog{}
	period := tree.Period("Casa Central", "20241")
	period.EnsureSubject("MAT023")

	var schedule Matrix
	schedule[2][0] = "C-204"
	period.Append("MAT023", Section{
		Name:       "Cálculo",
		Department: "DMAT",
		Label:      "1",
		Capacity:   "40",
		Schedule:   schedule,
	})

	encoded, err := json.Marshal(tree)
	require.NoError(t, err)

	var decoded map[string]map[string]map[string][]map[string]any
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	section := decoded["Casa Central"]["20241"]["MAT023"][0]
	require.Equal(t, "Cálculo", section["Nombre"])
	require.Equal(t, "DMAT", section["Departamento"])
	require.Equal(t, "1", section["Paralelo"])
	require.Equal(t, "40", section["Cupos"])
	require.Equal(t, []any{}, section["Profesores"])

	rows := section["Horario"].([]any)
	require.Len(t, rows, BlockCount)
	for _, row := range rows {
		require.Len(t, row.([]any), DayCount)
	}
	require.Equal(t, "C-204", rows[2].([]any)[0])

	require.Equal(t, []Slot{{Block: 2, Day: 0, Room: "C-204"}}, schedule.Slots())
	require.Equal(t, 1, period.Sections())
}
