package siga_test

import (
	"fmt"
	"sigahorarios/internal/siga"
	"sigahorarios/internal/siga/sigatest"
	"sigahorarios/lib/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResults(t *testing.T) {
	markup := sigatest.ResultsHTML([]sigatest.Row{
		{Code: "MAT023", Name: "Cálculo", Department: "DMAT", Section: "1", Professors: "Juan Pérez", Capacity: "40"},
		{Section: "2", Capacity: "35"},
		{Separator: true},
		{Code: "INF155", Name: "Programación", Department: "DI", Section: "200", Capacity: "90"},
	})

	rows, err := siga.ParseResults(parse(t, markup))
	require.NoError(t, err)
	require.Equal(t, []siga.ResultRow{
		{Index: 1, Code: "MAT023", Name: "Cálculo", Department: "DMAT", Section: "1", ProfessorsHint: "Juan Pérez", Capacity: "40"},
		{Index: 2, Section: "2", Capacity: "35"},
		{Index: 3, Code: "INF155", Name: "Programación", Department: "DI", Section: "200", Capacity: "90"},
	}, rows)
}

func TestParseResultsFixture(t *testing.T) {
	rows, err := siga.ParseResults(parse(t, testutil.ReadFixture(t, "results.html")))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "ELO320", rows[0].Code)
	require.Equal(t, "Sistemas Operativos", rows[0].Name)
	require.Equal(t, "Ana Soto, Pedro Rojas", rows[0].ProfessorsHint)
	require.Equal(t, "", rows[1].Code)
	require.Equal(t, "2", rows[1].Section)
	require.Equal(t, 3, rows[2].Index)
	require.Equal(t, "FIS110", rows[2].Code)

	// every row index must match the form its detail link submits.
	doc := parse(t, testutil.ReadFixture(t, "results.html"))
	for _, row := range rows {
		link := doc.Find(fmt.Sprintf("a[href='javascript:Envia(document.form%d);']", row.Index))
		require.Equal(t, row.Section, strings.TrimSpace(link.Text()))
	}
}

func TestParseResultsCountsHeaderRows(t *testing.T) {
	markup := `<table class="Celda01"><tbody>
		<tr><th>Sigla</th><th>Asignatura</th><th>Depto</th><th>Paralelo</th><th>Profesor</th><th>Cupos</th></tr>
		<tr><td colspan="7"><hr></td></tr>
		<tr><td>MAT023</td><td>Cálculo</td><td>DMAT</td><td>1</td><td></td><td>40</td></tr>
		<tr><td colspan="7"><hr></td></tr>
		<tr><th>Sigla</th><th>Asignatura</th><th>Depto</th><th>Paralelo</th><th>Profesor</th><th>Cupos</th></tr>
		<tr><td>FIS110</td><td>Física</td><td>DFIS</td><td>100</td><td></td><td>60</td></tr>
		<tr><td></td><td></td><td></td><td>101</td><td></td><td>55</td></tr>
	</tbody></table>`

	rows, err := siga.ParseResults(parse(t, markup))
	require.NoError(t, err)
	indexes := []int{}
	for _, row := range rows {
		indexes = append(indexes, row.Index)
	}
	require.Equal(t, []int{1, 3, 4}, indexes)
}

func TestParseResultsMalformed(t *testing.T) {
	markup := `<table class="Celda01"><tbody>
		<tr><td>MAT023</td><td>Cálculo</td><td>DMAT</td><td>1</td><td></td><td>40</td></tr>
		<tr><td>MAT024</td><td>Cálculo II</td></tr>
	</tbody></table>`

	_, err := siga.ParseResults(parse(t, markup))
	var malformed *siga.MalformedRowError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, 1, malformed.Row)
}

func TestParseResultsMissingTable(t *testing.T) {
	_, err := siga.ParseResults(parse(t, `<html><body></body></html>`))
	var extractErr *siga.ExtractionError
	require.ErrorAs(t, err, &extractErr)
}
