package siga

import (
	"fmt"
	"sigahorarios/lib/htmlutil"
	"sigahorarios/lib/textutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	resultsTableSelector = "table.Celda01"
	resultsRowSelector   = "table.Celda01 > tbody > tr"
	separatorColspan     = "7"
	resultColumns        = 6
)

// ResultRow is one data row of the results table. Index is the number of the
// form that opens its detail popup. The portal numbers every row of the table
// except separators, so header rows take a number too.
type ResultRow struct {
	Index          int
	Code           string
	Name           string
	Department     string
	Section        string
	ProfessorsHint string
	Capacity       string
}

// ParseResults reads every data row of the results table in order. Header
// rows (no td cells) are skipped but counted, separator rows are neither.
func ParseResults(doc *goquery.Document) ([]ResultRow, error) {
	if doc.Find(resultsTableSelector).Length() == 0 {
		return nil, &ExtractionError{Element: "results table"}
	}

	rows := []ResultRow{}
	counter := 0
	var err error
	doc.Find(resultsRowSelector).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() == 0 {
			counter++
			return true
		}
		if colspan, _ := cells.First().Attr("colspan"); colspan == separatorColspan {
			return true
		}
		index := counter
		counter++
		if cells.Length() < resultColumns {
			err = &MalformedRowError{
				Row:    index,
				Reason: fmt.Sprintf("expected %d columns, got %d", resultColumns, cells.Length()),
			}
			return false
		}
		column := func(i int, sep string) string {
			return strings.Join(textutil.SplitLines(htmlutil.GetText(cells.Get(i))), sep)
		}
		rows = append(rows, ResultRow{
			Index:          index,
			Code:           column(0, " "),
			Name:           column(1, " "),
			Department:     column(2, " "),
			Section:        column(3, " "),
			ProfessorsHint: column(4, ", "),
			Capacity:       column(5, " "),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
