package siga

import (
	"sigahorarios/internal/catalog"
	"sigahorarios/lib/htmlutil"
	"sigahorarios/lib/textutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	scheduleTableSelector = `table.letra8[bgcolor="#959595"]`
	slotTableSelector     = "table.letra7"
	professorLabel        = "Profesor"

	// the first two slot tables of a row are the block label and its hours.
	firstDaySlot  = 2
	minSlotTables = firstDaySlot + catalog.DayCount
)

// PhysicalRowToBlock maps the position of a row inside the detail schedule
// table (header excluded, nested rows included, starting at 1) to the block
// it renders. Every other row is spacing.
var PhysicalRowToBlock = map[int]int{
	1:   0,
	20:  1,
	39:  2,
	58:  3,
	77:  4,
	96:  5,
	115: 6,
	134: 7,
	153: 8,
	172: 9,
}

// Detail is what the schedule popup of a section contains.
type Detail struct {
	Schedule   catalog.Matrix
	Professors []string
}

// HasScheduleTable reports whether the detail document finished rendering
// its schedule table.
func HasScheduleTable(doc *goquery.Document) bool {
	return doc.Find(scheduleTableSelector).Length() > 0
}

// ExtractDetail reads the schedule matrix and professors of a section detail
// document. A missing professor row yields an empty list, a missing schedule
// table is an *ExtractionError.
func ExtractDetail(doc *goquery.Document) (Detail, error) {
	table := doc.Find(scheduleTableSelector).First()
	if table.Length() == 0 {
		return Detail{}, &ExtractionError{Element: "schedule table"}
	}

	detail := Detail{Professors: extractProfessors(doc.Selection)}
	table.Find("tr").Each(func(physical int, row *goquery.Selection) {
		// physical 0 is the header.
		block, ok := PhysicalRowToBlock[physical]
		if !ok {
			return
		}
		slots := row.Find(slotTableSelector)
		if slots.Length() < minSlotTables {
			return
		}
		for day := 0; day < catalog.DayCount; day++ {
			room := ClassifyRoomCell(htmlutil.GetText(slots.Get(firstDaySlot + day)))
			if room == "" {
				continue
			}
			detail.Schedule[block][day] = room
		}
	})

	return detail, nil
}

func extractProfessors(sel *goquery.Selection) []string {
	professors := []string{}
	sel.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 3 {
			return true
		}
		if !strings.Contains(htmlutil.OwnText(cells.First()), professorLabel) {
			return true
		}
		professors = textutil.SplitLines(htmlutil.SelectionText(cells.Eq(2)))
		return false
	})
	return professors
}
