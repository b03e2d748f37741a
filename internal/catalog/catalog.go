// Package catalog contains the in-memory tree a scrape produces:
// campus -> period -> subject code -> sections.
package catalog

const (
	// BlockCount is the number of time blocks in a day (1-2 .. 19-20).
	BlockCount = 10
	// DayCount is the number of weekdays shown by the portal (Monday .. Sunday).
	DayCount = 7
)

// Matrix holds the room of each (block, day) slot, an empty string means
// there is no class at that slot.
type Matrix [BlockCount][DayCount]string

// Slot is a single non-empty cell of a Matrix.
type Slot struct {
	Block int
	Day   int
	Room  string
}

// Slots returns the non-empty cells of the matrix ordered by block then day.
func (m Matrix) Slots() []Slot {
	out := []Slot{}
	for block := 0; block < BlockCount; block++ {
		for day := 0; day < DayCount; day++ {
			if m[block][day] == "" {
				continue
			}
			out = append(out, Slot{Block: block, Day: day, Room: m[block][day]})
		}
	}
	return out
}

// Section is one scheduled instance (paralelo) of a subject, the json field
// names are the ones consumers of the snapshot file expect.
type Section struct {
	Name       string   `json:"Nombre"`
	Department string   `json:"Departamento"`
	Label      string   `json:"Paralelo"`
	Professors []string `json:"Profesores"`
	Capacity   string   `json:"Cupos"`
	Schedule   Matrix   `json:"Horario"`
}

// Period maps a subject code to its sections in the order they were scraped.
type Period map[string][]Section

// EnsureSubject creates an empty section list for the subject if it does not exist yet.
func (p Period) EnsureSubject(code string) {
	if _, ok := p[code]; !ok {
		p[code] = []Section{}
	}
}

// Append adds a section to the subject, creating the subject if needed.
func (p Period) Append(code string, section Section) {
	if section.Professors == nil {
		section.Professors = []string{}
	}
	p[code] = append(p[code], section)
}

// Sections returns the total amount of sections across every subject.
func (p Period) Sections() int {
	total := 0
	for _, sections := range p {
		total += len(sections)
	}
	return total
}

// Catalog is the full tree, keyed by campus name then period code (ex. "20241").
type Catalog map[string]map[string]Period

// Period returns the period for the campus, creating every missing level.
func (c Catalog) Period(campus, period string) Period {
	periods, ok := c[campus]
	if !ok {
		periods = map[string]Period{}
		c[campus] = periods
	}
	p, ok := periods[period]
	if !ok {
		p = Period{}
		periods[period] = p
	}
	return p
}
