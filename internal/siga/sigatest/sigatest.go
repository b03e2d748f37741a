// Package sigatest renders portal pages and fakes a browser so the scraper
// can be exercised without one.
package sigatest

import (
	"fmt"
	"html"
	"sigahorarios/internal/catalog"
	"sigahorarios/internal/siga"
	"strings"
	"sync"
)

// nestedRowsPerSlot is how many rows each slot table renders, with nine slot
// tables per block this places block rows 19 rows apart like the portal does.
const nestedRowsPerSlot = 2

// DetailHTML renders a section detail page. cells hold the raw text of each
// schedule cell, "\n" is rendered as <br>.
func DetailHTML(cells [catalog.BlockCount][catalog.DayCount]string, professors []string) string {
	var b strings.Builder
	b.WriteString("<html><body>")

	if professors != nil {
		label := "Profesor"
		if len(professors) > 1 {
			label = "Profesores"
		}
		b.WriteString(`<table class="letra8"><tbody>`)
		b.WriteString(`<tr><td>Asignatura</td><td>:</td><td>Cálculo</td></tr>`)
		fmt.Fprintf(&b, `<tr><td>%s</td><td>:</td><td>%s</td></tr>`, label, lines(professors))
		b.WriteString(`</tbody></table>`)
	}

	b.WriteString(`<table class="letra8" bgcolor="#959595"><tbody>`)
	b.WriteString(`<tr><td>Bloque</td><td>Hora</td>`)
	for _, day := range catalog.Weekdays {
		fmt.Fprintf(&b, "<td>%s</td>", day)
	}
	b.WriteString(`</tr>`)
	for block := 0; block < catalog.BlockCount; block++ {
		b.WriteString("<tr>")
		slot(&b, catalog.Blocks[block].Label)
		slot(&b, catalog.Blocks[block].Hours)
		for day := 0; day < catalog.DayCount; day++ {
			slot(&b, cells[block][day])
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

func slot(b *strings.Builder, text string) {
	b.WriteString(`<td><table class="letra7"><tbody>`)
	fmt.Fprintf(b, "<tr><td>%s</td></tr>", lines(strings.Split(text, "\n")))
	for i := 1; i < nestedRowsPerSlot; i++ {
		b.WriteString("<tr><td></td></tr>")
	}
	b.WriteString("</tbody></table></td>")
}

func lines(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = html.EscapeString(v)
	}
	return strings.Join(escaped, "<br>")
}

// Row is a row of the results table, a Row with Separator set renders the
// full width divider the portal puts between subjects.
type Row struct {
	Separator  bool
	Code       string
	Name       string
	Department string
	Section    string
	Professors string
	Capacity   string
}

// ResultsHTML renders the results frame. Detail links are numbered like the
// portal does: the header row takes number 0 and separators take none, so the
// first data row links form1.
func ResultsHTML(rows []Row) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="Celda01"><tbody>`)
	b.WriteString(`<tr><th>Sigla</th><th>Asignatura</th><th>Depto</th><th>Paralelo</th><th>Profesor</th><th>Cupos</th></tr>`)
	form := 1
	for _, r := range rows {
		if r.Separator {
			b.WriteString(`<tr><td colspan="7"><hr size="1" align="center" width="100%"></td></tr>`)
			continue
		}
		fmt.Fprintf(
			&b,
			`<tr><td>%s</td><td>%s</td><td>%s</td><td><a href="javascript:Envia(document.form%d);">%s</a></td><td>%s</td><td>%s</td></tr>`,
			html.EscapeString(r.Code),
			html.EscapeString(r.Name),
			html.EscapeString(r.Department),
			form,
			html.EscapeString(r.Section),
			html.EscapeString(r.Professors),
			html.EscapeString(r.Capacity),
		)
		form++
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

type window struct {
	frames map[string]string
}

// Browser is a fake siga.Driver. Its main window has a results frame, clicking
// a detail link opens a popup window with a detail frame.
type Browser struct {
	mutex sync.Mutex

	// Details maps a form number to the detail page its popup shows.
	Details map[int]string
	// NoPopup lists the forms whose link does not open a popup.
	NoPopup map[int]bool
	// NoDetailFrame lists the forms whose popup never loads its detail frame.
	NoDetailFrame map[int]bool
	// ClickErrors makes clicking a form's link fail.
	ClickErrors map[int]error
	// CloseFails makes closing a popup report an error (the popup still goes away).
	CloseFails bool

	// Clicks records every clicked form number in order.
	Clicks []int

	windows []window
	current int
	frame   string
}

// NewBrowser creates a Browser showing the given results page.
func NewBrowser(results string, details map[int]string) *Browser {
	return &Browser{
		Details: details,
		windows: []window{
			{frames: map[string]string{siga.ResultsFrame: results}},
		},
	}
}

func (b *Browser) WindowCount() (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.windows), nil
}

func (b *Browser) SwitchWindow(index int) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if index < 0 || index >= len(b.windows) {
		return fmt.Errorf("no window at index %d", index)
	}
	b.current = index
	b.frame = ""
	return nil
}

func (b *Browser) CloseWindow() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.current >= len(b.windows) {
		return fmt.Errorf("window already closed")
	}
	b.windows = append(b.windows[:b.current], b.windows[b.current+1:]...)
	b.frame = ""
	if b.CloseFails {
		return fmt.Errorf("target window already closed")
	}
	return nil
}

func (b *Browser) EnterFrame(name string) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.current >= len(b.windows) {
		return fmt.Errorf("current window is closed")
	}
	if _, ok := b.windows[b.current].frames[name]; !ok {
		return siga.ErrFrameNotFound
	}
	b.frame = name
	return nil
}

func (b *Browser) DefaultContent() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.frame = ""
	return nil
}

func (b *Browser) Content() (string, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.current >= len(b.windows) {
		return "", fmt.Errorf("current window is closed")
	}
	if b.frame == "" {
		return "<html><frameset></frameset></html>", nil
	}
	return b.windows[b.current].frames[b.frame], nil
}

func (b *Browser) ClickDetail(form int) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.current != 0 || b.frame != siga.ResultsFrame {
		return fmt.Errorf("detail link %d is not in the current frame", form)
	}
	if err := b.ClickErrors[form]; err != nil {
		return err
	}
	b.Clicks = append(b.Clicks, form)
	if b.NoPopup[form] {
		return nil
	}
	frames := map[string]string{}
	if !b.NoDetailFrame[form] {
		frames[siga.DetailFrame] = b.Details[form]
	}
	b.windows = append(b.windows, window{frames: frames})
	return nil
}

// InResults reports whether the browser is on the results frame of the main window.
func (b *Browser) InResults() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.current == 0 && b.frame == siga.ResultsFrame && len(b.windows) == 1
}

// OpenWindows returns the amount of open windows.
func (b *Browser) OpenWindows() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.windows)
}

// ClickedForms returns a copy of the clicked forms.
func (b *Browser) ClickedForms() []int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]int{}, b.Clicks...)
}
