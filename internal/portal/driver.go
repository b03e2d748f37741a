package portal

import (
	"fmt"
	"sigahorarios/internal/siga"

	"github.com/playwright-community/playwright-go"
)

var _ siga.Driver = (*Session)(nil)

func (s *Session) WindowCount() (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.context.Pages()), nil
}

func (s *Session) SwitchWindow(index int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	pages := s.context.Pages()
	if index < 0 || index >= len(pages) {
		return fmt.Errorf("no window at index %d (%d open)", index, len(pages))
	}
	s.page = pages[index]
	s.frame = nil
	return s.page.BringToFront()
}

func (s *Session) CloseWindow() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.page == nil {
		return fmt.Errorf("no current window")
	}
	page := s.page
	s.frame = nil
	pages := s.context.Pages()
	if len(pages) > 0 && pages[0] != page {
		s.page = pages[0]
	}
	return page.Close()
}

func (s *Session) EnterFrame(name string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	frame := s.page.Frame(playwright.PageFrameOptions{Name: playwright.String(name)})
	if frame == nil {
		return siga.ErrFrameNotFound
	}
	s.frame = frame
	return nil
}

func (s *Session) DefaultContent() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.frame = nil
	return nil
}

func (s *Session) Content() (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.frame != nil {
		return s.frame.Content()
	}
	return s.page.Content()
}

// ClickDetail clicks the link that submits the detail form of a row, links
// look like "javascript:Envia(document.form12);".
func (s *Session) ClickDetail(form int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.frame == nil {
		return fmt.Errorf("detail link %d: not inside the results frame", form)
	}
	return s.frame.Locator(DetailLinkSelector(form)).First().Click()
}

// DetailLinkSelector matches the link of exactly one form, the closing
// parenthesis keeps form1 from matching form10.
func DetailLinkSelector(form int) string {
	return fmt.Sprintf("a[href*='document.form%d)']", form)
}
