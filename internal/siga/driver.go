package siga

// Driver is the browser capability the navigator needs. Implementations keep
// a "current window" and an optional "current frame" inside it, every
// method acts on those.
//
// note: fault injection point
type Driver interface {
	// WindowCount returns the number of open top-level windows.
	WindowCount() (int, error)
	// SwitchWindow makes the window at index current and leaves any frame.
	SwitchWindow(index int) error
	// CloseWindow closes the current window.
	CloseWindow() error
	// EnterFrame makes the named frame of the current window current,
	// ErrFrameNotFound is returned if it is not available yet.
	EnterFrame(name string) error
	// DefaultContent leaves the current frame.
	DefaultContent() error
	// Content returns the HTML of the current frame (or window).
	Content() (string, error)
	// ClickDetail clicks the link that submits the detail form with the given
	// number in the current frame.
	ClickDetail(form int) error
}
