package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-monthcal/internal/server"
)

// maxPortDigits is the length of the largest TCP port, 65535.
const maxPortDigits = 5

// PortEntry is an Entry for a TCP port: it keeps at most five digits, typed or
// pasted, and validates the range with server.ParsePort.
type PortEntry struct {
	widget.Entry
}

// NewPortEntry creates a PortEntry. messages turns a ParsePort error into the
// text shown under the field; nil shows the error itself.
func NewPortEntry(messages func(error) string) *PortEntry {
	e := &PortEntry{}
	e.ExtendBaseWidget(e)
	e.Validator = func(s string) error {
		_, err := server.ParsePort(s)
		if err != nil && messages != nil {
			return portError{err: err, msg: messages(err)}
		}
		return err
	}
	return e
}

// TypedRune accepts digits while the field has room.
func (e *PortEntry) TypedRune(r rune) {
	if r < '0' || r > '9' || len(e.Text) >= maxPortDigits {
		return
	}
	e.Entry.TypedRune(r)
}

// TypedShortcut filters pasted text through TypedRune.
func (e *PortEntry) TypedShortcut(s fyne.Shortcut) {
	paste, ok := s.(*fyne.ShortcutPaste)
	if !ok || paste.Clipboard == nil {
		e.Entry.TypedShortcut(s)
		return
	}
	for _, r := range strings.TrimSpace(paste.Clipboard.Content()) {
		e.TypedRune(r)
	}
}

// Port returns the entered port, or 0 when the text is not a valid port.
func (e *PortEntry) Port() int {
	port, err := server.ParsePort(e.Text)
	if err != nil {
		return 0
	}
	return port
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *PortEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// portError shows a localized message while keeping the ParsePort cause for errors.Is.
type portError struct {
	err error
	msg string
}

func (p portError) Error() string { return p.msg }
func (p portError) Unwrap() error { return p.err }

