package engine

import (
	"fmt"
	"strings"
)

// Copy puts the selected text of every cursor on the clipboard, joined by
// line feeds. Without a selection the current line is copied.
func (e *Engine) Copy() error {
	text := e.ClipboardText()
	if !e.cursors.AnyHasSelection() {
		text = e.doc.LineString(e.CursorPosition().Line)
	}
	if err := e.clipboard.SetText(text); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

// Cut copies the selections and deletes them. A read-only engine copies
// and returns ErrReadOnly.
func (e *Engine) Cut() error {
	if !e.cursors.AnyHasSelection() {
		return nil
	}
	if err := e.Copy(); err != nil {
		return err
	}
	return e.deleteSelected("Cut", nil)
}

// Paste inserts the clipboard text at every cursor, replacing any
// selections. When the clipboard holds one line per cursor, each cursor
// receives its own line.
func (e *Engine) Paste() error {
	if e.readOnly {
		return ErrReadOnly
	}
	text, err := e.clipboard.Text()
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	if text == "" {
		return nil
	}

	var parts []string
	if n := e.cursors.Count(); n > 1 {
		lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
		if len(lines) == n {
			parts = lines
		}
	}
	return e.insertAtCursors("Paste", text, parts)
}
