package main

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codepad/internal/engine"
)

// binding maps a key sequence to an action name.
type binding struct {
	Keys        string
	Action      string
	Description string
}

// defaultBindings is the editing keymap.
var defaultBindings = []binding{
	// Typing
	{Keys: "Enter", Action: "edit.newline", Description: "Insert line break"},
	{Keys: "Shift+Enter", Action: "edit.newline", Description: "Insert line break"},
	{Keys: "Tab", Action: "edit.indent", Description: "Indent or insert tab"},
	{Keys: "Shift+Tab", Action: "edit.unindent", Description: "Unindent"},
	{Keys: "Backspace", Action: "edit.backspace", Description: "Delete before cursor"},
	{Keys: "Ctrl+Backspace", Action: "edit.backspaceWord", Description: "Delete word before cursor"},
	{Keys: "Alt+Backspace", Action: "edit.backspaceWord", Description: "Delete word before cursor"},
	{Keys: "Delete", Action: "edit.delete", Description: "Delete after cursor"},
	{Keys: "Ctrl+Delete", Action: "edit.deleteWord", Description: "Delete word after cursor"},
	{Keys: "Alt+Delete", Action: "edit.deleteWord", Description: "Delete word after cursor"},

	// Movement
	{Keys: "Left", Action: "cursor.left", Description: "Move left"},
	{Keys: "Right", Action: "cursor.right", Description: "Move right"},
	{Keys: "Up", Action: "cursor.up", Description: "Move up"},
	{Keys: "Down", Action: "cursor.down", Description: "Move down"},
	{Keys: "Shift+Left", Action: "select.left", Description: "Extend selection left"},
	{Keys: "Shift+Right", Action: "select.right", Description: "Extend selection right"},
	{Keys: "Shift+Up", Action: "select.up", Description: "Extend selection up"},
	{Keys: "Shift+Down", Action: "select.down", Description: "Extend selection down"},
	{Keys: "Ctrl+Left", Action: "cursor.wordLeft", Description: "Move to previous word"},
	{Keys: "Ctrl+Right", Action: "cursor.wordRight", Description: "Move to next word"},
	{Keys: "Ctrl+Shift+Left", Action: "select.wordLeft", Description: "Select to previous word"},
	{Keys: "Ctrl+Shift+Right", Action: "select.wordRight", Description: "Select to next word"},
	{Keys: "Home", Action: "cursor.home", Description: "Move to line start"},
	{Keys: "End", Action: "cursor.end", Description: "Move to line end"},
	{Keys: "Shift+Home", Action: "select.home", Description: "Select to line start"},
	{Keys: "Shift+End", Action: "select.end", Description: "Select to line end"},
	{Keys: "Ctrl+Home", Action: "cursor.top", Description: "Move to document start"},
	{Keys: "Ctrl+End", Action: "cursor.bottom", Description: "Move to document end"},
	{Keys: "Ctrl+Shift+Home", Action: "select.top", Description: "Select to document start"},
	{Keys: "Ctrl+Shift+End", Action: "select.bottom", Description: "Select to document end"},
	{Keys: "PgUp", Action: "cursor.pageUp", Description: "Move one page up"},
	{Keys: "PgDn", Action: "cursor.pageDown", Description: "Move one page down"},
	{Keys: "Shift+PgUp", Action: "select.pageUp", Description: "Select one page up"},
	{Keys: "Shift+PgDn", Action: "select.pageDown", Description: "Select one page down"},

	// Line operations
	{Keys: "Alt+Up", Action: "lines.moveUp", Description: "Move lines up"},
	{Keys: "Alt+Down", Action: "lines.moveDown", Description: "Move lines down"},
	{Keys: "Ctrl+K", Action: "lines.remove", Description: "Remove current lines"},
	{Keys: "Ctrl+/", Action: "lines.toggleComment", Description: "Toggle line comment"},
	{Keys: "Alt+;", Action: "lines.toggleComment", Description: "Toggle line comment"},
	{Keys: "Ctrl+]", Action: "edit.indent", Description: "Indent"},

	// History and clipboard
	{Keys: "Ctrl+Z", Action: "edit.undo", Description: "Undo"},
	{Keys: "Ctrl+Y", Action: "edit.redo", Description: "Redo"},
	{Keys: "Ctrl+C", Action: "edit.copy", Description: "Copy"},
	{Keys: "Ctrl+X", Action: "edit.cut", Description: "Cut"},
	{Keys: "Ctrl+V", Action: "edit.paste", Description: "Paste"},

	// Selection and cursors
	{Keys: "Ctrl+A", Action: "select.all", Description: "Select all"},
	{Keys: "Ctrl+L", Action: "select.line", Description: "Select current line"},
	{Keys: "Ctrl+D", Action: "select.nextOccurrence", Description: "Add cursor at next occurrence"},
	{Keys: "Ctrl+E", Action: "select.allOccurrences", Description: "Select all occurrences"},
	{Keys: "Ctrl+B", Action: "cursor.matchingBracket", Description: "Jump to matching bracket"},
	{Keys: "Esc", Action: "cursor.single", Description: "Clear extra cursors and selections"},
	{Keys: "Ctrl+Space", Action: "edit.complete", Description: "Accept first completion"},

	// Search and file
	{Keys: "Ctrl+F", Action: "find.open", Description: "Find"},
	{Keys: "Ctrl+G", Action: "find.next", Description: "Find next"},
	{Keys: "Ctrl+R", Action: "find.replace", Description: "Replace"},
	{Keys: "Ctrl+S", Action: "file.save", Description: "Save"},
	{Keys: "Ctrl+Q", Action: "app.quit", Description: "Quit"},
}

// actions holds the command behind every action name.
var actions = map[string]func(ed *editor) error{
	"edit.newline":       func(ed *editor) error { return ed.engine.EnterCharacter('\n', false) },
	"edit.indent":        func(ed *editor) error { return ed.engine.EnterCharacter('\t', false) },
	"edit.unindent":      func(ed *editor) error { return ed.engine.EnterCharacter('\t', true) },
	"edit.backspace":     func(ed *editor) error { return ed.engine.Backspace(false) },
	"edit.backspaceWord": func(ed *editor) error { return ed.engine.Backspace(true) },
	"edit.delete":        func(ed *editor) error { return ed.engine.Delete(false) },
	"edit.deleteWord":    func(ed *editor) error { return ed.engine.Delete(true) },
	"edit.undo":          func(ed *editor) error { _, err := ed.engine.Undo(1); return err },
	"edit.redo":          func(ed *editor) error { _, err := ed.engine.Redo(1); return err },
	"edit.copy":          func(ed *editor) error { return ed.engine.Copy() },
	"edit.cut":           func(ed *editor) error { return ed.engine.Cut() },
	"edit.paste":         func(ed *editor) error { return ed.engine.Paste() },
	"edit.complete":      (*editor).complete,

	"cursor.left":      move(func(e *engine.Engine) { e.MoveLeft(false, false) }),
	"cursor.right":     move(func(e *engine.Engine) { e.MoveRight(false, false) }),
	"cursor.up":        move(func(e *engine.Engine) { e.MoveUp(1, false) }),
	"cursor.down":      move(func(e *engine.Engine) { e.MoveDown(1, false) }),
	"cursor.wordLeft":  move(func(e *engine.Engine) { e.MoveLeft(false, true) }),
	"cursor.wordRight": move(func(e *engine.Engine) { e.MoveRight(false, true) }),
	"cursor.home":      move(func(e *engine.Engine) { e.MoveHome(false) }),
	"cursor.end":       move(func(e *engine.Engine) { e.MoveEnd(false) }),
	"cursor.top":       move(func(e *engine.Engine) { e.MoveTop(false) }),
	"cursor.bottom":    move(func(e *engine.Engine) { e.MoveBottom(false) }),
	"cursor.pageUp":    func(ed *editor) error { ed.engine.MoveUp(ed.pageLines(), false); return nil },
	"cursor.pageDown":  func(ed *editor) error { ed.engine.MoveDown(ed.pageLines(), false); return nil },
	"cursor.single":    (*editor).collapse,

	"cursor.matchingBracket": func(ed *editor) error {
		if pos, ok := ed.engine.MatchingBracket(); ok {
			ed.engine.SetCursorPosition(pos, -1, true)
		}
		return nil
	},

	"select.left":      move(func(e *engine.Engine) { e.MoveLeft(true, false) }),
	"select.right":     move(func(e *engine.Engine) { e.MoveRight(true, false) }),
	"select.up":        move(func(e *engine.Engine) { e.MoveUp(1, true) }),
	"select.down":      move(func(e *engine.Engine) { e.MoveDown(1, true) }),
	"select.wordLeft":  move(func(e *engine.Engine) { e.MoveLeft(true, true) }),
	"select.wordRight": move(func(e *engine.Engine) { e.MoveRight(true, true) }),
	"select.home":      move(func(e *engine.Engine) { e.MoveHome(true) }),
	"select.end":       move(func(e *engine.Engine) { e.MoveEnd(true) }),
	"select.top":       move(func(e *engine.Engine) { e.MoveTop(true) }),
	"select.bottom":    move(func(e *engine.Engine) { e.MoveBottom(true) }),
	"select.pageUp":    func(ed *editor) error { ed.engine.MoveUp(ed.pageLines(), true); return nil },
	"select.pageDown":  func(ed *editor) error { ed.engine.MoveDown(ed.pageLines(), true); return nil },
	"select.all":       move((*engine.Engine).SelectAll),
	"select.line": func(ed *editor) error {
		ed.engine.SelectLine(ed.engine.CursorPosition().Line)
		return nil
	},
	"select.nextOccurrence": (*editor).selectNextOccurrence,
	"select.allOccurrences": func(ed *editor) error {
		e := ed.engine
		if !e.AnyCursorHasSelection() {
			e.SelectWordAt(e.CursorPosition())
		}
		if text := e.SelectedText(-1); text != "" {
			e.SelectAllOccurrencesOf(text, true)
		}
		return nil
	},

	"lines.moveUp":        func(ed *editor) error { return ed.engine.MoveUpCurrentLines() },
	"lines.moveDown":      func(ed *editor) error { return ed.engine.MoveDownCurrentLines() },
	"lines.remove":        func(ed *editor) error { return ed.engine.RemoveCurrentLines() },
	"lines.toggleComment": func(ed *editor) error { return ed.engine.ToggleLineComment() },

	"find.open":    func(ed *editor) error { ed.openPrompt(modeFind); return nil },
	"find.replace": func(ed *editor) error { ed.openPrompt(modeReplace); return nil },
	"find.next":    func(ed *editor) error { ed.engine.Find().FindNext(false); return nil },
	"file.save":    (*editor).save,
	"app.quit":     func(ed *editor) error { ed.quit = true; return nil },
}

// move adapts a cursor command that cannot fail to an action.
func move(fn func(e *engine.Engine)) func(ed *editor) error {
	return func(ed *editor) error {
		fn(ed.engine)
		return nil
	}
}

// keymap indexes bindings by key sequence. Later bindings win.
type keymap map[string]string

func newKeymap(bindings []binding) keymap {
	km := make(keymap, len(bindings))
	for _, b := range bindings {
		km[b.Keys] = b.Action
	}
	return km
}

// Lookup returns the action bound to the key event.
func (km keymap) Lookup(ev *tcell.EventKey) (string, bool) {
	action, ok := km[keySpec(ev)]
	return action, ok
}

// keySpec formats a key event the way bindings spell keys, for example
// "Ctrl+Shift+Left". Plain runes format as the rune itself.
func keySpec(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	ctrl := mods&tcell.ModCtrl != 0
	alt := mods&(tcell.ModAlt|tcell.ModMeta) != 0
	shift := mods&tcell.ModShift != 0

	var name string
	switch k := ev.Key(); k {
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == ' ':
			name = "Space"
		case ctrl || alt:
			name = string(unicode.ToUpper(r))
		default:
			// Shift is already folded into the rune.
			return string(r)
		}
	case tcell.KeyEnter:
		name = "Enter"
	case tcell.KeyTab:
		name = "Tab"
	case tcell.KeyBacktab:
		name = "Tab"
		shift = true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		name = "Backspace"
	case tcell.KeyDelete:
		name = "Delete"
	case tcell.KeyInsert:
		name = "Insert"
	case tcell.KeyEscape:
		name = "Esc"
	case tcell.KeyHome:
		name = "Home"
	case tcell.KeyEnd:
		name = "End"
	case tcell.KeyPgUp:
		name = "PgUp"
	case tcell.KeyPgDn:
		name = "PgDn"
	case tcell.KeyUp:
		name = "Up"
	case tcell.KeyDown:
		name = "Down"
	case tcell.KeyLeft:
		name = "Left"
	case tcell.KeyRight:
		name = "Right"
	case tcell.KeyCtrlSpace:
		name = "Space"
		ctrl = true
	default:
		if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
			name = "F" + strconv.Itoa(int(k-tcell.KeyF1)+1)
			break
		}
		letter, ok := ctrlLetter(k)
		if !ok {
			return ""
		}
		name = string(letter)
		ctrl = true
	}

	var sb strings.Builder
	if ctrl {
		sb.WriteString("Ctrl+")
	}
	if alt {
		sb.WriteString("Alt+")
	}
	if shift {
		sb.WriteString("Shift+")
	}
	sb.WriteString(name)
	return sb.String()
}

// ctrlKeys lists the control keys in letter order.
var ctrlKeys = []tcell.Key{
	tcell.KeyCtrlA, tcell.KeyCtrlB, tcell.KeyCtrlC, tcell.KeyCtrlD,
	tcell.KeyCtrlE, tcell.KeyCtrlF, tcell.KeyCtrlG, tcell.KeyCtrlH,
	tcell.KeyCtrlI, tcell.KeyCtrlJ, tcell.KeyCtrlK, tcell.KeyCtrlL,
	tcell.KeyCtrlM, tcell.KeyCtrlN, tcell.KeyCtrlO, tcell.KeyCtrlP,
	tcell.KeyCtrlQ, tcell.KeyCtrlR, tcell.KeyCtrlS, tcell.KeyCtrlT,
	tcell.KeyCtrlU, tcell.KeyCtrlV, tcell.KeyCtrlW, tcell.KeyCtrlX,
	tcell.KeyCtrlY, tcell.KeyCtrlZ,
}

func ctrlLetter(k tcell.Key) (rune, bool) {
	for i, ck := range ctrlKeys {
		if ck == k {
			return rune('A' + i), true
		}
	}
	return 0, false
}
