package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codepad/internal/engine"
	"github.com/dshills/codepad/internal/lang"
	"github.com/dshills/codepad/internal/logging"
)

// messageDuration is how long a host message stays in the status row.
const messageDuration = 3 * time.Second

// wheelLines is the scroll distance of one mouse wheel step.
const wheelLines = 3

type mode int

const (
	modeEdit mode = iota
	modeFind
	modeReplace
)

// editor connects one engine to a terminal screen.
type editor struct {
	engine *engine.Engine
	screen tcell.Screen
	log    *logging.Logger
	keys   keymap

	path     string
	savedGen uint64

	mode   mode
	prompt []rune

	message      string
	messageUntil time.Time
	now          func() time.Time

	// Viewport, in lines and screen cells.
	top, left  int
	lastCursor engine.Coordinates

	pasting bool
	paste   strings.Builder

	dragging   bool
	dragAnchor engine.Coordinates

	quit bool
}

func newEditor(e *engine.Engine, screen tcell.Screen, logger *logging.Logger) *editor {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &editor{
		engine:     e,
		screen:     screen,
		log:        logger.WithComponent("host"),
		keys:       newKeymap(defaultBindings),
		now:        time.Now,
		lastCursor: engine.Coordinates{Line: -1},
	}
}

// markSaved records the current document state as the saved one.
func (ed *editor) markSaved() {
	ed.savedGen = ed.engine.Generation()
}

// Modified reports whether the document changed since it was last saved.
func (ed *editor) Modified() bool {
	return ed.engine.Generation() != ed.savedGen
}

func (ed *editor) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		ed.screen.Sync()
	case *tcell.EventPaste:
		ed.handlePaste(ev)
	case *tcell.EventKey:
		if ed.pasting {
			ed.collectPaste(ev)
			return
		}
		if ed.mode != modeEdit {
			ed.handlePromptKey(ev)
			return
		}
		ed.handleKey(ev)
	case *tcell.EventMouse:
		ed.handleMouse(ev)
	}
}

func (ed *editor) handleKey(ev *tcell.EventKey) {
	if action, ok := ed.keys.Lookup(ev); ok {
		ed.run(action)
		return
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		ed.report(ed.engine.EnterCharacter(ev.Rune(), false))
	}
}

// run executes a named action and reports its failure.
func (ed *editor) run(action string) {
	fn, ok := actions[action]
	if !ok {
		ed.log.Warn("unknown action %q", action)
		return
	}
	ed.report(fn(ed))
}

// report shows err in the status row. Read-only rejections are expected
// and are not logged.
func (ed *editor) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, engine.ErrReadOnly) {
		ed.setMessage("Read-only")
		return
	}
	ed.log.Warn("command failed: %v", err)
	ed.setMessage(err.Error())
}

func (ed *editor) setMessage(msg string) {
	ed.message = msg
	ed.messageUntil = ed.now().Add(messageDuration)
}

// statusMessage returns the message to show, preferring search status.
func (ed *editor) statusMessage() string {
	if msg, _ := ed.engine.Find().StatusMessage(); msg != "" {
		return msg
	}
	if ed.message != "" && ed.now().Before(ed.messageUntil) {
		return ed.message
	}
	return ""
}

// Bracketed paste

func (ed *editor) handlePaste(ev *tcell.EventPaste) {
	if ev.Start() {
		ed.pasting = true
		ed.paste.Reset()
		return
	}
	ed.pasting = false
	text := ed.paste.String()
	ed.paste.Reset()
	if text == "" {
		return
	}
	if ed.mode != modeEdit {
		// Prompts are single line.
		text, _, _ = strings.Cut(text, "\n")
		ed.prompt = append(ed.prompt, []rune(text)...)
		ed.applyPrompt()
		return
	}
	ed.report(ed.engine.InsertText(text))
}

func (ed *editor) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		ed.paste.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		ed.paste.WriteByte('\n')
	case tcell.KeyTab:
		ed.paste.WriteByte('\t')
	}
}

// Find and replace prompt

func (ed *editor) openPrompt(m mode) {
	f := ed.engine.Find()
	ed.mode = m
	switch m {
	case modeFind:
		if r, ok := ed.engine.LastSelection(); ok && r.Start.Line == r.End.Line {
			f.SetPattern(ed.engine.TextRange(r.Start, r.End))
		}
		ed.prompt = []rune(f.Pattern())
	case modeReplace:
		ed.prompt = []rune(f.Replacement())
	}
}

func (ed *editor) applyPrompt() {
	f := ed.engine.Find()
	switch ed.mode {
	case modeFind:
		f.SetPattern(string(ed.prompt))
	case modeReplace:
		f.SetReplacement(string(ed.prompt))
	}
}

func (ed *editor) handlePromptKey(ev *tcell.EventKey) {
	f := ed.engine.Find()
	mods := ev.Modifiers()

	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = modeEdit
		ed.prompt = nil
		return
	case tcell.KeyEnter:
		if ed.mode == modeReplace {
			ed.report(f.ReplaceCurrent())
			return
		}
		f.FindNext(mods&tcell.ModShift != 0)
		return
	case tcell.KeyUp:
		f.FindNext(true)
		return
	case tcell.KeyDown:
		f.FindNext(false)
		return
	case tcell.KeyTab:
		if ed.mode == modeFind {
			ed.openPrompt(modeReplace)
		} else {
			ed.openPrompt(modeFind)
		}
		return
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(ed.prompt) > 0 {
			ed.prompt = ed.prompt[:len(ed.prompt)-1]
			ed.applyPrompt()
		}
		return
	}

	switch keySpec(ev) {
	case "Ctrl+A":
		if ed.mode == modeReplace {
			_, err := f.ReplaceAll()
			ed.report(err)
		}
	case "Alt+C":
		f.SetCaseSensitive(!f.Options().CaseSensitive)
	case "Alt+W":
		f.SetWholeWord(!f.Options().WholeWord)
	case "Alt+R":
		f.SetUseRegex(!f.Options().UseRegex)
	case "Alt+A":
		f.SetWrapAround(!f.Options().WrapAround)
	case "Alt+S":
		f.SetSelectionOnly(!f.Options().SelectionOnly)
	case "Ctrl+Q":
		ed.quit = true
	default:
		if ev.Key() == tcell.KeyRune && mods&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
			ed.prompt = append(ed.prompt, ev.Rune())
			ed.applyPrompt()
		}
	}
}

// Mouse

func (ed *editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		ed.scroll(-wheelLines)
		return
	case buttons&tcell.WheelDown != 0:
		ed.scroll(wheelLines)
		return
	case buttons&tcell.Button1 == 0:
		ed.dragging = false
		return
	}

	pos, ok := ed.screenToCoords(x, y)
	if !ok {
		return
	}
	if ed.dragging {
		ed.engine.SetSelection(ed.dragAnchor, pos, ed.engine.LastAddedCursor())
		return
	}

	ed.mode = modeEdit
	ed.dragging = true
	ed.dragAnchor = pos
	if ev.Modifiers()&(tcell.ModAlt|tcell.ModMeta) != 0 {
		ed.engine.AddCursorAt(pos)
		return
	}
	ed.engine.ClearExtraCursors()
	ed.engine.SetCursorPosition(pos, -1, true)
}

func (ed *editor) scroll(lines int) {
	maxTop := max(0, ed.engine.LineCount()-1)
	ed.top = min(max(0, ed.top+lines), maxTop)
}

// Commands that need host state

func (ed *editor) pageLines() int {
	_, h := ed.screen.Size()
	return max(1, h-2)
}

func (ed *editor) collapse() error {
	ed.engine.ClearExtraCursors()
	ed.engine.ClearSelections()
	return nil
}

func (ed *editor) complete() error {
	words := ed.engine.Completions()
	if len(words) == 0 {
		ed.setMessage("No completions")
		return nil
	}
	return ed.engine.AcceptCompletion(words[0])
}

func (ed *editor) selectNextOccurrence() error {
	e := ed.engine
	if !e.AnyCursorHasSelection() {
		e.SelectWordAt(e.CursorPosition())
		return nil
	}
	if !e.AddCursorForNextOccurrence(true) {
		ed.setMessage("No more occurrences")
	}
	return nil
}

func (ed *editor) save() error {
	if ed.path == "" {
		ed.setMessage("No file name")
		return nil
	}
	if err := os.WriteFile(ed.path, []byte(ed.engine.Text()), 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", ed.path, err)
	}
	ed.markSaved()
	ed.log.Info("saved %s", ed.path)
	ed.setMessage("Saved " + filepath.Base(ed.path))
	return nil
}

// languageChanged applies a reloaded definition when it is the one in use.
func (ed *editor) languageChanged(c lang.Change) {
	cur := ed.engine.Language()
	switch c.Op {
	case lang.ChangeLoaded:
		ed.log.Info("language %s loaded from %s", c.Definition.Name, c.Path)
		if cur == nil || lang.Key(cur.Name) != lang.Key(c.Definition.Name) {
			return
		}
		if err := ed.engine.SetLanguage(c.Definition); err != nil {
			ed.report(err)
			return
		}
		ed.setMessage("Reloaded " + c.Definition.Name)
	case lang.ChangeRemoved:
		ed.log.Info("language %s removed", c.Name)
	case lang.ChangeFailed:
		ed.log.Warn("language reload failed: %v", c.Err)
		ed.setMessage("Language reload failed")
	}
}
