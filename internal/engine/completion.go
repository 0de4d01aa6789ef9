package engine

import (
	"slices"
	"strings"

	"github.com/dshills/codepad/internal/engine/buffer"
)

// WordAt returns the run under pos: a word, a run of white space or a run
// of one punctuation character.
func (e *Engine) WordAt(pos Coordinates) string {
	pos = e.doc.Sanitize(pos)
	return e.doc.Text(e.findWordStart(pos), e.findWordEnd(pos))
}

// CurrentWord returns the part of a word left of the current cursor and
// the position where it starts.
func (e *Engine) CurrentWord() (string, Coordinates) {
	pos := e.CursorPosition()
	glyphs := e.doc.Line(pos.Line)
	end := e.doc.ByteIndexR(pos)
	start := end
	for start > 0 {
		c := glyphs[start-1].Char
		if !buffer.IsWordChar(c) && !buffer.IsContinuation(c) {
			break
		}
		start--
	}
	for start < end && buffer.IsContinuation(glyphs[start].Char) {
		start++
	}
	word := string(glyphs[start:end].AppendBytes(nil))
	return word, Coordinates{Line: pos.Line, Column: e.doc.Column(pos.Line, start)}
}

// AddCompletionWords adds words that Completions offers besides the
// vocabulary of the language.
func (e *Engine) AddCompletionWords(words ...string) {
	for _, w := range words {
		if w != "" {
			e.extraWords[w] = struct{}{}
		}
	}
}

// Completions returns the known words that extend the current word, in
// order. Case-insensitive languages compare folded words.
func (e *Engine) Completions() []string {
	prefix, _ := e.CurrentWord()
	if prefix == "" {
		return nil
	}
	def := e.Language()
	fold := func(s string) string {
		if def == nil {
			return s
		}
		return def.Fold(s)
	}

	candidates := make(map[string]struct{}, len(e.extraWords))
	for w := range e.extraWords {
		candidates[w] = struct{}{}
	}
	if def != nil {
		for _, w := range def.Words() {
			candidates[w] = struct{}{}
		}
	}

	want := fold(prefix)
	var out []string
	for w := range candidates {
		if f := fold(w); f != want && strings.HasPrefix(f, want) {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return out
}

// AcceptCompletion replaces the current word with word followed by a
// space, as one undoable edit.
func (e *Engine) AcceptCompletion(word string) error {
	tx, err := e.begin("Complete")
	if err != nil {
		return err
	}
	if e.cursors.AnyHasSelection() {
		e.deleteSelections(tx)
	}

	pos := e.CursorPosition()
	partial, start := e.CurrentWord()
	if partial != "" {
		tx.Delete(partial, start, pos)
		_ = e.DeleteRange(start, pos)
	}
	text := word + " "
	end, _ := e.InsertTextAt(start, text)
	tx.Add(text, start, end)
	e.cursors.SetPosition(-1, end, true)
	e.Colorize(start.Line, 1)
	e.commit(tx)
	return nil
}
