package colorize

import (
	"errors"
	"fmt"
	"math"

	"github.com/dshills/codepad/internal/engine/buffer"
	"github.com/dshills/codepad/internal/engine/token"
	"github.com/dshills/codepad/internal/lang"
	"github.com/dshills/codepad/internal/regex"
)

// Default number of lines classified per Step.
const (
	DefaultLinesPerStep          = 10
	DefaultTokenizerLinesPerStep = 10000
)

// ErrInvalidRule is returned when a token rule of a language fails to
// compile. The remaining rules stay in effect.
var ErrInvalidRule = errors.New("colorize: invalid token rule")

type rule struct {
	re    regex.Regexp
	class token.Class
}

// Colorizer tracks the dirty state of one document and recolors it.
type Colorizer struct {
	doc    *buffer.Document
	def    *lang.Definition
	engine regex.Engine
	rules  []rule

	linesPerStep          int
	tokenizerLinesPerStep int

	checkComments bool
	rangeMin      int
	rangeMax      int

	scratch []byte
}

// Option configures a Colorizer.
type Option func(*Colorizer)

// WithRegexEngine sets the engine used to compile token rules.
func WithRegexEngine(e regex.Engine) Option {
	return func(c *Colorizer) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithLinesPerStep sets how many lines a Step classifies when the language
// uses token rules. Languages with a Tokenizer classify a thousand times as
// many.
func WithLinesPerStep(n int) Option {
	return func(c *Colorizer) {
		if n > 0 {
			c.linesPerStep = n
			c.tokenizerLinesPerStep = n * 1000
		}
	}
}

// New creates a colorizer for doc with no language.
func New(doc *buffer.Document, opts ...Option) *Colorizer {
	c := &Colorizer{
		doc:                   doc,
		engine:                regex.Std{},
		linesPerStep:          DefaultLinesPerStep,
		tokenizerLinesPerStep: DefaultTokenizerLinesPerStep,
	}
	c.clearRange()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Language returns the current language, or nil.
func (c *Colorizer) Language() *lang.Definition {
	return c.def
}

// SetLanguage switches language and schedules a full recolor. Rules that
// fail to compile are dropped and reported in the returned error.
func (c *Colorizer) SetLanguage(def *lang.Definition) error {
	c.def = def
	c.rules = c.rules[:0]

	var errs []error
	if def != nil {
		for _, r := range def.Rules {
			re, err := c.engine.Compile(r.Pattern, 0)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w %q: %w", ErrInvalidRule, r.Pattern, err))
				continue
			}
			c.rules = append(c.rules, rule{re: re, class: r.Class})
		}
	}
	c.Invalidate(0, -1)
	return errors.Join(errs...)
}

// SetRegexEngine replaces the rule engine and recompiles the rules.
func (c *Colorizer) SetRegexEngine(e regex.Engine) error {
	if e == nil {
		return nil
	}
	c.engine = e
	return c.SetLanguage(c.def)
}

// Invalidate marks count lines starting at from for reclassification and
// schedules a comment scan. A count of -1 extends to the end of the
// document.
func (c *Colorizer) Invalidate(from, count int) {
	n := c.doc.LineCount()
	to := n
	if count != -1 {
		to = min(n, from+count)
	}
	c.rangeMin = max(0, min(c.rangeMin, from))
	c.rangeMax = max(c.rangeMin, max(c.rangeMax, to))
	c.checkComments = true
}

// DirtyRange returns the half-open line range still waiting for
// classification. The range is empty when nothing is pending.
func (c *Colorizer) DirtyRange() (int, int) {
	if c.rangeMin >= c.rangeMax {
		return 0, 0
	}
	return c.rangeMin, c.rangeMax
}

// Pending reports whether a Step would do any work.
func (c *Colorizer) Pending() bool {
	return c.def != nil && (c.checkComments || c.rangeMin < c.rangeMax)
}

func (c *Colorizer) clearRange() {
	c.rangeMin = math.MaxInt
	c.rangeMax = 0
}

// Step runs a pending comment scan and classifies one chunk of the dirty
// range. It reports whether more work remains.
func (c *Colorizer) Step() bool {
	if c.def == nil {
		return false
	}
	if c.checkComments {
		c.ScanComments()
		c.checkComments = false
	}
	if c.rangeMin < c.rangeMax {
		step := c.linesPerStep
		if c.def.Tokenizer != nil {
			step = c.tokenizerLinesPerStep
		}
		to := min(c.rangeMin+step, c.rangeMax)
		c.ColorizeRange(c.rangeMin, to)
		c.rangeMin = to
		if c.rangeMin == c.rangeMax {
			c.clearRange()
		}
	}
	return c.Pending()
}

// Run steps until no work remains.
func (c *Colorizer) Run() {
	for c.Step() {
	}
}

// ColorizeRange classifies the tokens of lines [from, to). Every glyph is
// reset to the default class first. Bytes no token matches are skipped.
func (c *Colorizer) ColorizeRange(from, to int) {
	if c.def == nil || from >= to {
		return
	}
	end := max(0, min(c.doc.LineCount(), to))
	for i := max(from, 0); i < end; i++ {
		line := c.doc.Line(i)
		if len(line) == 0 {
			continue
		}
		c.scratch = line.AppendBytes(c.scratch[:0])
		for j := range line {
			line[j].Class = token.Default
		}
		c.classifyLine(line, string(c.scratch))
	}
}

func (c *Colorizer) classifyLine(line buffer.Line, text string) {
	for first := 0; first < len(text); {
		begin, end, class, ok := c.nextToken(text, first)
		if !ok {
			first++
			continue
		}
		if class == token.Identifier {
			class = c.def.Classify(text[begin:end], line[first].Preprocessor)
		}
		for j := begin; j < end; j++ {
			line[j].Class = class
		}
		if end <= first {
			first++
		} else {
			first = end
		}
	}
}

// nextToken finds the token at first, trying the tokenizer before the rules.
// Returned offsets are absolute.
func (c *Colorizer) nextToken(text string, first int) (int, int, token.Class, bool) {
	rest := text[first:]
	if tk := c.def.Tokenizer; tk != nil {
		if s, e, class, ok := tk.Tokenize(rest); ok {
			s = min(max(s, 0), len(rest))
			e = min(max(e, s), len(rest))
			return first + s, first + e, class, true
		}
	}
	for _, r := range c.rules {
		if n, ok := r.re.MatchPrefix(rest); ok {
			return first, first + n, r.class, true
		}
	}
	return 0, 0, token.Default, false
}
