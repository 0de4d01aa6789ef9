package lang

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/codepad/internal/engine/token"
)

// LuaFunction is the global a tokenizer script must define. It is called
// with the remaining text of a line and returns the 1-based inclusive
// bounds of the next token and its class name, or nil for no match:
//
//	function tokenize(text)
//	  local s, e = string.find(text, "^%s*%d+")
//	  if s then return s, e, "number" end
//	end
const LuaFunction = "tokenize"

// DefaultLuaTimeout bounds a single tokenizer call and the initial load.
const DefaultLuaTimeout = 50 * time.Millisecond

// LuaTokenizer runs a Lua tokenizer script. Calls are serialized; the
// script state is shared between calls. A call that runs past the timeout
// is aborted and disables the tokenizer, so the colorizer falls back to the
// token rules.
type LuaTokenizer struct {
	mu       sync.Mutex
	L        *lua.LState
	fn       lua.LValue
	name     string
	timeout  time.Duration
	onError  func(error)
	closed   bool
	disabled bool
}

// LoadLuaTokenizer loads a tokenizer script from path.
func LoadLuaTokenizer(path string) (*LuaTokenizer, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tokenizer %s: %w", path, err)
	}
	return NewLuaTokenizer(string(src), path)
}

// NewLuaTokenizer compiles a tokenizer script. Name is used in errors.
func NewLuaTokenizer(src, name string) (*LuaTokenizer, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, g := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(g, lua.LNil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultLuaTimeout)
	L.SetContext(ctx)
	err := L.DoString(src)
	L.RemoveContext()
	cancel()
	if err != nil {
		L.Close()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = ErrTokenizerTimeout
		}
		return nil, fmt.Errorf("loading tokenizer %s: %w", name, err)
	}
	fn := L.GetGlobal(LuaFunction)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("tokenizer %s: global %q is not a function", name, LuaFunction)
	}
	return &LuaTokenizer{L: L, fn: fn, name: name, timeout: DefaultLuaTimeout}, nil
}

// SetTimeout changes the per-call deadline. Non-positive values restore
// DefaultLuaTimeout.
func (t *LuaTokenizer) SetTimeout(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if d <= 0 {
		d = DefaultLuaTimeout
	}
	t.timeout = d
}

// Disabled reports whether a timeout switched the tokenizer off.
func (t *LuaTokenizer) Disabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disabled
}

// SetErrorHandler registers a function that receives script errors. A
// failing call is treated as no match.
func (t *LuaTokenizer) SetErrorHandler(fn func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onError = fn
}

// Tokenize implements Tokenizer.
func (t *LuaTokenizer) Tokenize(text string) (int, int, token.Class, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.disabled {
		return 0, 0, token.Default, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	t.L.SetContext(ctx)
	err := t.L.CallByParam(lua.P{Fn: t.fn, NRet: 3, Protect: true}, lua.LString(text))
	t.L.RemoveContext()
	cancel()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			t.disabled = true
			t.report(fmt.Errorf("tokenizer %s: %w after %s", t.name, ErrTokenizerTimeout, t.timeout))
			return 0, 0, token.Default, false
		}
		t.report(fmt.Errorf("tokenizer %s: %w", t.name, err))
		return 0, 0, token.Default, false
	}
	first, last, cls := t.L.Get(-3), t.L.Get(-2), t.L.Get(-1)
	t.L.Pop(3)

	s, ok1 := first.(lua.LNumber)
	e, ok2 := last.(lua.LNumber)
	if !ok1 || !ok2 {
		return 0, 0, token.Default, false
	}
	start := min(max(int(s)-1, 0), len(text))
	end := min(max(int(e), start), len(text))

	class := token.Default
	if name, ok := cls.(lua.LString); ok {
		c, ok := token.Parse(string(name))
		if !ok {
			t.report(fmt.Errorf("tokenizer %s: %w", t.name, &token.UnknownClassError{Name: string(name)}))
			return 0, 0, token.Default, false
		}
		class = c
	}
	return start, end, class, true
}

func (t *LuaTokenizer) report(err error) {
	if t.onError != nil {
		t.onError(err)
	}
}

// Close releases the Lua state.
func (t *LuaTokenizer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		t.L.Close()
	}
}
