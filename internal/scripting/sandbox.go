// Package scripting provides a sandboxed GopherLua environment for ability
// effect scripts. It has no dependency on game domain packages; callers
// inject whatever state a script may read as plain globals.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// script execution when no override is configured.
const DefaultInstructionLimit = 100_000

// countingContext is a context.Context that cancels itself after Done() has
// been called limit times. GopherLua's main loop calls Done() once per
// opcode, making this an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done returns the underlying cancellation channel. Each call decrements the
// remaining counter; when it reaches zero the cancel function fires,
// terminating the Lua VM on the next opcode boundary.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

func newCountingContext(limit int) context.Context {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}
}

// NewSandboxedState creates a GopherLua LState with:
//   - only safe stdlib loaded: base, table, string, math
//   - dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - execution limited to at most instLimit Lua opcodes
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: returns a non-nil LState; the caller owns it and must call
// L.Close() when done.
func NewSandboxedState(instLimit int) *lua.LState {
	limit := instLimit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetContext(newCountingContext(limit))

	return L
}

// EvalInt runs script in a fresh sandboxed state with the given integer
// globals bound, and returns the script's integer result. The script must
// `return` a number; fractional results are truncated.
//
// Postcondition: returns the computed value or a non-nil error; the
// temporary state is always closed.
func EvalInt(script string, globals map[string]int) (int, error) {
	L := NewSandboxedState(0)
	defer L.Close()

	for name, value := range globals {
		L.SetGlobal(name, lua.LNumber(value))
	}

	if err := L.DoString(script); err != nil {
		return 0, err
	}

	ret := L.Get(-1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, &NonNumericResultError{Got: ret.Type().String()}
	}
	return int(n), nil
}

// NonNumericResultError reports a script that completed without returning a
// number.
type NonNumericResultError struct {
	Got string
}

func (e *NonNumericResultError) Error() string {
	return "scripting: script must return a number, got " + e.Got
}
