// Package luahost embeds a Lua runtime that scripts the keyboard bridge. It
// provides a global signal registry and the xkb functions on the "wm" table.
package luahost

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const globalTable = "wm"

// Runtime owns a Lua state. Every entry into Lua holds mu, so scripts and
// signal emission from other goroutines never overlap.
type Runtime struct {
	mu       sync.Mutex
	L        *lua.LState
	handlers map[string][]*lua.LFunction
	log      *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Runtime {
	r := &Runtime{
		L:        lua.NewState(),
		handlers: make(map[string][]*lua.LFunction),
		log:      log,
	}

	wm := r.L.NewTable()
	r.L.SetField(wm, "connect_signal", r.L.NewFunction(r.luaConnectSignal))
	r.L.SetField(wm, "disconnect_signal", r.L.NewFunction(r.luaDisconnectSignal))
	r.L.SetField(wm, "emit_signal", r.L.NewFunction(r.luaEmitSignal))
	r.L.SetGlobal(globalTable, wm)

	return r
}

func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.L.Close()
}

func (r *Runtime) DoFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	return nil
}

func (r *Runtime) DoString(src string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("run chunk: %w", err)
	}
	return nil
}

// Emit delivers signal to every connected Lua handler. It implements
// bridge.EventSink.
func (r *Runtime) Emit(signal string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		values = append(values, toLValue(a))
	}
	r.emit(signal, values)
}

// emit expects mu to be held.
func (r *Runtime) emit(signal string, args []lua.LValue) {
	// handlers may connect or disconnect while we iterate
	handlers := append([]*lua.LFunction(nil), r.handlers[signal]...)

	for _, fn := range handlers {
		err := r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
		if err != nil {
			r.log.Warnw("signal handler failed", "signal", signal, "error", err)
		}
	}
}

func (r *Runtime) luaConnectSignal(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	r.handlers[name] = append(r.handlers[name], fn)
	return 0
}

func (r *Runtime) luaDisconnectSignal(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	handlers := r.handlers[name]
	for i, h := range handlers {
		if h == fn {
			r.handlers[name] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
	return 0
}

func (r *Runtime) luaEmitSignal(L *lua.LState) int {
	name := L.CheckString(1)

	args := make([]lua.LValue, 0, L.GetTop())
	for i := 2; i <= L.GetTop(); i++ {
		args = append(args, L.Get(i))
	}
	r.emit(name, args)
	return 0
}

func toLValue(v any) lua.LValue {
	switch v := v.(type) {
	case nil:
		return lua.LNil
	case int:
		return lua.LNumber(v)
	case uint8:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case string:
		return lua.LString(v)
	case bool:
		return lua.LBool(v)
	case lua.LValue:
		return v
	}
	return lua.LString(fmt.Sprint(v))
}
