package luahost

import (
	"codeberg.org/miketth/xkbridge/pkg/bridge"
	lua "github.com/yuin/gopher-lua"
)

// Keyboard is the bridge surface scripts can call. *bridge.Bridge
// implements it.
type Keyboard interface {
	SetLayoutGroup(group int)
	GetLayoutGroup() (int, bool)
	GetGroupNames() (string, bool)
	DescribeGroups() ([]bridge.GroupDescription, bool)
}

// RegisterKeyboard adds the xkb_* functions to the wm table. Queries that
// get no answer return nothing rather than nil.
func (r *Runtime) RegisterKeyboard(kb Keyboard) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wm := r.L.GetGlobal(globalTable).(*lua.LTable)

	r.L.SetField(wm, "xkb_set_layout_group", r.L.NewFunction(func(L *lua.LState) int {
		kb.SetLayoutGroup(L.CheckInt(1))
		return 0
	}))

	r.L.SetField(wm, "xkb_get_layout_group", r.L.NewFunction(func(L *lua.LState) int {
		group, ok := kb.GetLayoutGroup()
		if !ok {
			return 0
		}
		L.Push(lua.LNumber(group))
		return 1
	}))

	r.L.SetField(wm, "xkb_get_group_names", r.L.NewFunction(func(L *lua.LState) int {
		names, ok := kb.GetGroupNames()
		if !ok {
			return 0
		}
		L.Push(lua.LString(names))
		return 1
	}))

	r.L.SetField(wm, "xkb_get_group_descriptions", r.L.NewFunction(func(L *lua.LState) int {
		groups, ok := kb.DescribeGroups()
		if !ok {
			return 0
		}

		list := L.NewTable()
		for _, g := range groups {
			entry := L.NewTable()
			L.SetField(entry, "group", lua.LNumber(g.Group))
			L.SetField(entry, "layout", lua.LString(g.Layout))
			L.SetField(entry, "variant", lua.LString(g.Variant))
			L.SetField(entry, "short", lua.LString(g.Short))
			L.SetField(entry, "description", lua.LString(g.Description))
			list.Append(entry)
		}
		L.Push(list)
		return 1
	}))
}
