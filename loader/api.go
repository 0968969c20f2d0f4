package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerActionHelpers(L)
	registerConditionHelpers(L)
	registerModifierHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Level { title = "...", maps = {...}, entry = {x, y, z}, ... }
	L.SetGlobal("Level", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.level != nil {
			L.RaiseError("Level{} defined twice")
		}
		coll.level = tbl
		return 0
	}))

	// Room { ... } declares a room without an id; Room "id" { ... } is the
	// curried form with one.
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		if tbl, ok := L.Get(1).(*lua.LTable); ok {
			coll.rooms = append(coll.rooms, rawRoom{table: tbl})
			return 0
		}
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rooms = append(coll.rooms, rawRoom{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	for name, kind := range map[string]string{
		"Region": "region",
		"NPC":    "npc",
		"Item":   "item",
	} {
		// Region "id" { ... }, NPC "id" { ... }, Item "id" { ... }
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				coll.entities = append(coll.entities, rawEntity{id: id, kind: kind, table: tbl})
				return 0
			}))
			return 1
		}))
	}

	// Sell("item", cost, stock) builds one shop line. A missing stock is
	// unlimited.
	L.SetGlobal("Sell", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("cost", lua.LNumber(L.CheckInt(2)))
		tbl.RawSetString("stock", lua.LNumber(L.OptInt(3, 0)))
		L.Push(tbl)
		return 1
	}))

	// Place "id" { pickup = "...", quantity = 3 } puts an item in a room.
	L.SetGlobal("Place", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.OptTable(1, L.NewTable())
			tbl.RawSetString("item", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))
}

func registerActionHelpers(L *lua.LState) {
	// Look { "wall", text = "..." } and friends tag the table with a verb.
	for name, verb := range map[string]string{
		"Look":   "look",
		"Talk":   "talk",
		"Help":   "help",
		"Attack": "attack",
		"Move":   "move",
	} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("verb", lua.LString(verb))
			L.Push(tbl)
			return 1
		}))
	}

	// Action "pull" { "lever", text = "..." } for content-defined verbs.
	L.SetGlobal("Action", L.NewFunction(func(L *lua.LState) int {
		verb := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("verb", lua.LString(verb))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))
}

func registerConditionHelpers(L *lua.LState) {
	// HasItem("key", quantity)
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("has_item"))
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("quantity", lua.LNumber(L.OptInt(2, 1)))
		L.Push(tbl)
		return 1
	}))

	// FlagSet("flag")
	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag_set"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// FlagNot("flag")
	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag_not"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// FlagIs("flag", value), value is a string, boolean or number.
	L.SetGlobal("FlagIs", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("flag_is"))
		tbl.RawSetString("flag", lua.LString(flag))
		tbl.RawSetString("value", L.CheckAny(2))
		L.Push(tbl)
		return 1
	}))

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		inner := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("not"))
		tbl.RawSetString("inner", inner)
		L.Push(tbl)
		return 1
	}))
}

func registerModifierHelpers(L *lua.LState) {
	// ChangeState("flag", value)
	L.SetGlobal("ChangeState", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("change_state"))
		tbl.RawSetString("flag", lua.LString(flag))
		tbl.RawSetString("value", L.Get(2))
		L.Push(tbl)
		return 1
	}))

	// ClearState("flag")
	L.SetGlobal("ClearState", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("change_state"))
		tbl.RawSetString("flag", lua.LString(flag))
		L.Push(tbl)
		return 1
	}))

	// ChangeRoom("room")
	L.SetGlobal("ChangeRoom", L.NewFunction(func(L *lua.LState) int {
		room := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("change_room"))
		tbl.RawSetString("room", lua.LString(room))
		L.Push(tbl)
		return 1
	}))

	// AddItem("id", quantity)
	L.SetGlobal("AddItem", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("add_item"))
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("quantity", lua.LNumber(L.OptInt(2, 1)))
		L.Push(tbl)
		return 1
	}))

	// RemoveItem("id", quantity)
	L.SetGlobal("RemoveItem", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString("remove_item"))
		tbl.RawSetString("item", lua.LString(L.CheckString(1)))
		tbl.RawSetString("quantity", lua.LNumber(L.OptInt(2, 1)))
		L.Push(tbl)
		return 1
	}))
}
