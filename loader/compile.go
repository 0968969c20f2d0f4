// Package loader turns level content into a types.Level. Lua game
// directories run once in a sandboxed VM that is discarded after loading;
// YAML documents are decoded directly.
package loader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/nathoo/stoneend/types"
	lua "github.com/yuin/gopher-lua"
)

// rawRoom holds a room table before compilation. The id is empty for rooms
// declared without one.
type rawRoom struct {
	id    string
	table *lua.LTable
}

// rawEntity holds a region, NPC or item table before compilation.
type rawEntity struct {
	id    string
	kind  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings returns the string elements of a list field.
func getStrings(tbl *lua.LTable, key string) []string {
	return arrayStrings(getTable(tbl, key))
}

// arrayStrings returns the string elements of the array part of a table.
func arrayStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// flagString renders a Lua value as a flag value. Booleans become
// "true"/"false", nil becomes the clearing value.
func flagString(v lua.LValue) string {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LBool:
		return strconv.FormatBool(bool(val))
	case lua.LNumber:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	default:
		return ""
	}
}

// getCoord reads {x, y, z} or {x = .., y = .., z = ..}. A missing z is 0.
func getCoord(tbl *lua.LTable, key string) (types.Coord, error) {
	ct := getTable(tbl, key)
	if ct == nil {
		return types.Coord{}, fmt.Errorf("missing %s", key)
	}
	if ct.MaxN() > 0 {
		if ct.MaxN() < 2 || ct.MaxN() > 3 {
			return types.Coord{}, fmt.Errorf("%s must be {x, y[, z]}", key)
		}
		c := types.Coord{X: intAt(ct, 1), Y: intAt(ct, 2)}
		if ct.MaxN() == 3 {
			c.Z = intAt(ct, 3)
		}
		return c, nil
	}
	return types.Coord{X: getInt(ct, "x"), Y: getInt(ct, "y"), Z: getInt(ct, "z")}, nil
}

func intAt(tbl *lua.LTable, i int) int {
	if n, ok := tbl.RawGetInt(i).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// compile converts all collected Lua data into a Level.
func compile(coll *collector) (*types.Level, error) {
	if coll.level == nil {
		return nil, fmt.Errorf("no Level{} definition found")
	}
	level, err := compileLevel(coll.level)
	if err != nil {
		return nil, fmt.Errorf("compiling Level: %w", err)
	}

	for _, raw := range coll.entities {
		if err := compileEntity(level, raw); err != nil {
			return nil, fmt.Errorf("compiling %s %s: %w", raw.kind, raw.id, err)
		}
	}

	for i, raw := range coll.rooms {
		room, err := compileRoom(raw)
		if err != nil {
			name := raw.id
			if name == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			return nil, fmt.Errorf("compiling room %s: %w", name, err)
		}
		level.Rooms = append(level.Rooms, room)
	}
	return level, nil
}

func compileLevel(tbl *lua.LTable) (*types.Level, error) {
	level := &types.Level{
		Title:    getString(tbl, "title"),
		Author:   getString(tbl, "author"),
		Version:  getString(tbl, "version"),
		Intro:    getString(tbl, "intro"),
		Help:     getString(tbl, "help"),
		Currency: getString(tbl, "currency"),
		Regions:  map[string]types.Region{},
		NPCs:     map[string]types.NPC{},
		Items:    map[string]types.Item{},
	}

	entry, err := getCoord(tbl, "entry")
	if err != nil {
		return nil, err
	}
	level.Entry = entry

	maps := getTable(tbl, "maps")
	if maps == nil {
		return nil, fmt.Errorf("missing maps")
	}
	for z := 1; z <= maps.MaxN(); z++ {
		switch m := maps.RawGetInt(z).(type) {
		case lua.LString:
			level.Maps = append(level.Maps, splitRows(string(m)))
		case *lua.LTable:
			level.Maps = append(level.Maps, arrayStrings(m))
		default:
			return nil, fmt.Errorf("map %d must be a string or a list of rows", z-1)
		}
	}

	level.Inventory = compileInventory(getTable(tbl, "inventory"))
	return level, nil
}

// splitRows splits a long-string map into rows. The trailing newline
// before the closing bracket does not add a row.
func splitRows(s string) []string {
	rows := strings.Split(s, "\n")
	if len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// compileInventory accepts { "sword", gold = 3 }: listed ids first in
// order, then keyed ids sorted.
func compileInventory(tbl *lua.LTable) []types.ItemStack {
	if tbl == nil {
		return nil
	}
	var stacks []types.ItemStack
	for _, id := range arrayStrings(tbl) {
		stacks = append(stacks, types.ItemStack{ItemID: id})
	}
	keyed := map[string]int{}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			keyed[string(ks)] = int(n)
		}
	})
	ids := make([]string, 0, len(keyed))
	for id := range keyed {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		stacks = append(stacks, types.ItemStack{ItemID: id, Quantity: keyed[id]})
	}
	return stacks
}

func compileEntity(level *types.Level, raw rawEntity) error {
	tbl := raw.table
	switch raw.kind {
	case "region":
		if _, dup := level.Regions[raw.id]; dup {
			return fmt.Errorf("defined twice")
		}
		actions, err := compileActions(getTable(tbl, "actions"))
		if err != nil {
			return err
		}
		level.Regions[raw.id] = types.Region{ID: raw.id, Actions: actions}

	case "npc":
		if _, dup := level.NPCs[raw.id]; dup {
			return fmt.Errorf("defined twice")
		}
		npc := types.NPC{
			ID:          raw.id,
			Name:        getString(tbl, "name"),
			Description: getString(tbl, "description"),
			Talk:        getString(tbl, "talk"),
			Targets:     getStrings(tbl, "targets"),
		}
		if sells := getTable(tbl, "sells"); sells != nil {
			for i := 1; i <= sells.MaxN(); i++ {
				line, ok := sells.RawGetInt(i).(*lua.LTable)
				if !ok {
					return fmt.Errorf("sells[%d] must be a Sell(...)", i)
				}
				npc.Shop = append(npc.Shop, types.SaleItem{
					ItemID: getString(line, "item"),
					Cost:   getInt(line, "cost"),
					Stock:  getInt(line, "stock"),
				})
			}
		}
		level.NPCs[raw.id] = npc

	case "item":
		if _, dup := level.Items[raw.id]; dup {
			return fmt.Errorf("defined twice")
		}
		variant := types.ItemVariant(strings.ToLower(getString(tbl, "variant")))
		switch variant {
		case "", types.Consumable, types.Weapon, types.Money:
		default:
			return fmt.Errorf("unknown variant %q", variant)
		}
		level.Items[raw.id] = types.Item{
			ID:          raw.id,
			Name:        getString(tbl, "name"),
			Description: getString(tbl, "description"),
			Targets:     getStrings(tbl, "targets"),
			Quantity:    getInt(tbl, "quantity"),
			MaxQuantity: getInt(tbl, "max_quantity"),
			Pickup:      getString(tbl, "pickup"),
			Cost:        getInt(tbl, "cost"),
			Sticky:      getBool(tbl, "sticky", false),
			Variant:     variant,
		}
	}
	return nil
}

func compileRoom(raw rawRoom) (types.Room, error) {
	tbl := raw.table
	coord, err := getCoord(tbl, "coord")
	if err != nil {
		return types.Room{}, err
	}
	room := types.Room{
		ID:          raw.id,
		Coord:       coord,
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
		Regions:     getStrings(tbl, "regions"),
		NPCs:        getStrings(tbl, "npcs"),
	}
	if room.ID == "" {
		room.ID = getString(tbl, "id")
	}

	if st := getTable(tbl, "state"); st != nil {
		room.State = map[string]string{}
		st.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				room.State[string(ks)] = flagString(v)
			}
		})
	}

	if items := getTable(tbl, "items"); items != nil {
		for i := 1; i <= items.MaxN(); i++ {
			switch it := items.RawGetInt(i).(type) {
			case lua.LString:
				room.Items = append(room.Items, types.RoomItem{ItemID: string(it)})
			case *lua.LTable:
				room.Items = append(room.Items, types.RoomItem{
					ItemID:   getString(it, "item"),
					Quantity: getInt(it, "quantity"),
					Name:     getString(it, "name"),
					Targets:  getStrings(it, "targets"),
					Pickup:   getString(it, "pickup"),
				})
			default:
				return types.Room{}, fmt.Errorf("items[%d] must be an item id or Place(...)", i)
			}
		}
	}

	room.Actions, err = compileActions(getTable(tbl, "actions"))
	if err != nil {
		return types.Room{}, err
	}
	return room, nil
}

func compileActions(tbl *lua.LTable) ([]types.Action, error) {
	if tbl == nil {
		return nil, nil
	}
	var actions []types.Action
	for i := 1; i <= tbl.MaxN(); i++ {
		at, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("actions[%d] is not a table", i)
		}
		a, err := compileAction(at)
		if err != nil {
			return nil, fmt.Errorf("actions[%d]: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// compileAction reads an action table. Target aliases come from the
// array part and from an optional targets list.
func compileAction(tbl *lua.LTable) (types.Action, error) {
	verb := types.ParseVerb(getString(tbl, "verb"))
	if verb.IsZero() {
		return types.Action{}, fmt.Errorf("missing verb")
	}
	a := types.Action{
		Verb:    verb,
		Targets: append(arrayStrings(tbl), getStrings(tbl, "targets")...),
		Text:    getString(tbl, "text"),
		Outcome: types.Outcome(getString(tbl, "outcome")),
	}
	switch a.Outcome {
	case types.OutcomeNone, types.OutcomeDeath:
	default:
		return types.Action{}, fmt.Errorf("unknown outcome %q", a.Outcome)
	}

	if mods := getTable(tbl, "modifiers"); mods != nil {
		for i := 1; i <= mods.MaxN(); i++ {
			mt, ok := mods.RawGetInt(i).(*lua.LTable)
			if !ok {
				return types.Action{}, fmt.Errorf("modifiers[%d] is not a table", i)
			}
			m, err := compileModifier(mt)
			if err != nil {
				return types.Action{}, err
			}
			a.Modifiers = append(a.Modifiers, m)
		}
	}

	if req := getTable(tbl, "requires"); req != nil {
		conds, err := compileConditions(req)
		if err != nil {
			return types.Action{}, err
		}
		a.Requires = conds
	}
	return a, nil
}

func compileModifier(tbl *lua.LTable) (types.Modifier, error) {
	switch t := getString(tbl, "type"); t {
	case "change_state":
		return types.Modifier{
			Kind:  types.ChangeState,
			Flag:  getString(tbl, "flag"),
			Value: flagString(tbl.RawGetString("value")),
		}, nil
	case "change_room":
		return types.Modifier{Kind: types.ChangeRoom, Room: getString(tbl, "room")}, nil
	case "add_item":
		return types.Modifier{Kind: types.AddItem, Item: getString(tbl, "item"), Quantity: getInt(tbl, "quantity")}, nil
	case "remove_item":
		return types.Modifier{Kind: types.RemoveItem, Item: getString(tbl, "item"), Quantity: getInt(tbl, "quantity")}, nil
	default:
		return types.Modifier{}, fmt.Errorf("unknown modifier type %q", t)
	}
}

func compileConditions(tbl *lua.LTable) ([]types.Condition, error) {
	var conditions []types.Condition
	for i := 1; i <= tbl.MaxN(); i++ {
		ct, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("requires[%d] is not a table", i)
		}
		c, err := compileCondition(ct)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, c)
	}
	return conditions, nil
}

func compileCondition(tbl *lua.LTable) (types.Condition, error) {
	switch t := getString(tbl, "type"); t {
	case "flag_set":
		return types.Condition{Kind: types.FlagSet, Flag: getString(tbl, "flag")}, nil
	case "flag_not":
		return types.Condition{Kind: types.FlagNot, Flag: getString(tbl, "flag")}, nil
	case "flag_is":
		return types.Condition{
			Kind:  types.FlagIs,
			Flag:  getString(tbl, "flag"),
			Value: flagString(tbl.RawGetString("value")),
		}, nil
	case "has_item":
		return types.Condition{Kind: types.HasItem, Item: getString(tbl, "item"), Quantity: getInt(tbl, "quantity")}, nil
	case "not":
		innerTbl := getTable(tbl, "inner")
		if innerTbl == nil {
			return types.Condition{}, fmt.Errorf("Not() without a condition")
		}
		inner, err := compileCondition(innerTbl)
		if err != nil {
			return types.Condition{}, err
		}
		return types.Condition{Kind: types.Not, Inner: &inner}, nil
	default:
		return types.Condition{}, fmt.Errorf("unknown condition type %q", t)
	}
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	slices.Sort(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
