package loader

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/nathoo/stoneend/types"
	"gopkg.in/yaml.v3"
)

// yamlLevel is the document form of a level. Field names follow the
// classic level files: npcs keyed by id, items as a list, room actions
// carrying their text in "value".
type yamlLevel struct {
	Title     string                `yaml:"title"`
	Author    string                `yaml:"author"`
	Version   string                `yaml:"version"`
	Intro     string                `yaml:"intro"`
	Help      string                `yaml:"help"`
	Maps      [][]string            `yaml:"maps"`
	Entry     yamlCoord             `yaml:"entry"`
	Currency  string                `yaml:"currency"`
	Inventory map[string]int        `yaml:"inventory"`
	Rooms     []yamlRoom            `yaml:"rooms"`
	Regions   map[string]yamlRegion `yaml:"regions"`
	NPCs      map[string]yamlNPC    `yaml:"npcs"`
	Items     []yamlItem            `yaml:"items"`
}

// yamlCoord accepts {x: 1, y: 2, z: 0} or [1, 2, 0].
type yamlCoord types.Coord

func (c *yamlCoord) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var xyz []int
		if err := node.Decode(&xyz); err != nil {
			return err
		}
		if len(xyz) < 2 || len(xyz) > 3 {
			return fmt.Errorf("line %d: coordinate must be [x, y] or [x, y, z]", node.Line)
		}
		*c = yamlCoord{X: xyz[0], Y: xyz[1]}
		if len(xyz) == 3 {
			c.Z = xyz[2]
		}
		return nil
	}
	var m struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
		Z int `yaml:"z"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}
	*c = yamlCoord{X: m.X, Y: m.Y, Z: m.Z}
	return nil
}

// flagValue keeps the literal text of any scalar, so `true` and "true"
// are the same flag value.
type flagValue string

func (v *flagValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: flag value must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*v = ""
		return nil
	}
	*v = flagValue(node.Value)
	return nil
}

type yamlRoom struct {
	ID          string               `yaml:"id"`
	Title       string               `yaml:"title"`
	Coord       yamlCoord            `yaml:"coord"`
	Description string               `yaml:"description"`
	Regions     []string             `yaml:"regions"`
	NPCs        []string             `yaml:"npcs"`
	Items       []yamlRoomItem       `yaml:"items"`
	State       map[string]flagValue `yaml:"state"`
	Actions     []yamlAction         `yaml:"actions"`
}

type yamlRoomItem struct {
	ID       string   `yaml:"id"`
	Quantity int      `yaml:"quantity"`
	Name     string   `yaml:"name"`
	Targets  []string `yaml:"targets"`
	Pickup   string   `yaml:"pickup"`
}

type yamlRegion struct {
	Actions []yamlAction `yaml:"actions"`
}

type yamlNPC struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Talk        string         `yaml:"talk"`
	Targets     []string       `yaml:"targets"`
	Items       []yamlSaleItem `yaml:"items"`
}

type yamlSaleItem struct {
	ID    string `yaml:"id"`
	Cost  int    `yaml:"cost"`
	Stock int    `yaml:"stock"`
}

type yamlItem struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Targets     []string `yaml:"targets"`
	Quantity    int      `yaml:"quantity"`
	MaxQuantity int      `yaml:"max_quantity"`
	Pickup      string   `yaml:"pickup"`
	Cost        int      `yaml:"cost"`
	Sticky      bool     `yaml:"sticky"`
	Variant     string   `yaml:"variant"`
}

type yamlAction struct {
	Verb      string          `yaml:"verb"`
	Targets   []string        `yaml:"targets"`
	Value     string          `yaml:"value"`
	Text      string          `yaml:"text"`
	Modifiers []yamlModifier  `yaml:"modifiers"`
	Requires  []yamlCondition `yaml:"requires"`
	Outcome   string          `yaml:"outcome"`
}

type yamlFlag struct {
	Flag  string    `yaml:"flag"`
	Value flagValue `yaml:"value"`
}

type yamlStack struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
}

// yamlModifier is a one-key mapping naming the modifier kind.
type yamlModifier struct {
	ChangeState *yamlFlag  `yaml:"change_state"`
	ClearState  string     `yaml:"clear_state"`
	ChangeRoom  string     `yaml:"change_room"`
	AddItem     *yamlStack `yaml:"add_item"`
	RemoveItem  *yamlStack `yaml:"remove_item"`
}

// yamlCondition is a one-key mapping naming the condition kind.
type yamlCondition struct {
	FlagSet string         `yaml:"flag_set"`
	FlagNot string         `yaml:"flag_not"`
	FlagIs  *yamlFlag      `yaml:"flag_is"`
	HasItem *yamlStack     `yaml:"has_item"`
	Not     *yamlCondition `yaml:"not"`
}

// LoadYAML reads a single YAML level document.
func LoadYAML(path string) (*types.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level %s: %w", path, err)
	}
	level, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return level, nil
}

// ParseYAML decodes a YAML level document. Unknown fields are errors so
// that typos surface at load time.
func ParseYAML(data []byte) (*types.Level, error) {
	var doc yamlLevel
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	level := &types.Level{
		Title:    doc.Title,
		Author:   doc.Author,
		Version:  doc.Version,
		Intro:    doc.Intro,
		Help:     doc.Help,
		Maps:     doc.Maps,
		Entry:    types.Coord(doc.Entry),
		Currency: doc.Currency,
		Regions:  make(map[string]types.Region, len(doc.Regions)),
		NPCs:     make(map[string]types.NPC, len(doc.NPCs)),
		Items:    make(map[string]types.Item, len(doc.Items)),
	}
	if len(level.Maps) == 0 {
		return nil, fmt.Errorf("missing maps")
	}

	for _, id := range slices.Sorted(maps.Keys(doc.Inventory)) {
		level.Inventory = append(level.Inventory, types.ItemStack{ItemID: id, Quantity: doc.Inventory[id]})
	}

	for _, it := range doc.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("item %q has no id", it.Name)
		}
		if _, dup := level.Items[it.ID]; dup {
			return nil, fmt.Errorf("item %s defined twice", it.ID)
		}
		variant := types.ItemVariant(strings.ToLower(it.Variant))
		switch variant {
		case "", types.Consumable, types.Weapon, types.Money:
		default:
			return nil, fmt.Errorf("item %s: unknown variant %q", it.ID, it.Variant)
		}
		level.Items[it.ID] = types.Item{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Targets:     it.Targets,
			Quantity:    it.Quantity,
			MaxQuantity: it.MaxQuantity,
			Pickup:      it.Pickup,
			Cost:        it.Cost,
			Sticky:      it.Sticky,
			Variant:     variant,
		}
	}

	for id, n := range doc.NPCs {
		npc := types.NPC{
			ID:          id,
			Name:        n.Name,
			Description: n.Description,
			Talk:        n.Talk,
			Targets:     n.Targets,
		}
		for _, line := range n.Items {
			npc.Shop = append(npc.Shop, types.SaleItem{ItemID: line.ID, Cost: line.Cost, Stock: line.Stock})
		}
		level.NPCs[id] = npc
	}

	for id, r := range doc.Regions {
		actions, err := yamlActions(r.Actions)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", id, err)
		}
		level.Regions[id] = types.Region{ID: id, Actions: actions}
	}

	for i, r := range doc.Rooms {
		room := types.Room{
			ID:          r.ID,
			Coord:       types.Coord(r.Coord),
			Title:       r.Title,
			Description: r.Description,
			Regions:     r.Regions,
			NPCs:        r.NPCs,
		}
		if len(r.State) > 0 {
			room.State = make(map[string]string, len(r.State))
			for flag, v := range r.State {
				room.State[flag] = string(v)
			}
		}
		for _, it := range r.Items {
			room.Items = append(room.Items, types.RoomItem{
				ItemID:   it.ID,
				Quantity: it.Quantity,
				Name:     it.Name,
				Targets:  it.Targets,
				Pickup:   it.Pickup,
			})
		}
		actions, err := yamlActions(r.Actions)
		if err != nil {
			return nil, fmt.Errorf("room %d (%s): %w", i+1, r.Title, err)
		}
		room.Actions = actions
		level.Rooms = append(level.Rooms, room)
	}
	return level, nil
}

func yamlActions(in []yamlAction) ([]types.Action, error) {
	var out []types.Action
	for i, ya := range in {
		verb := types.ParseVerb(ya.Verb)
		if verb.IsZero() {
			return nil, fmt.Errorf("actions[%d]: missing verb", i)
		}
		a := types.Action{
			Verb:    verb,
			Targets: ya.Targets,
			Text:    ya.Text,
			Outcome: types.Outcome(ya.Outcome),
		}
		if a.Text == "" {
			a.Text = ya.Value
		}
		switch a.Outcome {
		case types.OutcomeNone, types.OutcomeDeath:
		default:
			return nil, fmt.Errorf("actions[%d]: unknown outcome %q", i, ya.Outcome)
		}
		for j, ym := range ya.Modifiers {
			m, err := ym.modifier()
			if err != nil {
				return nil, fmt.Errorf("actions[%d].modifiers[%d]: %w", i, j, err)
			}
			a.Modifiers = append(a.Modifiers, m)
		}
		for j, yc := range ya.Requires {
			c, err := yc.condition()
			if err != nil {
				return nil, fmt.Errorf("actions[%d].requires[%d]: %w", i, j, err)
			}
			a.Requires = append(a.Requires, c)
		}
		out = append(out, a)
	}
	return out, nil
}

func (ym yamlModifier) modifier() (types.Modifier, error) {
	switch {
	case ym.ChangeState != nil:
		return types.Modifier{Kind: types.ChangeState, Flag: ym.ChangeState.Flag, Value: string(ym.ChangeState.Value)}, nil
	case ym.ClearState != "":
		return types.Modifier{Kind: types.ChangeState, Flag: ym.ClearState}, nil
	case ym.ChangeRoom != "":
		return types.Modifier{Kind: types.ChangeRoom, Room: ym.ChangeRoom}, nil
	case ym.AddItem != nil:
		return types.Modifier{Kind: types.AddItem, Item: ym.AddItem.Item, Quantity: ym.AddItem.Quantity}, nil
	case ym.RemoveItem != nil:
		return types.Modifier{Kind: types.RemoveItem, Item: ym.RemoveItem.Item, Quantity: ym.RemoveItem.Quantity}, nil
	default:
		return types.Modifier{}, fmt.Errorf("empty modifier")
	}
}

func (yc yamlCondition) condition() (types.Condition, error) {
	switch {
	case yc.FlagSet != "":
		return types.Condition{Kind: types.FlagSet, Flag: yc.FlagSet}, nil
	case yc.FlagNot != "":
		return types.Condition{Kind: types.FlagNot, Flag: yc.FlagNot}, nil
	case yc.FlagIs != nil:
		return types.Condition{Kind: types.FlagIs, Flag: yc.FlagIs.Flag, Value: string(yc.FlagIs.Value)}, nil
	case yc.HasItem != nil:
		return types.Condition{Kind: types.HasItem, Item: yc.HasItem.Item, Quantity: yc.HasItem.Quantity}, nil
	case yc.Not != nil:
		inner, err := yc.Not.condition()
		if err != nil {
			return types.Condition{}, err
		}
		return types.Condition{Kind: types.Not, Inner: &inner}, nil
	default:
		return types.Condition{}, fmt.Errorf("empty condition")
	}
}
