// Package grid turns the per-level ASCII maps into a passability lookup.
//
// Each map level is a list of rows. A '.' is floor, '#' is wall and '-' is
// void. A space ends the row, anything after it is a comment.
package grid

import (
	"errors"
	"fmt"

	"github.com/nathoo/stoneend/types"
)

// Cell is the kind of a single map cell.
type Cell byte

const (
	Void  Cell = '-'
	Wall  Cell = '#'
	Floor Cell = '.'
)

// ErrBlocked is returned by Move when the neighbouring cell cannot be
// walked on.
var ErrBlocked = errors.New("blocked")

// MapError reports a malformed grid row.
type MapError struct {
	At   types.Coord
	Char rune
	Row  string
}

func (e *MapError) Error() string {
	return fmt.Sprintf("unknown map character %q at %s in row %q", e.Char, e.At, e.Row)
}

// Grid holds the parsed cells of every level, indexed [z][y][x].
type Grid struct {
	levels [][][]Cell
}

// Parse builds a Grid from raw map rows. The first malformed character
// found is reported as a *MapError.
func Parse(maps [][]string) (*Grid, error) {
	g := &Grid{levels: make([][][]Cell, len(maps))}
	for z, rows := range maps {
		level := make([][]Cell, len(rows))
		for y, row := range rows {
			var cells []Cell
			for x, ch := range []rune(row) {
				if ch == ' ' {
					break
				}
				switch Cell(ch) {
				case Floor, Wall, Void:
					cells = append(cells, Cell(ch))
				default:
					return nil, &MapError{At: types.Coord{X: x, Y: y, Z: z}, Char: ch, Row: row}
				}
			}
			level[y] = cells
		}
		g.levels[z] = level
	}
	return g, nil
}

// At returns the cell at c. Anything outside the mapped area is Void.
func (g *Grid) At(c types.Coord) Cell {
	if c.Z < 0 || c.Z >= len(g.levels) {
		return Void
	}
	level := g.levels[c.Z]
	if c.Y < 0 || c.Y >= len(level) {
		return Void
	}
	row := level[c.Y]
	if c.X < 0 || c.X >= len(row) {
		return Void
	}
	return row[c.X]
}

// Passable reports whether c is a floor cell inside the level's bounds.
func (g *Grid) Passable(c types.Coord) bool {
	return g.At(c) == Floor
}

// Step offsets c by one unit in dir on the same z-level. It does not check
// passability.
func Step(c types.Coord, dir types.Direction) types.Coord {
	switch dir {
	case types.North:
		c.Y--
	case types.South:
		c.Y++
	case types.East:
		c.X++
	case types.West:
		c.X--
	}
	return c
}

// Move returns the neighbour of c in dir, or ErrBlocked when that cell is
// a wall, void or out of bounds.
func (g *Grid) Move(c types.Coord, dir types.Direction) (types.Coord, error) {
	next := Step(c, dir)
	if !g.Passable(next) {
		return c, fmt.Errorf("move %s from %s: %w", dir, c, ErrBlocked)
	}
	return next, nil
}

// Exits reports which of the four neighbours of c are passable.
func (g *Grid) Exits(c types.Coord) map[types.Direction]bool {
	exits := make(map[types.Direction]bool, len(types.Directions))
	for _, dir := range types.Directions {
		if g.Passable(Step(c, dir)) {
			exits[dir] = true
		}
	}
	return exits
}

// FloorCells lists every floor cell in (z, y, x) order.
func (g *Grid) FloorCells() []types.Coord {
	var out []types.Coord
	for z, level := range g.levels {
		for y, row := range level {
			for x, cell := range row {
				if cell == Floor {
					out = append(out, types.Coord{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return out
}

// Levels returns the number of z-levels.
func (g *Grid) Levels() int {
	return len(g.levels)
}
