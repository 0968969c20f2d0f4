package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/stoneend/engine/world"
	"github.com/nathoo/stoneend/types"
	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	level    *lua.LTable
	rooms    []rawRoom
	entities []rawEntity
}

// Load reads a level from path and builds its World. A directory is a Lua
// game (game.lua first, other .lua files alphabetically); a .yml or .yaml
// file is a YAML level; a single .lua file is a one-file Lua game.
// Content warnings are logged, content errors are returned.
func Load(path string) (*world.World, error) {
	level, err := LoadLevel(path)
	if err != nil {
		return nil, err
	}
	w, err := world.New(level)
	if err != nil {
		return nil, fmt.Errorf("building world from %s: %w", path, err)
	}
	for _, msg := range w.Warnings {
		slog.Warn("content warning", "level", path, "warning", msg)
	}
	slog.Debug("level loaded", "level", path, "title", w.Title, "rooms", len(w.Rooms()))
	return w, nil
}

// LoadLevel reads a level from path without building the world.
func LoadLevel(path string) (*types.Level, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading level %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadLua(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return LoadYAML(path)
	case ".lua":
		return loadLuaFiles(filepath.Dir(path), []string{filepath.Base(path)})
	default:
		return nil, fmt.Errorf("unsupported level format %s (want a directory, .lua, .yml or .yaml)", path)
	}
}

// LoadLua reads all .lua files from dir and compiles them into a Level.
// The Lua VM is discarded after loading.
func LoadLua(dir string) (*types.Level, error) {
	// Discover .lua files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: game.lua first, rest alphabetical.
	return loadLuaFiles(dir, sortedLuaFiles(luaFiles))
}

func loadLuaFiles(dir string, files []string) (*types.Level, error) {
	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range files {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	level, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling level data: %w", err)
	}
	return level, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the level files or break
// determinism.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	} {
		L.SetGlobal(name, lua.LNil)
	}

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
