package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/seiyria/qivan/engine/content"
)

// rawDef holds a named definition table before compilation.
type rawDef struct {
	name  string
	file  string
	table *lua.LTable
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	file          string
	abilities     []rawDef
	statusEffects []rawDef
	enemies       []rawDef
	items         []rawDef
	threats       []rawDef
}

func (c *collector) add(dst *[]rawDef, name string, tbl *lua.LTable) {
	*dst = append(*dst, rawDef{name: name, file: c.file, table: tbl})
}

// Load reads all .lua files from dir, compiles them into a content table,
// validates references, and returns the table. The Lua VM is discarded
// after loading.
func Load(dir string) (*content.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
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
	sort.Strings(luaFiles)

	L := newVM()
	defer L.Close()

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		coll.file = f
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	return build(coll)
}

// LoadString compiles a single chunk of Lua source. It is meant for
// embedding small content sets and for tests.
func LoadString(src string) (*content.Table, error) {
	L := newVM()
	defer L.Close()

	coll := &collector{file: "<string>"}
	registerAPI(L, coll)
	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("executing content: %w", err)
	}
	return build(coll)
}

func build(coll *collector) (*content.Table, error) {
	tbl, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling content: %w", err)
	}
	if err := validate(coll, tbl); err != nil {
		return nil, err
	}
	return tbl, nil
}

// newVM creates a Lua state with only the safe libraries open.
func newVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	return L
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must not depend on Lua's random source.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}
