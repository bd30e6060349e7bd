package config

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// luaGlobal is the table name a user script fills in.
const luaGlobal = "compscope"

// loadLua runs one user script and applies the fields it sets in the
// global compscope table. The state is sandboxed to the script run and
// closed before returning; no Lua code survives configuration loading.
func loadLua(cfg *Config, path string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: false})
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("config: run %s: %w", path, err)
	}

	tbl, ok := L.GetGlobal(luaGlobal).(*lua.LTable)
	if !ok {
		// Script ran but declared nothing; treat as an empty layer.
		return nil
	}

	if v, ok := luaString(tbl, "url"); ok {
		cfg.ServiceURL = v
	}
	if v, ok := luaInt(tbl, "timeout_seconds"); ok {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}
	if v, ok := luaBool(tbl, "line_match"); ok {
		cfg.LiveCorrelation = v
	}
	if v, ok := luaString(tbl, "user_arguments"); ok {
		cfg.UserArguments = v
	}
	if v, ok := luaBool(tbl, "intel_syntax"); ok {
		cfg.IntelSyntax = v
	}
	if v, ok := luaString(tbl, "highlight"); ok {
		cfg.HighlightStyle = v
	}
	if v, ok := luaString(tbl, "log_level"); ok {
		cfg.LogLevel = v
	}
	if v, ok := luaString(tbl, "log_path"); ok {
		cfg.LogPath = v
	}
	return nil
}

// luaString reads a string field from a table.
func luaString(tbl *lua.LTable, key string) (string, bool) {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s), true
	}
	return "", false
}

// luaBool reads a boolean field from a table.
func luaBool(tbl *lua.LTable, key string) (bool, bool) {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b), true
	}
	return false, false
}

// luaInt reads an integer field from a table.
func luaInt(tbl *lua.LTable, key string) (int, bool) {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n), true
	}
	return 0, false
}
