// Package config loads application configuration from layered sources.
//
// Precedence, lowest to highest: built-in defaults, the TOML config
// file, the Lua user file, environment variables. Each layer only
// overrides the fields it sets. The Lua layer exists because the
// workflows this tool comes from are configured in Lua; a user file is
// any script that fills in the global "compscope" table:
//
//	compscope = {
//	    url = "https://godbolt.org",
//	    line_match = true,
//	    highlight = "cursorline",
//	}
package config
