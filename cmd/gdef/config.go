package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the optional `.gdefrc` file's shape: output format, color
// on/off, and the ignored-lexeme display behavior for `gdef show`.
type Config struct {
	Color       bool   `toml:"color"`
	Format      string `toml:"format"`
	ShowIgnored bool   `toml:"show_ignored"`
	ColorSet    bool   `toml:"-"`
}

const configFileName = ".gdefrc"

// loadConfig looks for a `.gdefrc` in the current directory and
// decodes it. A missing file is not an error - it just means every
// setting falls back to its flag/auto-detected default.
func loadConfig() *Config {
	cfg := &Config{Format: "text"}
	if _, err := os.Stat(configFileName); err != nil {
		return cfg
	}
	meta, err := toml.DecodeFile(configFileName, cfg)
	if err != nil {
		return &Config{Format: "text"}
	}
	cfg.ColorSet = meta.IsDefined("color")
	return cfg
}
