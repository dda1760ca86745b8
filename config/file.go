package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadFile decodes a TOML overrides file
// A missing file yields empty overrides so the flag can point at an optional path
func LoadFile(path string) (Overrides, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseOverrides(string(data))
}

// ParseOverrides decodes a TOML document into overrides
func ParseOverrides(doc string) (Overrides, error) {
	table := make(map[string]any)
	if _, err := toml.Decode(doc, &table); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return Overrides(table), nil
}
