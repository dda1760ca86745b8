package config

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
)

// Overrides is a partial config tree as produced by decoding a TOML document
// Nested tables are map[string]any; keys use the toml tag names of GameConfig
type Overrides map[string]any

// toTable converts a config into its generic table form
func toTable(cfg GameConfig) (map[string]any, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	table := make(map[string]any)
	if _, err := toml.Decode(buf.String(), &table); err != nil {
		return nil, fmt.Errorf("decode config table: %w", err)
	}
	return table, nil
}

// parseTable decodes a TOML document into a generic table
func parseTable(doc string) (map[string]any, error) {
	table := make(map[string]any)
	if _, err := toml.Decode(doc, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// mergeTables folds src into dst
// Tables merge key-by-key; arrays and scalars replace wholesale
func mergeTables(dst, src map[string]any) {
	for k, sv := range src {
		srcTable, srcIsTable := sv.(map[string]any)
		dstTable, dstIsTable := dst[k].(map[string]any)
		if srcIsTable && dstIsTable {
			mergeTables(dstTable, srcTable)
			continue
		}
		dst[k] = deepCopy(sv)
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case Overrides:
		return deepCopy(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}

// fromTable decodes a merged table into a config
// Unknown keys are rejected so typos in override files surface
func fromTable(table map[string]any) (GameConfig, error) {
	var cfg GameConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "toml",
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return GameConfig{}, fmt.Errorf("config decoder: %w", err)
	}
	if err := dec.Decode(table); err != nil {
		return GameConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Merge layers base defaults, library defaults and each overrides set in order
func Merge(layers ...Overrides) (GameConfig, error) {
	table, err := toTable(Base())
	if err != nil {
		return GameConfig{}, err
	}
	lib, err := parseTable(libraryDefaults)
	if err != nil {
		return GameConfig{}, fmt.Errorf("library defaults: %w", err)
	}
	mergeTables(table, lib)
	for _, o := range layers {
		mergeTables(table, normalize(o))
	}
	return fromTable(table)
}

// normalize turns nested Overrides values into plain tables
func normalize(o Overrides) map[string]any {
	if o == nil {
		return nil
	}
	return deepCopy(map[string]any(o)).(map[string]any)
}
