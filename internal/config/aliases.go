package config

import (
	"fmt"
	"os"

	"github.com/couchcryptid/shelter-data-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadAliases extends base with the aliases listed in the YAML file at path.
// The file maps logical field names to header spellings:
//
//	name: [shelter_name, 대피시설명]
//	address: [addr]
//
// An empty path returns base unchanged.
func LoadAliases(path string, base domain.AliasTable) (domain.AliasTable, error) {
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var extra map[string][]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse alias file %s: %w", path, err)
	}

	known := make(map[domain.Field]bool, len(domain.Fields))
	for _, f := range domain.Fields {
		known[f] = true
	}

	table := base
	// Apply in field order so the result does not depend on map iteration.
	for _, f := range domain.Fields {
		if aliases, ok := extra[string(f)]; ok {
			table = table.With(f, aliases...)
		}
	}
	for name := range extra {
		if !known[domain.Field(name)] {
			return nil, fmt.Errorf("alias file %s: unknown field %q", path, name)
		}
	}
	return table, nil
}
