// pkg/catalog/catalog.go
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/default_catalog.json
var defaultCatalog []byte

//go:embed data/catalog.schema.json
var catalogSchema []byte

// Default returns the built-in seed catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault loads path, or the built-in catalog when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse validates raw JSON against the catalog schema and the registry
// invariants, then decodes it.
func Parse(data []byte) (*Catalog, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ValidateSchema checks data against the embedded JSON Schema.
func ValidateSchema(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(catalogSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("catalog does not match schema: %s", strings.Join(msgs, "; "))
}

// Validate enforces the invariants the schema cannot express.
func (c *Catalog) Validate() error {
	names := make(map[string]struct{}, len(c.Activities))
	for _, e := range c.Activities {
		if e.Name == "" {
			return fmt.Errorf("activity with empty name")
		}
		if _, dup := names[e.Name]; dup {
			return fmt.Errorf("duplicate activity name %q", e.Name)
		}
		names[e.Name] = struct{}{}

		if e.MaxParticipants <= 0 {
			return fmt.Errorf("activity %q: max_participants must be positive", e.Name)
		}
		seen := make(map[string]struct{}, len(e.Participants))
		for _, p := range e.Participants {
			if _, dup := seen[p]; dup {
				return fmt.Errorf("activity %q: duplicate participant %q", e.Name, p)
			}
			seen[p] = struct{}{}
		}
	}
	return nil
}

// Save writes the catalog as indented JSON.
func Save(path string, c *Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for i := range c.Activities {
		if c.Activities[i].Participants == nil {
			c.Activities[i].Participants = []string{}
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
