// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*BlockRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg BlockRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Validator checks block payloads against the registry's JSON schemas.
// Compiled schemas are cached per block type.
type Validator struct {
	registry *BlockRegistry
	mu       sync.RWMutex
	schemas  map[string]*gojsonschema.Schema
}

func NewValidator(reg *BlockRegistry) *Validator {
	return &Validator{
		registry: reg,
		schemas:  make(map[string]*gojsonschema.Schema),
	}
}

func (v *Validator) Registry() *BlockRegistry {
	return v.registry
}

// Knows reports whether the registry defines this block type.
func (v *Validator) Knows(blockType string) bool {
	return v.registry.Find(blockType) != nil
}

// ValidateBlock validates one block payload against its registered schema.
// Unknown block types are not an error here; callers decide how to treat
// them. A definition without a schema validates trivially.
func (v *Validator) ValidateBlock(blockType string, data map[string]interface{}) error {
	def := v.registry.Find(blockType)
	if def == nil || len(def.Schema) == 0 {
		return nil
	}

	schema, err := v.compiledSchema(blockType, def)
	if err != nil {
		return fmt.Errorf("compile schema for %q: %w", blockType, err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("block validation failed: %v", errs)
	}

	return nil
}

func (v *Validator) compiledSchema(blockType string, def *BlockDefinition) (*gojsonschema.Schema, error) {
	v.mu.RLock()
	if schema, ok := v.schemas[blockType]; ok {
		v.mu.RUnlock()
		return schema, nil
	}
	v.mu.RUnlock()

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.Schema))
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.schemas[blockType] = schema
	v.mu.Unlock()

	return schema, nil
}
