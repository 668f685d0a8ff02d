// pkg/registry/schema.go
package registry

type BlockRegistry struct {
	Version     string            `json:"version"`
	LastUpdated string            `json:"lastUpdated"`
	Blocks      []BlockDefinition `json:"blocks"`
}

type BlockDefinition struct {
	Type        string                 `json:"type"`
	DisplayName string                 `json:"displayName"`
	Description string                 `json:"description"`
	Required    []string               `json:"required"`
	Schema      map[string]interface{} `json:"schema"`
	Tags        []string               `json:"tags"`
}

// Find returns the definition for a block type, or nil when the registry
// does not know it.
func (r *BlockRegistry) Find(blockType string) *BlockDefinition {
	for i := range r.Blocks {
		if r.Blocks[i].Type == blockType {
			return &r.Blocks[i]
		}
	}
	return nil
}

// Types lists the registered block type names in registry order.
func (r *BlockRegistry) Types() []string {
	types := make([]string, len(r.Blocks))
	for i := range r.Blocks {
		types[i] = r.Blocks[i].Type
	}
	return types
}
