// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"emailbuilder/pkg/registry"
)

var registryPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	typeAdd := addCmd.String("type", "", "Block type (e.g., hero)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Hero Section)")
	description := addCmd.String("description", "", "Description")
	required := addCmd.String("required", "", "Comma-separated required payload fields")
	tags := addCmd.String("tags", "", "Comma-separated tags")
	schemaFile := addCmd.String("schema", "", "Path to a JSON schema file for the block payload")
	addCmd.StringVar(&registryPath, "path", "configs/block-registry.json", "Path to registry file")

	// Update command flags
	typeUpdate := updateCmd.String("type", "", "Block type to update")
	field := updateCmd.String("field", "", "Field to update (displayName, description, required, tags, schema)")
	value := updateCmd.String("value", "", "New value for the field (a file path when field is schema)")
	updateCmd.StringVar(&registryPath, "path", "configs/block-registry.json", "Path to registry file")

	// Validate command flags
	validateCmd.StringVar(&registryPath, "path", "configs/block-registry.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *typeAdd == "" || *displayName == "" || *description == "" {
			fmt.Println("Error: type, displayName, and description are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		block := registry.BlockDefinition{
			Type:        *typeAdd,
			DisplayName: *displayName,
			Description: *description,
			Required:    splitList(*required),
			Schema:      map[string]interface{}{},
			Tags:        splitList(*tags),
		}
		if *schemaFile != "" {
			schema, err := loadSchemaFile(*schemaFile)
			if err != nil {
				fmt.Printf("Error reading schema file: %v\n", err)
				os.Exit(1)
			}
			block.Schema = schema
		}
		err := addBlock(&block)
		if err != nil {
			fmt.Printf("Error adding block: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added block: %s\n", *typeAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *typeUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: type, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err := updateBlock(*typeUpdate, *field, *value)
		if err != nil {
			fmt.Printf("Error updating block: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated block %s, field %s\n", *typeUpdate, *field)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		err := validateRegistry()
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func addBlock(block *registry.BlockDefinition) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		// If file doesn't exist, create new registry
		if os.IsNotExist(err) {
			reg = &registry.BlockRegistry{
				Version:     "1.0.0",
				LastUpdated: time.Now().Format(time.RFC3339),
				Blocks:      []registry.BlockDefinition{},
			}
		} else {
			return fmt.Errorf("failed to load registry: %w", err)
		}
	}

	// Check if block already exists
	if reg.Find(block.Type) != nil {
		return fmt.Errorf("block with type %s already exists", block.Type)
	}

	// Add new block
	reg.Blocks = append(reg.Blocks, *block)
	reg.LastUpdated = time.Now().Format(time.RFC3339)

	// Save registry
	return saveRegistry(reg, registryPath)
}

func updateBlock(blockType, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	found := false
	for i := range reg.Blocks {
		if reg.Blocks[i].Type == blockType {
			found = true
			switch field {
			case "displayName":
				reg.Blocks[i].DisplayName = value
			case "description":
				reg.Blocks[i].Description = value
			case "required":
				reg.Blocks[i].Required = splitList(value)
			case "tags":
				reg.Blocks[i].Tags = splitList(value)
			case "schema":
				schema, err := loadSchemaFile(value)
				if err != nil {
					return fmt.Errorf("invalid schema file: %w", err)
				}
				reg.Blocks[i].Schema = schema
			default:
				return fmt.Errorf("unknown field: %s", field)
			}
			break
		}
	}

	if !found {
		return fmt.Errorf("block with type %s not found", blockType)
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return saveRegistry(reg, registryPath)
}

func validateRegistry() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	if len(reg.Blocks) == 0 {
		return fmt.Errorf("registry contains no blocks")
	}

	types := make(map[string]bool)
	for _, block := range reg.Blocks {
		if block.Type == "" {
			return fmt.Errorf("block missing required field: Type")
		}
		if types[block.Type] {
			return fmt.Errorf("duplicate block type: %s", block.Type)
		}
		types[block.Type] = true

		if block.DisplayName == "" {
			return fmt.Errorf("block %s missing required field: DisplayName", block.Type)
		}
		if len(block.Schema) > 0 {
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(block.Schema)); err != nil {
				return fmt.Errorf("block %s has an invalid schema: %w", block.Type, err)
			}
		}
	}

	fmt.Printf("Registry validation passed. Found %d blocks.\n", len(reg.Blocks))
	return nil
}

// loadSchemaFile reads and parses a JSON schema document from disk.
func loadSchemaFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema map[string]interface{}
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	return schema, nil
}

func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// saveRegistry handles saving the registry to file
func saveRegistry(reg *registry.BlockRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}

	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add     Add a new block definition to the registry
  update  Update an existing block's field
  validate Validate the registry file
  help    Show this help message

Examples:
  registry-updater add -type hero -displayName "Hero Section" -description "Top-of-email hero banner" -required headline,imageUrl -tags layout
  registry-updater update -type hero -field description -value "Primary hero banner"
  registry-updater update -type hero -field schema -value schemas/hero.json
  registry-updater validate -path configs/block-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
