// internal/template/validator.go
package template

import (
	"encoding/json"
	"fmt"

	"emailbuilder/internal/common/validation"
	"emailbuilder/internal/models"
	"emailbuilder/pkg/registry"
)

// Validator checks composed templates: structural rules first, then the
// per-block JSON schemas from the block registry when one is attached.
// Validation is advisory; callers record the report and keep going.
type Validator struct {
	registry *registry.Validator
}

func NewValidator(reg *registry.Validator) *Validator {
	return &Validator{registry: reg}
}

func (v *Validator) Validate(tmpl models.EmailTemplate) models.ValidationReport {
	errs := []string{}
	warnings := []string{}

	// Empty stands in for absent: a struct field is always present, so the
	// required checks treat zero values as missing.
	required := []struct {
		name  string
		empty bool
	}{
		{"subject", tmpl.Subject == ""},
		{"preheader", tmpl.Preheader == ""},
		{"blocks", tmpl.Blocks == nil},
		{"locale", tmpl.Locale == ""},
		{"templateType", tmpl.TemplateType == ""},
	}
	for _, field := range required {
		if field.empty {
			errs = append(errs, fmt.Sprintf("Missing required field: %s", field.name))
		}
	}

	for i, block := range tmpl.Blocks {
		if block.Type == "" {
			errs = append(errs, fmt.Sprintf("Block %d missing 'type' field", i))
			continue
		}

		switch block.Type {
		case models.BlockTypeHero:
			heroFields := []struct {
				name  string
				empty bool
			}{
				{"headline", block.Headline == ""},
				{"subcopy", block.Subcopy == ""},
				{"imageUrl", block.ImageURL == ""},
			}
			for _, field := range heroFields {
				if field.empty {
					errs = append(errs, fmt.Sprintf("Hero block %d missing '%s'", i, field.name))
				}
			}
			if block.ImageURL != "" && !validation.ValidateURL(block.ImageURL) {
				warnings = append(warnings, fmt.Sprintf("Hero block %d image is not a URL: %s", i, block.ImageURL))
			}
		case models.BlockTypeItems:
			if block.Items == nil {
				errs = append(errs, fmt.Sprintf("Items block %d must have 'items' list", i))
			}
		case models.BlockTypeRecommendations:
			if block.Items == nil {
				errs = append(errs, fmt.Sprintf("Recommendations block %d must have 'items' list", i))
			}
		case models.BlockTypeFooter:
			// No structural requirements beyond the type itself.
		default:
			warnings = append(warnings, fmt.Sprintf("Block %d has unknown type: %s", i, block.Type))
			continue
		}

		if err := v.schemaCheck(block); err != nil {
			errs = append(errs, fmt.Sprintf("Block %d failed schema validation: %v", i, err))
		}
	}

	verdict := "passed"
	if len(errs) > 0 {
		verdict = "failed"
	}

	return models.ValidationReport{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
		Summary:  fmt.Sprintf("Validation %s with %d errors and %d warnings", verdict, len(errs), len(warnings)),
	}
}

func (v *Validator) schemaCheck(block models.Block) error {
	if v.registry == nil || !v.registry.Knows(string(block.Type)) {
		return nil
	}

	raw, err := json.Marshal(block)
	if err != nil {
		return err
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}

	return v.registry.ValidateBlock(string(block.Type), data)
}
