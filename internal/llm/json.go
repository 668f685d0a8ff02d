// internal/llm/json.go
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var ErrMalformedJSON = errors.New("LLM_MALFORMED_JSON")

// DecodeInto extracts the JSON object from a model reply and unmarshals it
// into v. Models wrap their output in markdown fences or prose often enough
// that a plain json.Unmarshal is not good enough here.
func DecodeInto(content string, v interface{}) error {
	cleaned := stripFences(content)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	carved := carveObject(cleaned)
	if err := json.Unmarshal([]byte(carved), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(carved)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return nil
}

// stripFences removes a surrounding ```json ... ``` (or bare ```) block.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag on the opening fence line.
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// carveObject cuts the outermost {...} span out of surrounding prose.
func carveObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
