// internal/models/guideline.go
package models

// BrandProfile captures the usable essence of an uploaded brand guideline
// document. When extraction or enhancement degrades, the profile still
// carries the base fields so downstream stages never see a nil brand.
type BrandProfile struct {
	Tone          string            `json:"tone"`
	Colors        []string          `json:"colors"`
	Style         string            `json:"style"`
	Messaging     string            `json:"messaging"`
	Restrictions  string            `json:"restrictions"`
	TemplateFocus string            `json:"templateFocus"`
	EmailSpecific map[string]string `json:"emailSpecific,omitempty"`
	Enhanced      bool              `json:"enhanced,omitempty"`
	Fallback      bool              `json:"fallback,omitempty"`

	// ExtractedText holds raw model output that did not parse as a profile;
	// AdditionalInsights holds free-form enhancement text kept for operators.
	ExtractedText      string `json:"extractedText,omitempty"`
	AdditionalInsights string `json:"additionalInsights,omitempty"`
	Error              string `json:"error,omitempty"`
}
