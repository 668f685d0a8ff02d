// internal/models/template_type.go
package models

type TemplateType string

const (
	TemplateTypeCartAbandon       TemplateType = "cart_abandon"
	TemplateTypePostPurchase      TemplateType = "post_purchase"
	TemplateTypeOrderConfirmation TemplateType = "order_confirmation"
)

// AllTemplateTypes returns the supported template types in pipeline order of
// introduction. Useful for validation and for iterating token sets.
func AllTemplateTypes() []TemplateType {
	return []TemplateType{
		TemplateTypeCartAbandon,
		TemplateTypePostPurchase,
		TemplateTypeOrderConfirmation,
	}
}

// ParseTemplateType maps a raw string onto a known template type. Unknown
// values fall back to cart_abandon with ok=false so callers can decide
// whether to reject the request or continue with defaults.
func ParseTemplateType(raw string) (TemplateType, bool) {
	switch TemplateType(raw) {
	case TemplateTypeCartAbandon, TemplateTypePostPurchase, TemplateTypeOrderConfirmation:
		return TemplateType(raw), true
	}
	return TemplateTypeCartAbandon, false
}

func (t TemplateType) IsValid() bool {
	_, ok := ParseTemplateType(string(t))
	return ok
}

func (t TemplateType) String() string {
	return string(t)
}
