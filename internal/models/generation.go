// internal/models/generation.go
package models

// GenerateRequest is the inbound payload for both the blocking and the
// streaming generation endpoints.
type GenerateRequest struct {
	TemplateType       TemplateType           `json:"templateType"`
	Locale             string                 `json:"locale"`
	SKUs               []string               `json:"skus"`
	Category           string                 `json:"category,omitempty"`
	BrandGuidelineFile string                 `json:"brandGuidelineFile,omitempty"`
	CustomerContext    map[string]interface{} `json:"customerContext,omitempty"`
	DeliverTo          string                 `json:"deliverTo,omitempty"`
}

// PrimarySKU returns the first requested SKU, or a placeholder when the
// request carried none so the pipeline can still produce a template.
func (r GenerateRequest) PrimarySKU() string {
	if len(r.SKUs) > 0 {
		return r.SKUs[0]
	}
	return "DEFAULT-SKU"
}

// GenerateResult is the reply of the blocking endpoint and the terminal
// payload of a streamed generation.
type GenerateResult struct {
	Success       bool          `json:"success"`
	JSONTemplate  EmailTemplate `json:"jsonTemplate"`
	HTML          string        `json:"html"`
	MJML          string        `json:"mjml"`
	TokensVersion string        `json:"tokensVersion"`
}

// ProgressEvent is one server-sent frame while a generation is running.
type ProgressEvent struct {
	Step     string `json:"step"`
	Agent    string `json:"agent,omitempty"`
	Message  string `json:"message,omitempty"`
	Progress int    `json:"progress"`
}

// ResultEvent carries the final result frame after the complete frame.
type ResultEvent struct {
	Step   string         `json:"step"`
	Result GenerateResult `json:"result"`
}

// HistoryExample is a past subject/preheader pair surfaced to clients for
// inspiration per template type.
type HistoryExample struct {
	Subject   string `json:"subject"`
	Preheader string `json:"preheader"`
}

// GenerationRecord is the document indexed per finished generation.
type GenerationRecord struct {
	RequestID      string       `json:"requestId"`
	TemplateType   TemplateType `json:"templateType"`
	Locale         string       `json:"locale"`
	Subject        string       `json:"subject"`
	Preheader      string       `json:"preheader"`
	Success        bool         `json:"success"`
	BlockCount     int          `json:"blockCount"`
	FallbackStages []string     `json:"fallbackStages,omitempty"`
	DurationMs     int64        `json:"durationMs"`
	CreatedAt      string       `json:"createdAt"`
}

// DeliveryReceipt records a handed-off email or notification.
type DeliveryReceipt struct {
	Channel   string `json:"channel"` // "ses" or "sns"
	Target    string `json:"target"`
	MessageID string `json:"messageId,omitempty"`
	SentAt    string `json:"sentAt"`
}
