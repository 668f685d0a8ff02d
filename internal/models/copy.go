// internal/models/copy.go
package models

// EmailCopy is the copywriting stage output. CTASecondary, BodyText and
// FooterText are optional and stay empty unless the generator produced them.
type EmailCopy struct {
	Subject      string            `json:"subject"`
	Preheader    string            `json:"preheader"`
	Headline     string            `json:"headline"`
	Subcopy      string            `json:"subcopy"`
	CTAPrimary   string            `json:"ctaPrimary"`
	CTASecondary string            `json:"ctaSecondary,omitempty"`
	BodyText     string            `json:"bodyText,omitempty"`
	FooterText   string            `json:"footerText,omitempty"`
	Microcopy    map[string]string `json:"microcopy,omitempty"`
	Fallback     bool              `json:"fallback,omitempty"`
}

// CopyContext frames a generation request for one template type: how urgent
// the message should feel and what it is trying to achieve.
type CopyContext struct {
	UrgencyLevel  string `json:"urgencyLevel"`
	PrimaryGoal   string `json:"primaryGoal"`
	EmotionalTone string `json:"emotionalTone"`
	KeyMessage    string `json:"keyMessage"`
}
