// internal/models/template.go
package models

import "encoding/json"

type BlockType string

const (
	BlockTypeHero            BlockType = "hero"
	BlockTypeItems           BlockType = "items"
	BlockTypeRecommendations BlockType = "recommendations"
	BlockTypeFooter          BlockType = "footer"
)

// Block is the single wire shape for all template blocks, discriminated by
// Type. Marshaling emits the full key set of the block's type so the JSON
// template always carries hero.imageUrl, footer.socialLinks and friends even
// when empty.
type Block struct {
	Type BlockType `json:"type"`

	// hero
	Headline string `json:"headline,omitempty"`
	Subcopy  string `json:"subcopy,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	CTALabel string `json:"ctaLabel,omitempty"`
	CTAURL   string `json:"ctaUrl,omitempty"`

	// items, recommendations
	Title string `json:"title,omitempty"`
	Items []Item `json:"items,omitempty"`

	// footer
	CompanyName    string       `json:"companyName,omitempty"`
	Address        string       `json:"address,omitempty"`
	UnsubscribeURL string       `json:"unsubscribeUrl,omitempty"`
	SocialLinks    []SocialLink `json:"socialLinks,omitempty"`
}

func (b Block) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"type": b.Type}

	switch b.Type {
	case BlockTypeHero:
		out["headline"] = b.Headline
		out["subcopy"] = b.Subcopy
		out["imageUrl"] = b.ImageURL
		out["ctaLabel"] = b.CTALabel
		out["ctaUrl"] = b.CTAURL
	case BlockTypeItems, BlockTypeRecommendations:
		items := b.Items
		if items == nil {
			items = []Item{}
		}
		out["title"] = b.Title
		out["items"] = items
	case BlockTypeFooter:
		links := b.SocialLinks
		if links == nil {
			links = []SocialLink{}
		}
		out["companyName"] = b.CompanyName
		out["address"] = b.Address
		out["unsubscribeUrl"] = b.UnsubscribeURL
		out["socialLinks"] = links
	}

	return json.Marshal(out)
}

type Item struct {
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Price       string `json:"price"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// EmailTemplate is the composed template JSON handed to the compiler and
// returned to clients. Fallback marks templates built by the degraded path.
type EmailTemplate struct {
	Subject      string       `json:"subject"`
	Preheader    string       `json:"preheader"`
	Locale       string       `json:"locale"`
	TemplateType TemplateType `json:"templateType"`
	Blocks       []Block      `json:"blocks"`
	Fallback     bool         `json:"fallback,omitempty"`
}

// ValidationReport summarizes a structural check of a composed template.
// Errors make the template invalid; warnings are advisory only.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Summary  string   `json:"summary"`
}
