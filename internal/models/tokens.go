// internal/models/tokens.go
package models

// DesignTokens is the per-template-type styling contract consumed by the
// MJML compiler. Field spellings match the token JSON files on disk.
type DesignTokens struct {
	Version string       `json:"version"`
	Colors  TokenColors  `json:"colors"`
	Fonts   TokenFonts   `json:"fonts"`
	Spacing TokenSpacing `json:"spacing"`
	Radius  TokenRadius  `json:"radius"`
}

type TokenColors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Surface       string `json:"surface"`
	Background    string `json:"background"`
	Text          string `json:"text"`
	TextSecondary string `json:"textSecondary"`
}

type TokenFonts struct {
	Primary string    `json:"primary"`
	Heading FontScale `json:"heading"`
	Body    FontScale `json:"body"`
}

type FontScale struct {
	Size       string `json:"size"`
	Weight     string `json:"weight"`
	LineHeight string `json:"lineHeight"`
}

type TokenSpacing struct {
	XS string `json:"xs"`
	SM string `json:"sm"`
	MD string `json:"md"`
	LG string `json:"lg"`
	XL string `json:"xl"`
}

type TokenRadius struct {
	Card   string `json:"card"`
	Button string `json:"button"`
}
