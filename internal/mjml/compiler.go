// internal/mjml/compiler.go

// Package mjml turns a composed email template into MJML markup. The
// emission is deterministic line by line: block order, attribute order and
// indentation never vary, so the same template and tokens always produce
// byte-identical output.
package mjml

import (
	"fmt"
	"strings"

	"emailbuilder/internal/models"
)

// Compile renders the template to MJML using the design token document.
func Compile(tmpl models.EmailTemplate, tokens models.DesignTokens) string {
	colors := tokens.Colors
	fonts := tokens.Fonts
	spacing := tokens.Spacing
	radius := tokens.Radius

	subject := tmpl.Subject
	if subject == "" {
		subject = "Email"
	}

	parts := []string{
		"<mjml>",
		"  <mj-head>",
		fmt.Sprintf("    <mj-title>%s</mj-title>", subject),
		fmt.Sprintf("    <mj-preview>%s</mj-preview>", tmpl.Preheader),
		"    <mj-attributes>",
		fmt.Sprintf(`      <mj-text font-family="%s" font-size="%s" line-height="%s" color="%s" />`,
			fonts.Primary, fonts.Body.Size, fonts.Body.LineHeight, colors.Text),
		fmt.Sprintf(`      <mj-section background-color="%s" padding="%s" />`,
			colors.Background, spacing.MD),
		"    </mj-attributes>",
		"    <mj-style>",
		"      .hero-text { text-align: center; }",
		fmt.Sprintf("      .product-item { border: 1px solid #e2e8f0; border-radius: %s; margin-bottom: %s; }",
			radius.Card, spacing.MD),
		fmt.Sprintf("      .cta-button { background-color: %s; border-radius: %s; }",
			colors.Primary, radius.Button),
		"    </mj-style>",
		"  </mj-head>",
		fmt.Sprintf(`  <mj-body background-color="%s">`, colors.Background),
	}

	for _, block := range tmpl.Blocks {
		parts = append(parts, renderBlock(block, tokens)...)
	}

	parts = append(parts,
		"  </mj-body>",
		"</mjml>",
	)

	return strings.Join(parts, "\n")
}

// renderBlock dispatches on block type; unknown types emit nothing.
func renderBlock(block models.Block, tokens models.DesignTokens) []string {
	switch block.Type {
	case models.BlockTypeHero:
		return renderHero(block, tokens)
	case models.BlockTypeItems:
		return renderItems(block, tokens)
	case models.BlockTypeRecommendations:
		return renderRecommendations(block, tokens)
	case models.BlockTypeFooter:
		return renderFooter(block, tokens)
	default:
		return nil
	}
}

func renderHero(block models.Block, tokens models.DesignTokens) []string {
	colors, fonts, spacing := tokens.Colors, tokens.Fonts, tokens.Spacing

	parts := []string{
		fmt.Sprintf(`    <mj-section background-color="%s" padding="%s">`, colors.Surface, spacing.XL),
		"      <mj-column>",
	}

	if block.ImageURL != "" {
		parts = append(parts, fmt.Sprintf(`        <mj-image src="%s" alt="Hero Image" width="600px" />`, block.ImageURL))
	}

	parts = append(parts,
		fmt.Sprintf(`        <mj-text css-class="hero-text" font-size="%s" font-weight="%s" color="%s" padding-top="%s">`,
			fonts.Heading.Size, fonts.Heading.Weight, colors.Text, spacing.LG),
		fmt.Sprintf("          %s", block.Headline),
		"        </mj-text>",
		fmt.Sprintf(`        <mj-text css-class="hero-text" color="%s" padding-top="%s">`,
			colors.TextSecondary, spacing.SM),
		fmt.Sprintf("          %s", block.Subcopy),
		"        </mj-text>",
	)

	if block.CTALabel != "" {
		ctaURL := block.CTAURL
		if ctaURL == "" {
			ctaURL = "#"
		}
		parts = append(parts,
			fmt.Sprintf(`        <mj-button css-class="cta-button" href="%s" background-color="%s" color="white" padding-top="%s">`,
				ctaURL, colors.Primary, spacing.LG),
			fmt.Sprintf("          %s", block.CTALabel),
			"        </mj-button>",
		)
	}

	parts = append(parts,
		"      </mj-column>",
		"    </mj-section>",
	)

	return parts
}

func renderItems(block models.Block, tokens models.DesignTokens) []string {
	colors, fonts, spacing := tokens.Colors, tokens.Fonts, tokens.Spacing

	title := block.Title
	if title == "" {
		title = "Items"
	}

	parts := []string{
		fmt.Sprintf(`    <mj-section background-color="%s" padding="%s">`, colors.Surface, spacing.LG),
		"      <mj-column>",
		fmt.Sprintf(`        <mj-text font-size="%s" font-weight="%s" color="%s" align="center">`,
			fonts.Heading.Size, fonts.Heading.Weight, colors.Text),
		fmt.Sprintf("          %s", title),
		"        </mj-text>",
		"      </mj-column>",
		"    </mj-section>",
	}

	for _, item := range block.Items {
		parts = append(parts,
			fmt.Sprintf(`    <mj-section background-color="%s" padding="%s">`, colors.Surface, spacing.MD),
			`      <mj-column width="30%">`,
		)

		if item.ImageURL != "" {
			parts = append(parts, fmt.Sprintf(`        <mj-image src="%s" alt="%s" width="150px" />`, item.ImageURL, item.Name))
		}

		parts = append(parts,
			"      </mj-column>",
			`      <mj-column width="70%">`,
			fmt.Sprintf(`        <mj-text font-weight="bold" color="%s">`, colors.Text),
			fmt.Sprintf("          %s", item.Name),
			"        </mj-text>",
			fmt.Sprintf(`        <mj-text color="%s" font-weight="bold">`, colors.Primary),
			fmt.Sprintf("          $%s", item.Price),
			"        </mj-text>",
			fmt.Sprintf(`        <mj-text color="%s" font-size="14px">`, colors.TextSecondary),
			fmt.Sprintf("          %s", item.Description),
			"        </mj-text>",
			fmt.Sprintf(`        <mj-text color="%s" font-size="12px">`, colors.TextSecondary),
			fmt.Sprintf("          SKU: %s", item.SKU),
			"        </mj-text>",
			"      </mj-column>",
			"    </mj-section>",
		)
	}

	return parts
}

func renderRecommendations(block models.Block, tokens models.DesignTokens) []string {
	colors, fonts, spacing := tokens.Colors, tokens.Fonts, tokens.Spacing

	title := block.Title
	if title == "" {
		title = "Recommendations"
	}

	parts := []string{
		fmt.Sprintf(`    <mj-section background-color="%s" padding="%s">`, colors.Surface, spacing.LG),
		"      <mj-column>",
		fmt.Sprintf(`        <mj-text font-size="%s" font-weight="%s" color="%s" align="center">`,
			fonts.Heading.Size, fonts.Heading.Weight, colors.Text),
		fmt.Sprintf("          %s", title),
		"        </mj-text>",
		"      </mj-column>",
		"    </mj-section>",
		fmt.Sprintf(`    <mj-section background-color="%s" padding="%s">`, colors.Surface, spacing.MD),
	}

	// Up to three recommendations share a row.
	columnWidth := "100%"
	if n := len(block.Items); n > 0 {
		perRow := n
		if perRow > 3 {
			perRow = 3
		}
		columnWidth = fmt.Sprintf("%d%%", 100/perRow)
	}

	for _, item := range block.Items {
		parts = append(parts,
			fmt.Sprintf(`      <mj-column width="%s">`, columnWidth),
			fmt.Sprintf(`        <mj-image src="%s" alt="%s" width="150px" />`, item.ImageURL, item.Name),
			fmt.Sprintf(`        <mj-text font-weight="bold" color="%s" align="center">`, colors.Text),
			fmt.Sprintf("          %s", item.Name),
			"        </mj-text>",
			fmt.Sprintf(`        <mj-text color="%s" font-weight="bold" align="center">`, colors.Primary),
			fmt.Sprintf("          $%s", item.Price),
			"        </mj-text>",
			"      </mj-column>",
		)
	}

	parts = append(parts, "    </mj-section>")
	return parts
}

func renderFooter(block models.Block, tokens models.DesignTokens) []string {
	colors, spacing := tokens.Colors, tokens.Spacing

	companyName := block.CompanyName
	if companyName == "" {
		companyName = "Your Company"
	}
	unsubscribeURL := block.UnsubscribeURL
	if unsubscribeURL == "" {
		unsubscribeURL = "#"
	}

	parts := []string{
		fmt.Sprintf(`    <mj-section background-color="%s" padding="%s">`, colors.Secondary, spacing.LG),
		"      <mj-column>",
		`        <mj-text color="white" align="center" font-size="16px" font-weight="bold">`,
		fmt.Sprintf("          %s", companyName),
		"        </mj-text>",
		`        <mj-text color="white" align="center" font-size="14px">`,
		fmt.Sprintf("          %s", block.Address),
		"        </mj-text>",
	}

	if len(block.SocialLinks) > 0 {
		parts = append(parts, `        <mj-social mode="horizontal" align="center" icon-size="20px">`)
		for _, link := range block.SocialLinks {
			url := link.URL
			if url == "" {
				url = "#"
			}
			parts = append(parts, fmt.Sprintf(`          <mj-social-element name="%s" href="%s"></mj-social-element>`, link.Platform, url))
		}
		parts = append(parts, "        </mj-social>")
	}

	parts = append(parts,
		fmt.Sprintf(`        <mj-text color="white" align="center" font-size="12px" padding-top="%s">`, spacing.MD),
		fmt.Sprintf(`          <a href="%s" style="color: white;">Unsubscribe</a>`, unsubscribeURL),
		"        </mj-text>",
		"      </mj-column>",
		"    </mj-section>",
	)

	return parts
}

// AddMetaTags inserts email-client meta tags right after the opening <head>.
func AddMetaTags(html string) string {
	metaTags := []string{
		`<meta charset="utf-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1.0">`,
		`<meta http-equiv="X-UA-Compatible" content="IE=edge">`,
		`<meta name="color-scheme" content="light">`,
		`<meta name="supported-color-schemes" content="light">`,
	}

	idx := strings.Index(html, "<head>")
	if idx < 0 {
		return html
	}
	pos := idx + len("<head>")

	return html[:pos] + "\n    " + strings.Join(metaTags, "\n    ") + html[pos:]
}

// FallbackMJML is the minimal document used when compilation cannot run.
func FallbackMJML(tmpl models.EmailTemplate) string {
	subject := tmpl.Subject
	if subject == "" {
		subject = "Email"
	}

	return fmt.Sprintf(`<mjml>
  <mj-head>
    <mj-title>%s</mj-title>
    <mj-preview>%s</mj-preview>
  </mj-head>
  <mj-body>
    <mj-section>
      <mj-column>
        <mj-text font-size="24px" font-weight="bold">Email Content</mj-text>
        <mj-text>Sorry, there was an issue rendering your email template.</mj-text>
        <mj-button href="#">View Online</mj-button>
      </mj-column>
    </mj-section>
  </mj-body>
</mjml>`, subject, tmpl.Preheader)
}

// FallbackHTML is the static document returned when the renderer is
// unreachable. It carries the subject and preheader verbatim so the email
// still identifies itself.
func FallbackHTML(tmpl models.EmailTemplate) string {
	subject := tmpl.Subject
	if subject == "" {
		subject = "Email"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f8fafc;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px;">
        <h1 style="color: #1e293b;">%s</h1>
        <p style="color: #64748b;">%s</p>
        <p style="color: #64748b;">Sorry, there was an issue rendering your email template.</p>
        <a href="#" style="display: inline-block; background-color: #dc2626; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">View Online</a>
    </div>
</body>
</html>`, subject, subject, tmpl.Preheader)
}
