// internal/mjml/compiler_test.go

package mjml

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailbuilder/internal/models"
	"emailbuilder/internal/tokens"
)

// ==========================
// Test Helpers
// ==========================

func heroBlock() models.Block {
	return models.Block{
		Type:     models.BlockTypeHero,
		Headline: "Still thinking it over?",
		Subcopy:  "Your cart is waiting",
		ImageURL: "https://cdn.example.com/hero.jpg",
		CTALabel: "Complete Purchase",
		CTAURL:   "https://shop.example.com/cart",
	}
}

func itemsBlock() models.Block {
	return models.Block{
		Type:  models.BlockTypeItems,
		Title: "Your Item",
		Items: []models.Item{
			{
				Name:        "Trail Backpack",
				SKU:         "SKU-1",
				Price:       "89.99",
				ImageURL:    "https://cdn.example.com/pack.jpg",
				Description: "Durable 40L pack",
			},
		},
	}
}

func footerBlock() models.Block {
	return models.Block{
		Type:           models.BlockTypeFooter,
		CompanyName:    "Acme Outdoor",
		Address:        "123 Main St, City, State 12345",
		UnsubscribeURL: "https://shop.example.com/unsubscribe",
		SocialLinks: []models.SocialLink{
			{Platform: "facebook", URL: "https://facebook.com/acme"},
			{Platform: "instagram", URL: ""},
		},
	}
}

func recommendationItems(n int) []models.Item {
	items := make([]models.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.Item{
			Name:     fmt.Sprintf("Pick %d", i+1),
			SKU:      fmt.Sprintf("REC-%d", i+1),
			Price:    "19.99",
			ImageURL: fmt.Sprintf("https://cdn.example.com/rec-%d.jpg", i+1),
		})
	}
	return items
}

// requireOrdered asserts each needle appears after the previous one.
func requireOrdered(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	last := -1
	for _, needle := range needles {
		idx := strings.Index(haystack, needle)
		require.GreaterOrEqual(t, idx, 0, "missing %q", needle)
		require.Greater(t, idx, last, "%q out of order", needle)
		last = idx
	}
}

// ==========================
// Head + Token Wiring Tests
// ==========================

func TestCompile_HeadCarriesTokenValues(t *testing.T) {
	toks := tokens.Defaults()
	toks.Colors.Primary = "#0f766e"
	toks.Fonts.Primary = "Georgia, serif"

	out := Compile(models.EmailTemplate{
		Subject:   "Your cart misses you",
		Preheader: "Come back for 10% off",
		Blocks:    []models.Block{heroBlock()},
	}, toks)

	assert.Contains(t, out, "<mj-title>Your cart misses you</mj-title>")
	assert.Contains(t, out, "<mj-preview>Come back for 10% off</mj-preview>")
	assert.Contains(t, out, `<mj-text font-family="Georgia, serif" font-size="16px" line-height="1.5" color="#1e293b" />`)
	assert.Contains(t, out, `<mj-section background-color="#f8fafc" padding="16px" />`)
	assert.Contains(t, out, ".cta-button { background-color: #0f766e; border-radius: 6px; }")
	assert.Contains(t, out, ".product-item { border: 1px solid #e2e8f0; border-radius: 8px; margin-bottom: 16px; }")
	assert.Contains(t, out, `<mj-body background-color="#f8fafc">`)
}

func TestCompile_EmptySubjectDefaults(t *testing.T) {
	out := Compile(models.EmailTemplate{}, tokens.Defaults())

	assert.Contains(t, out, "<mj-title>Email</mj-title>")
	assert.Contains(t, out, "<mj-preview></mj-preview>")
}

func TestCompile_Deterministic(t *testing.T) {
	tmpl := models.EmailTemplate{
		Subject: "Order confirmed",
		Blocks:  []models.Block{heroBlock(), itemsBlock(), footerBlock()},
	}

	first := Compile(tmpl, tokens.Defaults())
	second := Compile(tmpl, tokens.Defaults())

	assert.Equal(t, first, second)
}

// ==========================
// Hero Block Tests
// ==========================

func TestCompile_HeroSection(t *testing.T) {
	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks:  []models.Block{heroBlock()},
	}, tokens.Defaults())

	requireOrdered(t, out,
		`<mj-image src="https://cdn.example.com/hero.jpg" alt="Hero Image" width="600px" />`,
		`<mj-text css-class="hero-text" font-size="24px" font-weight="700" color="#1e293b" padding-top="24px">`,
		"Still thinking it over?",
		`<mj-text css-class="hero-text" color="#64748b" padding-top="8px">`,
		"Your cart is waiting",
		`<mj-button css-class="cta-button" href="https://shop.example.com/cart" background-color="#dc2626" color="white" padding-top="24px">`,
		"Complete Purchase",
	)
}

func TestCompile_HeroOmitsImageAndCTAWhenEmpty(t *testing.T) {
	block := heroBlock()
	block.ImageURL = ""
	block.CTALabel = ""

	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks:  []models.Block{block},
	}, tokens.Defaults())

	assert.NotContains(t, out, "<mj-image")
	assert.NotContains(t, out, "<mj-button")
	assert.Contains(t, out, "Still thinking it over?")
}

func TestCompile_HeroCTAURLDefaultsToHash(t *testing.T) {
	block := heroBlock()
	block.CTAURL = ""

	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks:  []models.Block{block},
	}, tokens.Defaults())

	assert.Contains(t, out, `href="#"`)
}

// ==========================
// Items Block Tests
// ==========================

func TestCompile_ItemsSection(t *testing.T) {
	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks:  []models.Block{itemsBlock()},
	}, tokens.Defaults())

	requireOrdered(t, out,
		"Your Item",
		`<mj-column width="30%">`,
		`<mj-image src="https://cdn.example.com/pack.jpg" alt="Trail Backpack" width="150px" />`,
		`<mj-column width="70%">`,
		"Trail Backpack",
		"$89.99",
		"Durable 40L pack",
		"SKU: SKU-1",
	)
}

func TestCompile_ItemsTitleDefaults(t *testing.T) {
	block := itemsBlock()
	block.Title = ""

	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks:  []models.Block{block},
	}, tokens.Defaults())

	assert.Contains(t, out, "Items")
}

func TestCompile_ItemsSkipImageWhenMissing(t *testing.T) {
	block := itemsBlock()
	block.Items[0].ImageURL = ""

	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks:  []models.Block{block},
	}, tokens.Defaults())

	assert.NotContains(t, out, "<mj-image")
	assert.Contains(t, out, "Trail Backpack")
}

// ==========================
// Recommendations Block Tests
// ==========================

func TestCompile_RecommendationsColumnWidth(t *testing.T) {
	tests := []struct {
		name  string
		count int
		width string
	}{
		{name: "single item spans the row", count: 1, width: `width="100%"`},
		{name: "two items split evenly", count: 2, width: `width="50%"`},
		{name: "three items pack a row", count: 3, width: `width="33%"`},
		{name: "overflow still rows of three", count: 5, width: `width="33%"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Compile(models.EmailTemplate{
				Subject: "Hi",
				Blocks: []models.Block{{
					Type:  models.BlockTypeRecommendations,
					Title: "You might also like",
					Items: recommendationItems(tc.count),
				}},
			}, tokens.Defaults())

			assert.Contains(t, out, tc.width)
			assert.Equal(t, tc.count, strings.Count(out, tc.width))
		})
	}
}

func TestCompile_RecommendationsAlwaysEmitImage(t *testing.T) {
	items := recommendationItems(1)
	items[0].ImageURL = ""

	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks: []models.Block{{
			Type:  models.BlockTypeRecommendations,
			Items: items,
		}},
	}, tokens.Defaults())

	assert.Contains(t, out, `<mj-image src="" alt="Pick 1" width="150px" />`)
	assert.Contains(t, out, "Recommendations")
	assert.Contains(t, out, "$19.99")
}

// ==========================
// Footer Block Tests
// ==========================

func TestCompile_FooterSection(t *testing.T) {
	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks:  []models.Block{footerBlock()},
	}, tokens.Defaults())

	requireOrdered(t, out,
		`<mj-section background-color="#64748b" padding="24px">`,
		"Acme Outdoor",
		"123 Main St, City, State 12345",
		`<mj-social mode="horizontal" align="center" icon-size="20px">`,
		`<mj-social-element name="facebook" href="https://facebook.com/acme"></mj-social-element>`,
		`<mj-social-element name="instagram" href="#"></mj-social-element>`,
		`<a href="https://shop.example.com/unsubscribe" style="color: white;">Unsubscribe</a>`,
	)
}

func TestCompile_FooterDefaults(t *testing.T) {
	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks:  []models.Block{{Type: models.BlockTypeFooter}},
	}, tokens.Defaults())

	assert.Contains(t, out, "Your Company")
	assert.Contains(t, out, `<a href="#" style="color: white;">Unsubscribe</a>`)
	assert.NotContains(t, out, "<mj-social ")
}

// ==========================
// Block Dispatch Tests
// ==========================

func TestCompile_BlockOrderPreserved(t *testing.T) {
	out := Compile(models.EmailTemplate{
		Subject: "Hi",
		Blocks: []models.Block{
			heroBlock(),
			itemsBlock(),
			{Type: models.BlockTypeRecommendations, Items: recommendationItems(2)},
			footerBlock(),
		},
	}, tokens.Defaults())

	requireOrdered(t, out,
		"Still thinking it over?",
		"Trail Backpack",
		"Pick 1",
		"Acme Outdoor",
	)
}

func TestCompile_UnknownBlockEmitsNothing(t *testing.T) {
	known := models.EmailTemplate{
		Subject: "Hi",
		Blocks:  []models.Block{heroBlock(), footerBlock()},
	}
	withUnknown := models.EmailTemplate{
		Subject: "Hi",
		Blocks: []models.Block{
			known.Blocks[0],
			{Type: models.BlockType("banner"), Title: "Surprise"},
			known.Blocks[1],
		},
	}

	assert.Equal(t, Compile(known, tokens.Defaults()), Compile(withUnknown, tokens.Defaults()))
}

// ==========================
// Meta Tag Tests
// ==========================

func TestAddMetaTags(t *testing.T) {
	html := "<!doctype html><html><head>\n<title>x</title></head><body></body></html>"

	out := AddMetaTags(html)

	requireOrdered(t, out,
		"<head>",
		`<meta charset="utf-8">`,
		`<meta name="viewport" content="width=device-width, initial-scale=1.0">`,
		`<meta http-equiv="X-UA-Compatible" content="IE=edge">`,
		`<meta name="color-scheme" content="light">`,
		`<meta name="supported-color-schemes" content="light">`,
		"<title>x</title>",
	)
	assert.True(t, strings.HasPrefix(out[strings.Index(out, "<head>")+6:], "\n    <meta charset"))
}

func TestAddMetaTags_NoHeadLeavesInputAlone(t *testing.T) {
	html := "<html><body>plain</body></html>"

	assert.Equal(t, html, AddMetaTags(html))
}

// ==========================
// Fallback Document Tests
// ==========================

func TestFallbackMJML(t *testing.T) {
	out := FallbackMJML(models.EmailTemplate{
		Subject:   "Order confirmed",
		Preheader: "We're preparing your items",
	})

	assert.Contains(t, out, "<mj-title>Order confirmed</mj-title>")
	assert.Contains(t, out, "<mj-preview>We're preparing your items</mj-preview>")
	assert.Contains(t, out, "Sorry, there was an issue rendering your email template.")
	assert.Contains(t, out, "View Online")
}

func TestFallbackMJML_EmptySubjectDefaults(t *testing.T) {
	out := FallbackMJML(models.EmailTemplate{})

	assert.Contains(t, out, "<mj-title>Email</mj-title>")
}

func TestFallbackHTML(t *testing.T) {
	out := FallbackHTML(models.EmailTemplate{
		Subject:   "Order confirmed",
		Preheader: "We're preparing your items",
	})

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Order confirmed</title>")
	assert.Contains(t, out, `<h1 style="color: #1e293b;">Order confirmed</h1>`)
	assert.Contains(t, out, "We're preparing your items")
	assert.Contains(t, out, "Sorry, there was an issue rendering your email template.")
	assert.Contains(t, out, "background-color: #dc2626")
	assert.Contains(t, out, "View Online")
}
