// internal/assets/selector.go
package assets

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"emailbuilder/internal/models"
)

// Selector picks images from the stock pools without replacement. A fixed
// seed makes selection reproducible; seed 0 seeds from the clock.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSelector(seed int64) *Selector {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// Select returns up to count assets of the given type for a template type
// and category. Count is clamped to the pool size; the same image is never
// returned twice within one call.
func (s *Selector) Select(templateType models.TemplateType, category string, assetType models.AssetType, count int) []models.AssetReference {
	pool := poolFor(assetType, category)
	if count > len(pool) {
		count = len(pool)
	}
	if count <= 0 {
		return []models.AssetReference{}
	}

	s.mu.Lock()
	perm := s.rng.Perm(len(pool))
	s.mu.Unlock()

	selected := make([]models.AssetReference, 0, count)
	for i := 0; i < count; i++ {
		selected = append(selected, models.AssetReference{
			URL:          pool[perm[i]],
			Type:         assetType,
			Category:     category,
			TemplateType: string(templateType),
			AltText:      altText(assetType, templateType),
			Priority:     i + 1,
		})
	}
	return selected
}

func altText(assetType models.AssetType, templateType models.TemplateType) string {
	return fmt.Sprintf("%s image for %s email", titleCase(string(assetType)), templateType)
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
