// internal/assets/pools.go
package assets

import "emailbuilder/internal/models"

// Curated stock pools keyed by category. Hero images are wide banners,
// grid images are mid-size tiles, product placeholders are square.
var heroPools = map[string][]string{
	"outdoor": {
		"https://images.unsplash.com/photo-1551524164-6cf96ac925fb?w=600&h=300&fit=crop&q=80",
		"https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=600&h=300&fit=crop&q=80",
		"https://images.unsplash.com/photo-1504280390367-361c6d9f38f4?w=600&h=300&fit=crop&q=80",
		"https://images.unsplash.com/photo-1537225228614-56cc3556d7ed?w=600&h=300&fit=crop&q=80",
	},
	"fashion": {
		"https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=600&h=300&fit=crop&q=80",
		"https://images.unsplash.com/photo-1483985988355-763728e1935b?w=600&h=300&fit=crop&q=80",
		"https://images.unsplash.com/photo-1558769132-cb1aea458c5e?w=600&h=300&fit=crop&q=80",
	},
	"general": {
		"https://images.unsplash.com/photo-1556742049-0cfed4f6a45d?w=600&h=300&fit=crop&q=80",
		"https://images.unsplash.com/photo-1549298916-b41d501d3772?w=600&h=300&fit=crop&q=80",
		"https://images.unsplash.com/photo-1487014679447-9f8336841d58?w=600&h=300&fit=crop&q=80",
	},
}

var gridPools = map[string][]string{
	"outdoor": {
		"https://images.unsplash.com/photo-1544966503-7cc5ac882d5f?w=300&h=200&fit=crop&q=80",
		"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=300&h=200&fit=crop&q=80",
		"https://images.unsplash.com/photo-1586350977771-b3b0abd50c82?w=300&h=200&fit=crop&q=80",
	},
	"fashion": {
		"https://images.unsplash.com/photo-1434389677669-e08b4cac3105?w=300&h=200&fit=crop&q=80",
		"https://images.unsplash.com/photo-1467043237213-65f2da53396f?w=300&h=200&fit=crop&q=80",
		"https://images.unsplash.com/photo-1490481651871-ab68de25d43d?w=300&h=200&fit=crop&q=80",
	},
	"general": {
		"https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=300&h=200&fit=crop&q=80",
		"https://images.unsplash.com/photo-1556228453-efd6c1ff04f6?w=300&h=200&fit=crop&q=80",
		"https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=300&h=200&fit=crop&q=80",
	},
}

var productPlaceholders = []string{
	"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=200&h=200&fit=crop&q=80",
	"https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=200&h=200&fit=crop&q=80",
	"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=200&h=200&fit=crop&q=80",
	"https://images.unsplash.com/photo-1524504388940-b1c1722653e1?w=200&h=200&fit=crop&q=80",
}

// poolFor resolves the pool for an asset type and category. Unknown
// categories use the general pool; unknown asset types use the hero pool,
// and the product type ignores category entirely.
func poolFor(assetType models.AssetType, category string) []string {
	if assetType == models.AssetTypeProduct {
		return productPlaceholders
	}

	pools := heroPools
	if assetType == models.AssetTypeGrid {
		pools = gridPools
	}

	if pool, ok := pools[category]; ok {
		return pool
	}
	return pools["general"]
}

// Categories lists the categories with dedicated hero and grid pools.
func Categories() []string {
	return []string{"outdoor", "fashion", "general"}
}
