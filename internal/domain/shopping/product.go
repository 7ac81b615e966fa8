// Package shopping contains the grocery product and shopping list domain model
package shopping

// Product is a grocery API product record. The upstream payload carries more
// attributes than these; only the fields the system displays or filters on are
// modeled, the rest is dropped on decode.
type Product struct {
	ProductID   string        `json:"productId,omitempty"`
	UPC         string        `json:"upc,omitempty"`
	Description string        `json:"description"`
	Brand       string        `json:"brand,omitempty"`
	Categories  []string      `json:"categories,omitempty"`
	Items       []ProductItem `json:"items,omitempty"`
}

// ProductItem is a sellable variant of a product (size, price)
type ProductItem struct {
	ItemID string `json:"itemId,omitempty"`
	Size   string `json:"size,omitempty"`
	Price  *Price `json:"price,omitempty"`
}

// Price holds the regular and promotional prices for a product item
type Price struct {
	Regular float64 `json:"regular"`
	Promo   float64 `json:"promo,omitempty"`
}

// ListEntry is one shopping list line. Exactly one entry exists per flattened
// meal plan ingredient; Product is nil when no match was found or the search
// failed, with Message or Error explaining why. Product serializes as an
// explicit null in that case, which the UI relies on.
type ListEntry struct {
	Ingredient string   `json:"ingredient"`
	Product    *Product `json:"product"`
	Message    string   `json:"message,omitempty"`
	Error      string   `json:"error,omitempty"`
}
