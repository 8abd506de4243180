package model

// FavoriteKey identifies a hearted dish for a given day and category.
type FavoriteKey struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Category  string `json:"category"` // upper-cased
	Day       string `json:"day"`
}

func (k FavoriteKey) Normalized() FavoriteKey {
	k.Category = NormalizeCategory(k.Category)
	return k
}
