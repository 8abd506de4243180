package tiffin

import (
	"slices"

	"github.com/ikkim/tiffin-backend/internal/app/model"
)

// Favorites is the hearted-dish set. It is independent of the cart lines.
type Favorites []model.FavoriteKey

func (f Favorites) Contains(key model.FavoriteKey) bool {
	return slices.Contains(f, key.Normalized())
}

// Toggle adds key when absent and removes it when present.
func (f Favorites) Toggle(key model.FavoriteKey) Favorites {
	key = key.Normalized()
	if i := slices.Index(f, key); i >= 0 {
		return slices.Delete(slices.Clone(f), i, i+1)
	}
	return append(slices.Clone(f), key)
}
