// Package catalog holds menu browsing helpers that do not touch the cart.
package catalog

import (
	"encoding/json"
	"strings"

	"github.com/ikkim/tiffin-backend/internal/app/model"
)

// ParseTags reads the dietary-tags metafield, a JSON array of strings.
// Missing or malformed metadata gives no tags.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// FilterByTags keeps the items where some selected tag is a case-insensitive
// substring of some item tag. No selected tags means no filtering.
func FilterByTags(items []model.MenuItem, selected []string) []model.MenuItem {
	wanted := make([]string, 0, len(selected))
	for _, tag := range selected {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			wanted = append(wanted, tag)
		}
	}
	if len(wanted) == 0 {
		return items
	}

	out := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		if matchesAny(ParseTags(item.Tags), wanted) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAny(tags, wanted []string) bool {
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		for _, w := range wanted {
			if strings.Contains(tag, w) {
				return true
			}
		}
	}
	return false
}
