// Package dedup collapses repeat items within one extraction run.
package dedup

import "github.com/hollis-dev/paydown/internal/model"

// Collapse drops items whose identity key (provider, installment number,
// due date) was already seen, keeping the first occurrence and preserving
// relative order. It returns the surviving items and the number removed.
// Running Collapse on its own output is a no-op.
func Collapse(items []model.Item) ([]model.Item, int) {
	seen := make(map[string]bool, len(items))
	kept := make([]model.Item, 0, len(items))

	for _, item := range items {
		key := item.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, item)
	}

	return kept, len(items) - len(kept)
}
