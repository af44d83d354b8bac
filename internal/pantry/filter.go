package pantry

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"fridge-planner/internal/expiry"
)

// SortBy selects the within-group ordering of filtered items.
type SortBy string

const (
	SortByName     SortBy = "name"
	SortByExpiry   SortBy = "expiry"
	SortByQuantity SortBy = "quantity"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// FilterState is the full set of user-controlled inventory filters.
type FilterState struct {
	Search      string
	Category    string // CategoryAll or a category key
	SortBy      SortBy
	ShowExpired bool
	ShowFresh   bool
}

// DefaultFilterState shows everything, sorted by name.
func DefaultFilterState() FilterState {
	return FilterState{
		Category:    CategoryAll,
		SortBy:      SortByName,
		ShowExpired: true,
		ShowFresh:   true,
	}
}

// Apply runs the filter pipeline over items and groups the survivors by
// category. The steps run in a fixed order: search substring, category,
// freshness, within-group sort. Groups left empty never appear in the result.
// With both ShowExpired and ShowFresh off the result is empty, not an error.
func Apply(items []Item, state FilterState, today time.Time) map[string][]Item {
	search := strings.ToLower(strings.TrimSpace(state.Search))

	kept := make([]Item, 0, len(items))
	for _, it := range items {
		if search != "" && !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		if state.Category != "" && state.Category != CategoryAll &&
			!strings.EqualFold(it.CategoryKey(), state.Category) {
			continue
		}
		if expiry.Classify(it.ExpiresOn, today) == expiry.Expired {
			if !state.ShowExpired {
				continue
			}
		} else if !state.ShowFresh {
			continue
		}
		kept = append(kept, it)
	}

	groups := make(map[string][]Item)
	for _, it := range kept {
		key := it.CategoryKey()
		groups[key] = append(groups[key], it)
	}
	for key := range groups {
		sortGroup(groups[key], state.SortBy)
	}
	return groups
}

// Categories returns the group keys in stable display order: alphabetical,
// with the uncategorized bucket last. Map iteration order must never leak
// into rendered output.
func Categories(groups map[string][]Item) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		if key != Uncategorized {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if _, ok := groups[Uncategorized]; ok {
		keys = append(keys, Uncategorized)
	}
	return keys
}

func sortGroup(items []Item, by SortBy) {
	switch by {
	case SortByExpiry:
		// Ascending by date; items without a date go last.
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].ExpiresOn, items[j].ExpiresOn
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case SortByQuantity:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Quantity > items[j].Quantity
		})
	default:
		c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			return c.CompareString(items[i].Name, items[j].Name) < 0
		})
	}
}
