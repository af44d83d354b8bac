package pantry

import (
	"time"

	"fridge-planner/internal/api"
	"fridge-planner/internal/expiry"
)

// Uncategorized is the grouping bucket for items without a category.
const Uncategorized = "uncategorized"

// Item is a tracked ingredient in the fridge.
type Item struct {
	ID        int64
	Name      string
	Quantity  int
	ExpiresOn *time.Time // nil means no expiry tracked
	Category  string
}

// CategoryKey returns the grouping key for the item.
func (it Item) CategoryKey() string {
	if it.Category == "" {
		return Uncategorized
	}
	return it.Category
}

// NewItemInput is the local payload for adding an item.
type NewItemInput struct {
	Name      string
	Quantity  int
	ExpiresOn *time.Time
	Category  string
}

// Patch is a partial update. Quantity applies when non-nil; the expiry date
// applies only when SetExpiry is true, with a nil ExpiresOn clearing it.
type Patch struct {
	Quantity  *int
	ExpiresOn *time.Time
	SetExpiry bool
}

// Stats summarizes the authoritative collection. Recomputed wholesale on
// every load so it can never drift from the item list.
type Stats struct {
	Total    int
	Expiring int // due within the next 7 days
	Expired  int
}

// ComputeStats classifies every item against today and tallies the results.
func ComputeStats(items []Item, today time.Time) Stats {
	var s Stats
	for _, it := range items {
		s.Total++
		switch expiry.Classify(it.ExpiresOn, today) {
		case expiry.Expired:
			s.Expired++
		case expiry.DueToday, expiry.DueTomorrow, expiry.DueThisWeek:
			s.Expiring++
		}
	}
	return s
}

func itemFromWire(w api.PantryItem) Item {
	item := Item{
		ID:       w.ID,
		Name:     w.Name,
		Quantity: w.Quantity,
		Category: w.Category,
	}
	if w.ExpiresOn != nil {
		if d, err := expiry.ParseDate(*w.ExpiresOn); err == nil {
			item.ExpiresOn = &d
		}
	}
	return item
}

func wireNewItem(in NewItemInput) api.NewPantryItem {
	w := api.NewPantryItem{
		Name:     in.Name,
		Quantity: in.Quantity,
		Category: in.Category,
	}
	if in.ExpiresOn != nil {
		iso := expiry.FormatDate(*in.ExpiresOn)
		w.ExpiresOn = &iso
	}
	return w
}
