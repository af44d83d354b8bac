package pantry

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func testItems() []Item {
	return []Item{
		{ID: 1, Name: "Milk", Quantity: 1, ExpiresOn: day(2024, time.March, 14), Category: "dairy"},
		{ID: 2, Name: "Cheese", Quantity: 2, ExpiresOn: day(2024, time.March, 20), Category: "dairy"},
		{ID: 3, Name: "Chicken", Quantity: 3, ExpiresOn: day(2024, time.March, 16), Category: "meat"},
		{ID: 4, Name: "Rice", Quantity: 5, ExpiresOn: nil, Category: ""},
		{ID: 5, Name: "Old Yogurt", Quantity: 1, ExpiresOn: day(2024, time.March, 1), Category: "dairy"},
	}
}

func TestApply(t *testing.T) {
	today := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

	t.Run("DefaultShowsEverything", func(t *testing.T) {
		groups := Apply(testItems(), DefaultFilterState(), today)
		total := 0
		for _, g := range groups {
			total += len(g)
		}
		if total != 5 {
			t.Fatalf("Expected 5 items across groups, got %d", total)
		}
		if len(groups["dairy"]) != 3 {
			t.Errorf("Expected 3 dairy items, got %d", len(groups["dairy"]))
		}
		if len(groups[Uncategorized]) != 1 {
			t.Errorf("Expected 1 uncategorized item, got %d", len(groups[Uncategorized]))
		}
	})

	t.Run("BothTogglesOffYieldsEmpty", func(t *testing.T) {
		state := DefaultFilterState()
		state.ShowExpired = false
		state.ShowFresh = false
		groups := Apply(testItems(), state, today)
		if len(groups) != 0 {
			t.Errorf("Expected empty result, got %d groups", len(groups))
		}
	})

	t.Run("HideExpired", func(t *testing.T) {
		state := DefaultFilterState()
		state.ShowExpired = false
		groups := Apply(testItems(), state, today)
		for _, it := range groups["dairy"] {
			if it.Name == "Milk" || it.Name == "Old Yogurt" {
				t.Errorf("Expected expired item %q to be filtered out", it.Name)
			}
		}
		// Rice has no date and counts as fresh.
		if len(groups[Uncategorized]) != 1 {
			t.Errorf("Expected the no-date item to survive, got %d uncategorized", len(groups[Uncategorized]))
		}
	})

	t.Run("OnlyExpired", func(t *testing.T) {
		state := DefaultFilterState()
		state.ShowFresh = false
		groups := Apply(testItems(), state, today)
		if len(groups) != 1 || len(groups["dairy"]) != 2 {
			t.Fatalf("Expected only the 2 expired dairy items, got %v", groups)
		}
		if _, ok := groups[Uncategorized]; ok {
			t.Error("Expected the no-date item to be filtered out with fresh hidden")
		}
	})

	t.Run("SearchIsCaseInsensitiveSubstring", func(t *testing.T) {
		state := DefaultFilterState()
		state.Search = "  CHee "
		groups := Apply(testItems(), state, today)
		if len(groups) != 1 || len(groups["dairy"]) != 1 || groups["dairy"][0].Name != "Cheese" {
			t.Fatalf("Expected only Cheese, got %v", groups)
		}
	})

	t.Run("CategoryFilterDropsEmptyGroups", func(t *testing.T) {
		state := DefaultFilterState()
		state.Category = "meat"
		groups := Apply(testItems(), state, today)
		if len(groups) != 1 {
			t.Fatalf("Expected exactly 1 group, got %d", len(groups))
		}
		if len(groups["meat"]) != 1 || groups["meat"][0].Name != "Chicken" {
			t.Errorf("Expected only Chicken in meat, got %v", groups["meat"])
		}
	})

	t.Run("SortByExpiryAscendingNilLast", func(t *testing.T) {
		state := DefaultFilterState()
		state.SortBy = SortByExpiry
		items := []Item{
			{ID: 1, Name: "A", ExpiresOn: nil, Category: "misc"},
			{ID: 2, Name: "B", ExpiresOn: day(2024, time.March, 20), Category: "misc"},
			{ID: 3, Name: "C", ExpiresOn: day(2024, time.March, 1), Category: "misc"},
		}
		groups := Apply(items, state, today)
		got := groups["misc"]
		if got[0].ID != 3 || got[1].ID != 2 || got[2].ID != 1 {
			t.Errorf("Expected order C, B, A; got %v, %v, %v", got[0].Name, got[1].Name, got[2].Name)
		}
	})

	t.Run("SortByQuantityDescending", func(t *testing.T) {
		state := DefaultFilterState()
		state.SortBy = SortByQuantity
		groups := Apply(testItems(), state, today)
		dairy := groups["dairy"]
		for i := 1; i < len(dairy); i++ {
			if dairy[i-1].Quantity < dairy[i].Quantity {
				t.Errorf("Expected descending quantities, got %d before %d", dairy[i-1].Quantity, dairy[i].Quantity)
			}
		}
	})

	t.Run("SortByNameIgnoresCase", func(t *testing.T) {
		state := DefaultFilterState()
		items := []Item{
			{ID: 1, Name: "banana", Category: "misc"},
			{ID: 2, Name: "Apple", Category: "misc"},
			{ID: 3, Name: "cherry", Category: "misc"},
		}
		groups := Apply(items, state, today)
		got := groups["misc"]
		if got[0].Name != "Apple" || got[1].Name != "banana" || got[2].Name != "cherry" {
			t.Errorf("Expected Apple, banana, cherry; got %v, %v, %v", got[0].Name, got[1].Name, got[2].Name)
		}
	})
}

func TestCategories(t *testing.T) {
	groups := map[string][]Item{
		"meat":        {{ID: 1}},
		Uncategorized: {{ID: 2}},
		"dairy":       {{ID: 3}},
		"bakery":      {{ID: 4}},
	}

	got := Categories(groups)
	want := []string{"bakery", "dairy", "meat", Uncategorized}
	if len(got) != len(want) {
		t.Fatalf("Expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected '%s', got '%s'", i, want[i], got[i])
		}
	}

	if got := Categories(map[string][]Item{}); len(got) != 0 {
		t.Errorf("Expected no categories for an empty grouping, got %v", got)
	}
}

func TestComputeStats(t *testing.T) {
	today := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)
	stats := ComputeStats(testItems(), today)

	if stats.Total != 5 {
		t.Errorf("Expected total 5, got %d", stats.Total)
	}
	// Cheese (the 20th) and Chicken (the 16th) are due within 7 days.
	if stats.Expiring != 2 {
		t.Errorf("Expected 2 expiring, got %d", stats.Expiring)
	}
	// Milk (the 14th) and Old Yogurt (the 1st) are expired.
	if stats.Expired != 2 {
		t.Errorf("Expected 2 expired, got %d", stats.Expired)
	}
}
