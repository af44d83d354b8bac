package plan

import (
	"fmt"
	"strings"

	"fridge-planner/internal/api"
)

// MealType identifies one of the fixed daily meal slots.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes lists the valid slots in display order.
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// ParseMealType maps user input onto a meal type.
func ParseMealType(s string) (MealType, error) {
	switch MealType(strings.ToLower(strings.TrimSpace(s))) {
	case Breakfast:
		return Breakfast, nil
	case Lunch:
		return Lunch, nil
	case Dinner:
		return Dinner, nil
	default:
		return "", fmt.Errorf("unknown meal type %q", s)
	}
}

// RecipeSnapshot carries the denormalized display fields captured when a
// recipe is assigned to a slot. Later edits to the recipe do not change
// entries already planned with it.
type RecipeSnapshot struct {
	RecipeID int64
	Name     string
	Image    string
	Calories float64
	Protein  float64
	Carbs    float64
}

// Entry is one occupied (date, meal type) slot in the plan.
type Entry struct {
	ID       int64
	Date     string // YYYY-MM-DD join key against calendar days
	MealType MealType
	Recipe   RecipeSnapshot
}

func entryFromWire(w api.PlanEntry) Entry {
	return Entry{
		ID:       w.ID,
		Date:     w.Date,
		MealType: MealType(strings.ToLower(w.MealType)),
		Recipe: RecipeSnapshot{
			RecipeID: w.RecipeID,
			Name:     w.Name,
			Image:    w.Image,
			Calories: float64(w.Calories),
			Protein:  float64(w.Protein),
			Carbs:    float64(w.Carbs),
		},
	}
}

// Totals is the week-level nutrition aggregate.
type Totals struct {
	TotalMeals int
	Calories   float64
	Protein    float64
	Carbs      float64
}

// WeeklyTotals sums the nutrition snapshots across entries. Fields that
// arrived malformed have already been coerced to zero at decode time, so the
// reduction itself never fails.
func WeeklyTotals(entries []Entry) Totals {
	var t Totals
	for _, e := range entries {
		t.TotalMeals++
		t.Calories += e.Recipe.Calories
		t.Protein += e.Recipe.Protein
		t.Carbs += e.Recipe.Carbs
	}
	return t
}
