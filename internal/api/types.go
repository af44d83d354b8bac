package api

import (
	"strconv"
	"strings"
)

// PantryItem is the wire shape of a pantry record.
type PantryItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"ingredientName"`
	Quantity  int     `json:"quantity"`
	ExpiresOn *string `json:"expiresOn"` // YYYY-MM-DD or null
	Category  string  `json:"category,omitempty"`
}

// NewPantryItem is the create payload for POST /pantry.
type NewPantryItem struct {
	Name      string  `json:"ingredientName"`
	Quantity  int     `json:"quantity"`
	ExpiresOn *string `json:"expiresOn"`
	Category  string  `json:"category,omitempty"`
}

// Suggestion is one autocomplete candidate from the ingredient search.
type Suggestion struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PlanEntry is the wire shape of a meal plan slot.
type PlanEntry struct {
	ID       int64  `json:"id"`
	RecipeID int64  `json:"recipeId"`
	Date     string `json:"date"` // YYYY-MM-DD
	MealType string `json:"mealType"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Calories Number `json:"calories"`
	Protein  Number `json:"protein"`
	Carbs    Number `json:"carbs"`
}

// NewPlanEntry is the create payload for POST /plan. The recipe display
// fields are a denormalized snapshot captured at assignment time.
type NewPlanEntry struct {
	RecipeID int64   `json:"recipeId"`
	Date     string  `json:"date"`
	MealType string  `json:"mealType"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
}

// FavoriteRecipe is the wire shape of a favorited recipe card.
type FavoriteRecipe struct {
	RecipeID int64  `json:"recipe_id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Calories Number `json:"calories"`
}

// Number decodes nutrition fields that the backend serves inconsistently:
// sometimes a JSON number, sometimes a numeric string, sometimes null.
// Anything non-numeric coerces to zero instead of failing the decode.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}
