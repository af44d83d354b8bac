package favorites

import (
	"context"

	"fridge-planner/internal/api"
)

// Recipe is the denormalized favorite card kept in the collection.
type Recipe struct {
	RecipeID int64
	Name     string
	Image    string
	Calories float64
}

// client is the slice of the remote API the store needs.
type client interface {
	FetchFavorites(ctx context.Context) ([]api.FavoriteRecipe, error)
	ToggleFavorite(ctx context.Context, recipeID int64) error
}

// Store holds the user's favorite recipes. Toggling is optimistic: the local
// set is flipped first and rolled back to the previous snapshot if the remote
// call fails.
type Store struct {
	remote  client
	recipes []Recipe
}

// NewStore creates a favorites store backed by the given remote client.
func NewStore(remote client) *Store {
	return &Store{remote: remote}
}

// Load replaces the local set from the backend.
func (s *Store) Load(ctx context.Context) error {
	wire, err := s.remote.FetchFavorites(ctx)
	if err != nil {
		return err
	}
	recipes := make([]Recipe, 0, len(wire))
	for _, w := range wire {
		recipes = append(recipes, Recipe{
			RecipeID: w.RecipeID,
			Name:     w.Name,
			Image:    w.Image,
			Calories: float64(w.Calories),
		})
	}
	s.recipes = recipes
	return nil
}

// Recipes returns a copy of the favorite set.
func (s *Store) Recipes() []Recipe {
	out := make([]Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out
}

// IsFavorite reports whether the recipe is currently favorited.
func (s *Store) IsFavorite(recipeID int64) bool {
	for _, r := range s.recipes {
		if r.RecipeID == recipeID {
			return true
		}
	}
	return false
}

// Toggle flips the favorite flag for the recipe, applying the change locally
// before the remote call and restoring the previous snapshot on failure.
func (s *Store) Toggle(ctx context.Context, recipe Recipe) error {
	snapshot := s.recipes

	if s.IsFavorite(recipe.RecipeID) {
		kept := make([]Recipe, 0, len(s.recipes))
		for _, r := range s.recipes {
			if r.RecipeID != recipe.RecipeID {
				kept = append(kept, r)
			}
		}
		s.recipes = kept
	} else {
		s.recipes = append(append([]Recipe(nil), s.recipes...), recipe)
	}

	if err := s.remote.ToggleFavorite(ctx, recipe.RecipeID); err != nil {
		s.recipes = snapshot
		return err
	}
	return nil
}
