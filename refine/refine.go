// Package refine applies the user's filters to a recipe set and exposes a
// growing window over the result.
package refine

import (
	"strings"

	"mealseek/models"
)

// PageSize is both the initial window and the "show more" step.
const PageSize = 6

type Input struct {
	Recipes       []models.Recipe
	Favorites     []models.Recipe
	FavoritesOnly bool
	Filters       models.Filters
	Displayed     int
}

type Page struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int             `json:"total"`
	HasMore bool            `json:"hasMore"`
}

// Apply selects the source, filters it and returns the first Displayed records.
func Apply(in Input) Page {
	src := in.Recipes
	if in.FavoritesOnly {
		src = in.Favorites
	}
	return Window(Filter(src, in.Filters), in.Displayed)
}

// Filter keeps the records that pass every active constraint, in order.
func Filter(recipes []models.Recipe, f models.Filters) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if Keep(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// Keep reports whether r passes f. Records without a preparation time pass
// the time filter. Gluten-free and dairy-free have no rule yet.
func Keep(r models.Recipe, f models.Filters) bool {
	if f.Cuisine != "" && r.Area != f.Cuisine {
		return false
	}
	if f.MaxMinutes > 0 && r.PrepMinutes != nil && *r.PrepMinutes > f.MaxMinutes {
		return false
	}

	category := strings.ToLower(r.Category)
	if f.Dietary[models.Vegetarian] && strings.Contains(category, "meat") {
		return false
	}
	if f.Dietary[models.Vegan] && (strings.Contains(category, "meat") || strings.Contains(category, "seafood")) {
		return false
	}
	return true
}

func Window(filtered []models.Recipe, n int) Page {
	if n < 0 {
		n = 0
	}
	shown := filtered
	if len(shown) > n {
		shown = shown[:n]
	}
	return Page{
		Recipes: append([]models.Recipe{}, shown...),
		Total:   len(filtered),
		HasMore: len(filtered) > n,
	}
}

// Advance moves the cursor one page forward, capped at total. A cursor that
// already covers total is returned unchanged.
func Advance(cursor, total int) int {
	if total <= cursor {
		return cursor
	}
	return min(cursor+PageSize, total)
}
