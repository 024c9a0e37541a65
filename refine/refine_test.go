package refine

import (
	"strconv"
	"testing"

	"mealseek/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func minutes(n int) *int { return &n }

func many(n int) []models.Recipe {
	out := make([]models.Recipe, n)
	for i := range out {
		out[i] = models.Recipe{ID: strconv.Itoa(i + 1), Category: "Dessert", Area: "British"}
	}
	return out
}

func TestCuisineFilter(t *testing.T) {
	in := []models.Recipe{{ID: "1", Area: "Italian"}, {ID: "2", Area: "Thai"}}
	f := models.NewFilters()
	f.Cuisine = "Italian"

	got := Filter(in, f)
	if diff := cmp.Diff([]models.Recipe{in[0]}, got); diff != "" {
		t.Fatalf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestCuisineIsExact(t *testing.T) {
	f := models.NewFilters()
	f.Cuisine = "Italian"
	assert.False(t, Keep(models.Recipe{Area: "italian"}, f))
}

func TestTimeFilter(t *testing.T) {
	f := models.NewFilters()
	f.MaxMinutes = 30

	assert.True(t, Keep(models.Recipe{PrepMinutes: minutes(30)}, f))
	assert.False(t, Keep(models.Recipe{PrepMinutes: minutes(31)}, f))
	assert.True(t, Keep(models.Recipe{}, f), "records without a time pass")
}

func TestDietaryFilters(t *testing.T) {
	vegan := models.NewFilters()
	vegan.Dietary[models.Vegan] = true
	assert.False(t, Keep(models.Recipe{Category: "Seafood"}, vegan))
	assert.False(t, Keep(models.Recipe{Category: "Meat"}, vegan))
	assert.True(t, Keep(models.Recipe{Category: "Dessert"}, vegan))

	veg := models.NewFilters()
	veg.Dietary[models.Vegetarian] = true
	assert.False(t, Keep(models.Recipe{Category: "MEAT pies"}, veg))
	assert.True(t, Keep(models.Recipe{Category: "Seafood"}, veg))

	noop := models.NewFilters()
	noop.Dietary[models.GlutenFree] = true
	noop.Dietary[models.DairyFree] = true
	assert.Len(t, Filter(many(4), noop), 4)
}

func TestFiltersCombine(t *testing.T) {
	in := []models.Recipe{
		{ID: "1", Area: "Italian", Category: "Pasta"},
		{ID: "2", Area: "Italian", Category: "Seafood"},
		{ID: "3", Area: "Thai", Category: "Vegetarian"},
	}
	f := models.NewFilters()
	f.Cuisine = "Italian"
	f.Dietary[models.Vegan] = true

	got := Filter(in, f)
	assert.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestWindowAndShowMore(t *testing.T) {
	all := many(10)

	p := Apply(Input{Recipes: all, Filters: models.NewFilters(), Displayed: PageSize})
	assert.Len(t, p.Recipes, 6)
	assert.True(t, p.HasMore)
	assert.Equal(t, 10, p.Total)

	cursor := Advance(PageSize, p.Total)
	assert.Equal(t, 10, cursor)

	p = Apply(Input{Recipes: all, Filters: models.NewFilters(), Displayed: cursor})
	assert.Len(t, p.Recipes, 10)
	assert.False(t, p.HasMore)
}

func TestAdvanceWithNothingMore(t *testing.T) {
	assert.Equal(t, 6, Advance(6, 4))
	assert.Equal(t, 6, Advance(6, 6))
	assert.Equal(t, 12, Advance(6, 20))
}

func TestFavoritesOnlySource(t *testing.T) {
	results := many(3)
	favs := []models.Recipe{{ID: "fav", Area: "Thai"}}

	p := Apply(Input{Recipes: results, Favorites: favs, FavoritesOnly: true, Filters: models.NewFilters(), Displayed: PageSize})
	assert.Equal(t, favs, p.Recipes)

	p = Apply(Input{Recipes: results, Favorites: favs, Filters: models.NewFilters(), Displayed: PageSize})
	assert.Len(t, p.Recipes, 3)
}

func TestWindowDoesNotAliasInput(t *testing.T) {
	all := many(3)
	p := Window(all, 6)
	p.Recipes[0].Name = "changed"
	assert.Empty(t, all[0].Name)
}

func TestEmptyInput(t *testing.T) {
	p := Apply(Input{Filters: models.NewFilters(), Displayed: PageSize})
	assert.NotNil(t, p.Recipes)
	assert.Empty(t, p.Recipes)
	assert.False(t, p.HasMore)
}
