package search

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"mealseek/models"
	"mealseek/suggestions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []string
	recipes []models.Recipe
	err     error
	gate    chan struct{} // when set, Search blocks until closed
	entered chan struct{}
}

func (f *fakeFetcher) Search(ctx context.Context, ingredient string) ([]models.Recipe, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ingredient)
	f.mu.Unlock()
	if f.gate != nil {
		f.entered <- struct{}{}
		<-f.gate
	}
	return f.recipes, f.err
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeFavorites struct {
	items []models.Recipe
}

func (f *fakeFavorites) List() []models.Recipe { return f.items }

func (f *fakeFavorites) Contains(id string) bool {
	for _, r := range f.items {
		if r.ID == id {
			return true
		}
	}
	return false
}

type brokenMatcher struct{}

func (brokenMatcher) Match(context.Context, string) ([]string, error) {
	return nil, errors.New("redis down")
}

func newOrch(f Fetcher, favs *fakeFavorites) *Orchestrator {
	if favs == nil {
		favs = &fakeFavorites{}
	}
	m := suggestions.NewListMatcher([]string{"Tomato", "Potato", "Tofu"})
	return NewOrchestrator(f, favs, m, zap.NewNop())
}

func recipes(n int, area string) []models.Recipe {
	out := make([]models.Recipe, n)
	for i := range out {
		out[i] = models.Recipe{ID: strconv.Itoa(i + 1), Area: area, Category: "Beef"}
	}
	return out
}

func TestEmptyInputNeverFetches(t *testing.T) {
	f := &fakeFetcher{}
	o := newOrch(f, nil)
	o.Input(context.Background(), " \n \n", 0)

	v, err := o.Search(context.Background())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.Calls())
	assert.Equal(t, "validation", v.Error)
	assert.Equal(t, "Please enter at least one ingredient", v.Message)
	assert.Equal(t, "idle", v.Status)
}

func TestOnlyFirstIngredientIsSearched(t *testing.T) {
	f := &fakeFetcher{recipes: recipes(2, "British")}
	o := newOrch(f, nil)
	o.Input(context.Background(), "\n  beef  \nonion\ncarrots\n", 0)

	v, err := o.Search(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"beef"}, f.Calls())
	assert.Equal(t, []string{"beef", "onion", "carrots"}, v.Ingredients)
	assert.Equal(t, "success", v.Status)
	assert.Len(t, v.Results.Recipes, 2)
}

func TestEmptyResult(t *testing.T) {
	o := newOrch(&fakeFetcher{recipes: []models.Recipe{}}, nil)
	o.Input(context.Background(), "unobtainium", 0)

	v, err := o.Search(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "failed", v.Status)
	assert.Equal(t, "empty_result", v.Error)
	assert.Equal(t, "No recipes found with these ingredients. Try something else!", v.Message)
}

func TestFetchFailure(t *testing.T) {
	cause := errors.New("connection reset")
	o := newOrch(&fakeFetcher{err: cause}, nil)
	o.Input(context.Background(), "beef", 0)

	v, err := o.Search(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, "failed", v.Status)
	assert.Equal(t, "Failed to fetch recipes. Please try again later.", v.Message)
	assert.Empty(t, v.Results.Recipes)

	// the next attempt starts clean
	o.fetcher = &fakeFetcher{recipes: recipes(1, "British")}
	v, err = o.Search(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "success", v.Status)
	assert.Empty(t, v.Message)
}

func TestSecondSearchWhileLoadingIsRejected(t *testing.T) {
	f := &fakeFetcher{recipes: recipes(1, "British"), gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	o := newOrch(f, nil)
	o.Input(context.Background(), "beef", 0)

	done := make(chan error, 1)
	go func() {
		_, err := o.Search(context.Background())
		done <- err
	}()
	<-f.entered

	v, err := o.Search(context.Background())
	assert.ErrorIs(t, err, ErrSearchInFlight)
	assert.Equal(t, "loading", v.Status)

	close(f.gate)
	require.NoError(t, <-done)
	assert.Len(t, f.Calls(), 1)
	assert.Equal(t, Success, o.State().Status)
}

func TestWindowingThroughOrchestrator(t *testing.T) {
	o := newOrch(&fakeFetcher{recipes: recipes(10, "British")}, nil)
	o.Input(context.Background(), "beef", 0)
	_, err := o.Search(context.Background())
	require.NoError(t, err)

	v := o.View()
	assert.Len(t, v.Results.Recipes, 6)
	assert.True(t, v.Results.HasMore)

	v = o.ShowMore()
	assert.Equal(t, 10, v.Displayed)
	assert.Len(t, v.Results.Recipes, 10)
	assert.False(t, v.Results.HasMore)
}

func TestShowMoreUsesFilteredTotal(t *testing.T) {
	rs := append(recipes(8, "Thai"), recipes(3, "Italian")...)
	o := newOrch(&fakeFetcher{recipes: rs}, nil)
	o.Input(context.Background(), "beef", 0)
	_, err := o.Search(context.Background())
	require.NoError(t, err)

	f := models.NewFilters()
	f.Cuisine = "Thai"
	v := o.SetFilters(f)
	assert.Equal(t, 8, v.Results.Total)

	v = o.ShowMore()
	assert.Equal(t, 8, v.Displayed)
	assert.False(t, v.Results.HasMore)
}

func TestFavoritesOnlyView(t *testing.T) {
	favs := &fakeFavorites{items: []models.Recipe{{ID: "fav", Area: "Thai"}}}
	o := newOrch(&fakeFetcher{recipes: recipes(3, "British")}, favs)
	o.Input(context.Background(), "beef", 0)
	_, err := o.Search(context.Background())
	require.NoError(t, err)

	v := o.ToggleFavoritesOnly()
	require.Len(t, v.Results.Recipes, 1)
	assert.Equal(t, "fav", v.Results.Recipes[0].ID)
	assert.True(t, v.FavoriteIDs["fav"])

	r, ok := o.Recipe("fav")
	assert.True(t, ok)
	assert.Equal(t, "Thai", r.Area)
	_, ok = o.Recipe("2")
	assert.True(t, ok)
	_, ok = o.Recipe("nope")
	assert.False(t, ok)
}

func TestInputSuggestions(t *testing.T) {
	o := newOrch(&fakeFetcher{}, nil)

	v := o.Input(context.Background(), "beef\nTO", 7)
	assert.Equal(t, []string{"Tomato", "Tofu"}, v.Suggestions)
	assert.True(t, v.ShowSuggestions)

	v = o.DismissSuggestions()
	assert.False(t, v.ShowSuggestions)

	v = o.PickSuggestion("Tomato")
	assert.Equal(t, "beef\nTomato\n", v.Input)

	v = o.Input(context.Background(), "beef\n", 5)
	assert.Empty(t, v.Suggestions)
	assert.False(t, v.ShowSuggestions)
}

func TestMatcherFailureOnlyDropsSuggestions(t *testing.T) {
	o := NewOrchestrator(&fakeFetcher{}, &fakeFavorites{}, brokenMatcher{}, zap.NewNop())
	v := o.Input(context.Background(), "to", 2)
	assert.Equal(t, "to", v.Input)
	assert.False(t, v.ShowSuggestions)
}
