package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mealseek/models"
	"mealseek/refine"
	"mealseek/suggestions"

	"go.uber.org/zap"
)

var (
	ErrValidation     = errors.New("search: no ingredients entered")
	ErrSearchInFlight = errors.New("search: a search is already running")
	ErrFetchFailed    = errors.New("search: fetch failed")
)

// Fetcher resolves a single ingredient into detailed recipes.
type Fetcher interface {
	Search(ctx context.Context, ingredient string) ([]models.Recipe, error)
}

// Favorites is the read side of the favorites store.
type Favorites interface {
	List() []models.Recipe
	Contains(id string) bool
}

// View is the rendered form of a session: its state plus the refined window.
type View struct {
	Status          string          `json:"status"`
	Input           string          `json:"input"`
	Ingredients     []string        `json:"ingredients"`
	Error           string          `json:"error,omitempty"`
	Message         string          `json:"message,omitempty"`
	Filters         models.Filters  `json:"filters"`
	FavoritesOnly   bool            `json:"favoritesOnly"`
	Suggestions     []string        `json:"suggestions"`
	ShowSuggestions bool            `json:"showSuggestions"`
	Displayed       int             `json:"displayed"`
	Results         refine.Page     `json:"results"`
	FavoriteIDs     map[string]bool `json:"favoriteIds"`
}

// Orchestrator owns one session. Only one search runs at a time; a second
// attempt while Loading is rejected rather than racing the first.
type Orchestrator struct {
	mu        sync.Mutex
	state     State
	fetcher   Fetcher
	favorites Favorites
	matcher   suggestions.Matcher
	log       *zap.Logger
}

func NewOrchestrator(fetcher Fetcher, favorites Favorites, matcher suggestions.Matcher, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		state:     NewState(),
		fetcher:   fetcher,
		favorites: favorites,
		matcher:   matcher,
		log:       log,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.viewLocked()
}

func (o *Orchestrator) dispatch(a Action) View {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = Reduce(o.state, a)
	return o.viewLocked()
}

// Input records new ingredient text and recomputes suggestions for the line
// under the cursor. A failing matcher only costs the suggestions.
func (o *Orchestrator) Input(ctx context.Context, text string, cursor int) View {
	var matches []string
	if prefix := suggestions.CurrentLine(text, cursor); prefix != "" {
		var err error
		matches, err = o.matcher.Match(ctx, prefix)
		if err != nil {
			o.log.Warn("suggestion lookup failed", zap.String("prefix", prefix), zap.Error(err))
			matches = nil
		}
	}
	return o.dispatch(InputChanged{Text: text, Cursor: cursor, Suggestions: matches})
}

func (o *Orchestrator) PickSuggestion(name string) View {
	return o.dispatch(SuggestionPicked{Name: name})
}

func (o *Orchestrator) DismissSuggestions() View {
	return o.dispatch(OutsideClicked{})
}

func (o *Orchestrator) SetFilters(f models.Filters) View {
	return o.dispatch(FiltersChanged{Filters: f})
}

func (o *Orchestrator) ToggleFavoritesOnly() View {
	return o.dispatch(FavoritesOnlyToggled{})
}

func (o *Orchestrator) ShowMore() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	total := o.filteredLocked().Total
	o.state = Reduce(o.state, ShowMore{Total: total})
	return o.viewLocked()
}

// Search runs the fetch pipeline for the first parsed ingredient. It returns
// ErrValidation without touching the network when no ingredient is entered,
// ErrSearchInFlight while another search runs, and an error wrapping
// ErrFetchFailed when the pipeline fails. An empty result is not an error.
func (o *Orchestrator) Search(ctx context.Context) (View, error) {
	o.mu.Lock()
	if o.state.Status == Loading {
		v := o.viewLocked()
		o.mu.Unlock()
		return v, ErrSearchInFlight
	}
	ingredients := suggestions.ParseIngredients(o.state.Input)
	if len(ingredients) == 0 {
		o.state = Reduce(o.state, SearchRejected{})
		v := o.viewLocked()
		o.mu.Unlock()
		return v, ErrValidation
	}
	o.state = Reduce(o.state, SearchStarted{Ingredients: ingredients})
	o.mu.Unlock()

	// The remote filter supports a single ingredient.
	ingredient := ingredients[0]
	o.log.Info("searching recipes", zap.String("ingredient", ingredient), zap.Int("entered", len(ingredients)))

	recipes, err := o.fetcher.Search(ctx, ingredient)
	if err != nil {
		o.log.Error("recipe fetch failed", zap.String("ingredient", ingredient), zap.Error(err))
		return o.dispatch(SearchFailed{}), fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	v := o.dispatch(SearchSucceeded{Recipes: recipes})
	o.log.Info("search finished", zap.String("ingredient", ingredient), zap.Int("recipes", len(recipes)))
	return v, nil
}

// Recipe finds id among the current results, then among the favorites.
func (o *Orchestrator) Recipe(id string) (models.Recipe, bool) {
	o.mu.Lock()
	recipes := o.state.Recipes
	o.mu.Unlock()

	for _, r := range recipes {
		if r.ID == id {
			return r, true
		}
	}
	for _, r := range o.favorites.List() {
		if r.ID == id {
			return r, true
		}
	}
	return models.Recipe{}, false
}

func (o *Orchestrator) filteredLocked() refine.Page {
	return refine.Apply(refine.Input{
		Recipes:       o.state.Recipes,
		Favorites:     o.favorites.List(),
		FavoritesOnly: o.state.FavoritesOnly,
		Filters:       o.state.Filters,
		Displayed:     o.state.Displayed,
	})
}

func (o *Orchestrator) viewLocked() View {
	s := o.state
	page := o.filteredLocked()

	favs := make(map[string]bool, len(page.Recipes))
	for _, r := range page.Recipes {
		if o.favorites.Contains(r.ID) {
			favs[r.ID] = true
		}
	}

	return View{
		Status:          s.Status.String(),
		Input:           s.Input,
		Ingredients:     s.Ingredients,
		Error:           s.Error.String(),
		Message:         s.Error.Message(),
		Filters:         s.Filters.Normalize(),
		FavoritesOnly:   s.FavoritesOnly,
		Suggestions:     s.Suggestions,
		ShowSuggestions: s.ShowSuggestions,
		Displayed:       s.Displayed,
		Results:         page,
		FavoriteIDs:     favs,
	}
}
