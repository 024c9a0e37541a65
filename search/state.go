// Package search drives one user's search session: raw ingredient input,
// suggestions, the remote fetch, filters and the result window.
//
// Session state is an immutable value. Every user action is an Action and
// Reduce computes the next state without side effects; the Orchestrator
// performs the I/O around it.
package search

import (
	"mealseek/models"
	"mealseek/refine"
	"mealseek/suggestions"
)

type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrorKind classifies why the last search attempt did not produce results.
type ErrorKind int

const (
	NoError ErrorKind = iota
	Validation
	EmptyResult
	FetchFailed
)

func (k ErrorKind) String() string {
	switch k {
	case Validation:
		return "validation"
	case EmptyResult:
		return "empty_result"
	case FetchFailed:
		return "fetch_failed"
	default:
		return ""
	}
}

// Message is the user-facing text for k.
func (k ErrorKind) Message() string {
	switch k {
	case Validation:
		return "Please enter at least one ingredient"
	case EmptyResult:
		return "No recipes found with these ingredients. Try something else!"
	case FetchFailed:
		return "Failed to fetch recipes. Please try again later."
	default:
		return ""
	}
}

type State struct {
	Input           string
	Cursor          int
	Ingredients     []string
	Recipes         []models.Recipe
	Status          Status
	Error           ErrorKind
	Displayed       int
	Filters         models.Filters
	FavoritesOnly   bool
	Suggestions     []string
	ShowSuggestions bool
}

func NewState() State {
	return State{
		Displayed: refine.PageSize,
		Filters:   models.NewFilters(),
	}
}

// Action is a user or pipeline event applied by Reduce.
type Action interface {
	apply(State) State
}

// Reduce returns the state that follows s after a.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

// InputChanged records an edit of the ingredient text. Suggestions are the
// matches for the line under the cursor.
type InputChanged struct {
	Text        string
	Cursor      int
	Suggestions []string
}

func (a InputChanged) apply(s State) State {
	s.Input = a.Text
	s.Cursor = a.Cursor
	s.Suggestions = a.Suggestions
	s.ShowSuggestions = len(a.Suggestions) > 0
	return s
}

// SuggestionPicked replaces the line being edited with Name.
type SuggestionPicked struct {
	Name string
}

func (a SuggestionPicked) apply(s State) State {
	s.Input = suggestions.Apply(s.Input, a.Name)
	s.Cursor = len(s.Input)
	s.Suggestions = nil
	s.ShowSuggestions = false
	return s
}

// OutsideClicked closes the suggestion panel.
type OutsideClicked struct{}

func (OutsideClicked) apply(s State) State {
	s.ShowSuggestions = false
	return s
}

// InputClicked is a pointer interaction inside the input; it never closes
// the panel.
type InputClicked struct{}

func (InputClicked) apply(s State) State { return s }

// SearchRejected is a search attempt with no ingredients.
type SearchRejected struct{}

func (SearchRejected) apply(s State) State {
	s.Error = Validation
	return s
}

type SearchStarted struct {
	Ingredients []string
}

func (a SearchStarted) apply(s State) State {
	s.Status = Loading
	s.Ingredients = a.Ingredients
	s.Recipes = nil
	s.Error = NoError
	s.Displayed = refine.PageSize
	s.ShowSuggestions = false
	return s
}

// SearchSucceeded carries the pipeline output. Zero recipes is reported as
// an empty result.
type SearchSucceeded struct {
	Recipes []models.Recipe
}

func (a SearchSucceeded) apply(s State) State {
	s.Displayed = refine.PageSize
	if len(a.Recipes) == 0 {
		s.Status = Failed
		s.Error = EmptyResult
		s.Recipes = nil
		return s
	}
	s.Status = Success
	s.Error = NoError
	s.Recipes = a.Recipes
	return s
}

type SearchFailed struct{}

func (SearchFailed) apply(s State) State {
	s.Status = Failed
	s.Error = FetchFailed
	s.Recipes = nil
	return s
}

type FiltersChanged struct {
	Filters models.Filters
}

func (a FiltersChanged) apply(s State) State {
	s.Filters = a.Filters.Normalize()
	s.Displayed = refine.PageSize
	return s
}

type FavoritesOnlyToggled struct{}

func (FavoritesOnlyToggled) apply(s State) State {
	s.FavoritesOnly = !s.FavoritesOnly
	s.Displayed = refine.PageSize
	return s
}

// ShowMore widens the window by one page. Total is the filtered length.
type ShowMore struct {
	Total int
}

func (a ShowMore) apply(s State) State {
	s.Displayed = refine.Advance(s.Displayed, a.Total)
	return s
}
