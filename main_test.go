package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"mealseek/favorites"
	"mealseek/globals"
	"mealseek/models"
	"mealseek/ratelim"
	"mealseek/recipes"
	"mealseek/search"
	"mealseek/suggestions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cannedFetcher struct {
	recipes []models.Recipe
	err     error
}

func (f cannedFetcher) Search(context.Context, string) ([]models.Recipe, error) {
	return f.recipes, f.err
}

type nopSlot struct{}

func (nopSlot) Read(context.Context) ([]byte, error) { return nil, nil }
func (nopSlot) Write(context.Context, []byte) error  { return nil }

func orchestrator(f search.Fetcher) *search.Orchestrator {
	log := zap.NewNop()
	favs := favorites.Open(context.Background(), nopSlot{}, log)
	return search.NewOrchestrator(f, favs, suggestions.NewListMatcher(nil), log)
}

func dishes(n int) []models.Recipe {
	out := make([]models.Recipe, n)
	for i := range out {
		out[i] = models.Recipe{ID: strconv.Itoa(i + 1), Name: "Dish " + strconv.Itoa(i+1), Area: "British"}
	}
	return out
}

func TestHealthAndHeaders(t *testing.T) {
	log := zap.NewNop()
	favs := favorites.Open(context.Background(), nopSlot{}, log)
	sessions := search.NewSessions(func() *search.Orchestrator { return orchestrator(cannedFetcher{}) }, 0, log)
	h := newHandler(recipes.NewHandlers(sessions, favs, suggestions.NewListMatcher(nil), log), ratelim.NewRateLimiter(60, 10), log)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "200", rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(globals.SessionHeader))
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Expose-Headers")), "x-session-id")
}

func TestRunSearchPrintsFirstPage(t *testing.T) {
	var out bytes.Buffer
	err := runSearch(context.Background(), &out, orchestrator(cannedFetcher{recipes: dishes(8)}), "beef\nonion", models.NewFilters(), false)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Dish 6")
	assert.NotContains(t, out.String(), "Dish 7")
	assert.Contains(t, out.String(), "showing 6 of 8")

	out.Reset()
	err = runSearch(context.Background(), &out, orchestrator(cannedFetcher{recipes: dishes(8)}), "beef", models.NewFilters(), true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Dish 8")
	assert.NotContains(t, out.String(), "showing")
}

func TestRunSearchMessages(t *testing.T) {
	var out bytes.Buffer
	err := runSearch(context.Background(), &out, orchestrator(cannedFetcher{recipes: []models.Recipe{}}), "unobtainium", models.NewFilters(), false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No recipes found with these ingredients. Try something else!")

	out.Reset()
	err = runSearch(context.Background(), &out, orchestrator(cannedFetcher{err: errors.New("offline")}), "beef", models.NewFilters(), false)
	assert.ErrorIs(t, err, search.ErrFetchFailed)
	assert.Contains(t, out.String(), "Failed to fetch recipes. Please try again later.")

	err = runSearch(context.Background(), &out, orchestrator(cannedFetcher{}), " ", models.NewFilters(), false)
	assert.ErrorIs(t, err, search.ErrValidation)
}

func TestNewLoggerLevels(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = newLogger("warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))
}
