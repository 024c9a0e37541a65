// Package recipes exposes the search session and the favorites list over HTTP.
package recipes

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"mealseek/favorites"
	"mealseek/middleware"
	"mealseek/models"
	"mealseek/search"
	"mealseek/suggestions"
	"mealseek/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const suggestTimeout = 2 * time.Second

type Handlers struct {
	sessions  *search.Sessions
	favorites *favorites.Store
	matcher   suggestions.Matcher
	log       *zap.Logger
}

func NewHandlers(sessions *search.Sessions, favs *favorites.Store, matcher suggestions.Matcher, log *zap.Logger) *Handlers {
	return &Handlers{sessions: sessions, favorites: favs, matcher: matcher, log: log}
}

func (h *Handlers) session(r *http.Request) *search.Orchestrator {
	return h.sessions.Get(middleware.SessionID(r.Context()))
}

// --- Reference data ---

func (h *Handlers) GetFilterOptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, models.GetFilterOptions())
}

// GetSuggestions is the stateless prefix lookup behind ?q=.
func (h *Handlers) GetSuggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), suggestTimeout)
	defer cancel()

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	matches, err := h.matcher.Match(ctx, q)
	if err != nil {
		h.log.Warn("suggestion lookup failed", zap.String("q", q), zap.Error(err))
		matches = nil
	}
	if matches == nil {
		matches = []string{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"suggestions": matches})
}

// --- Search session ---

func (h *Handlers) GetSearch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.session(r).View())
}

func (h *Handlers) UpdateInput(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Text   string `json:"text"`
		Cursor *int   `json:"cursor"`
	}
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	cursor := len(body.Text)
	if body.Cursor != nil {
		cursor = *body.Cursor
	}

	ctx, cancel := context.WithTimeout(r.Context(), suggestTimeout)
	defer cancel()
	utils.RespondWithJSON(w, http.StatusOK, h.session(r).Input(ctx, body.Text, cursor))
}

func (h *Handlers) PickSuggestion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Name string `json:"name"`
	}
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.session(r).PickSuggestion(body.Name))
}

func (h *Handlers) DismissSuggestions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.session(r).DismissSuggestions())
}

// RunSearch starts a search for the session's current input. The body may
// carry {"text": ...} to replace the input first.
func (h *Handlers) RunSearch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Text *string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orch := h.session(r)
	if body.Text != nil {
		orch.Input(r.Context(), *body.Text, len(*body.Text))
	}

	view, err := orch.Search(r.Context())
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, view)
	case errors.Is(err, search.ErrValidation):
		utils.RespondWithError(w, http.StatusBadRequest, search.Validation.Message())
	case errors.Is(err, search.ErrSearchInFlight):
		utils.RespondWithError(w, http.StatusConflict, "A search is already running")
	default:
		utils.RespondWithError(w, http.StatusBadGateway, search.FetchFailed.Message())
	}
}

func (h *Handlers) SetFilters(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var f models.Filters
	if err := utils.DecodeJSON(w, r, &f); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := f.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.session(r).SetFilters(f))
}

func (h *Handlers) ToggleFavoritesOnly(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.session(r).ToggleFavoritesOnly())
}

func (h *Handlers) ShowMore(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.session(r).ShowMore())
}

// GetRecipe returns a recipe from the session results or the favorites.
func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipe, ok := h.session(r).Recipe(ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}
