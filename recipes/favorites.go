package recipes

import (
	"net/http"
	"strings"

	"mealseek/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

func (h *Handlers) listFavorites(w http.ResponseWriter, status int) {
	list := h.favorites.List()
	if list == nil {
		utils.RespondWithJSON(w, status, []any{})
		return
	}
	utils.RespondWithJSON(w, status, list)
}

func (h *Handlers) persistFailed(w http.ResponseWriter, op, id string, err error) {
	h.log.Error("favorites not saved", zap.String("op", op), zap.String("id", id), zap.Error(err))
	utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save favorites")
}

func (h *Handlers) GetFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listFavorites(w, http.StatusOK)
}

// AddFavorite saves a recipe the session has already seen, by id.
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		ID string `json:"id"`
	}
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := strings.TrimSpace(body.ID)
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "id is required")
		return
	}

	recipe, ok := h.session(r).Recipe(id)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err := h.favorites.Add(r.Context(), recipe); err != nil {
		h.persistFailed(w, "add", id, err)
		return
	}
	h.listFavorites(w, http.StatusOK)
}

func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if err := h.favorites.Remove(r.Context(), id); err != nil {
		h.persistFailed(w, "remove", id, err)
		return
	}
	h.listFavorites(w, http.StatusOK)
}

// ToggleFavorite flips the favorite mark of a recipe. Unmarking needs only the
// id; marking needs the recipe to be among the session's results.
func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if h.favorites.Contains(id) {
		if err := h.favorites.Remove(r.Context(), id); err != nil {
			h.persistFailed(w, "toggle", id, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"id": id, "favorite": false})
		return
	}

	recipe, ok := h.session(r).Recipe(id)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err := h.favorites.Add(r.Context(), recipe); err != nil {
		h.persistFailed(w, "toggle", id, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"id": id, "favorite": true})
}
