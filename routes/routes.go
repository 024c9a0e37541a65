package routes

import (
	"mealseek/middleware"
	"mealseek/ratelim"
	"mealseek/recipes"

	"github.com/julienschmidt/httprouter"
)

func AddSuggestionsRoutes(router *httprouter.Router, h *recipes.Handlers, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/suggestions", rateLimiter.Limit(h.GetSuggestions))
	router.GET("/api/filters", h.GetFilterOptions)
}

func AddSearchRoutes(router *httprouter.Router, h *recipes.Handlers, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/search", middleware.Session(h.GetSearch))
	router.POST("/api/search", rateLimiter.Limit(middleware.Session(h.RunSearch)))
	router.PUT("/api/search/input", middleware.Session(h.UpdateInput))
	router.POST("/api/search/suggestions", middleware.Session(h.PickSuggestion))
	router.POST("/api/search/dismiss", middleware.Session(h.DismissSuggestions))
	router.PUT("/api/search/filters", middleware.Session(h.SetFilters))
	router.POST("/api/search/favorites-only", middleware.Session(h.ToggleFavoritesOnly))
	router.POST("/api/search/more", middleware.Session(h.ShowMore))
}

func AddRecipeRoutes(router *httprouter.Router, h *recipes.Handlers) {
	router.GET("/api/recipes/:id", middleware.Session(h.GetRecipe))
}

func AddFavoritesRoutes(router *httprouter.Router, h *recipes.Handlers) {
	router.GET("/api/favorites", h.GetFavorites)
	router.POST("/api/favorites", middleware.Session(h.AddFavorite))
	router.DELETE("/api/favorites/:id", h.RemoveFavorite)
	router.POST("/api/favorites/:id/toggle", middleware.Session(h.ToggleFavorite))
}

// RoutesWrapper registers every API route on router.
func RoutesWrapper(router *httprouter.Router, h *recipes.Handlers, rateLimiter *ratelim.RateLimiter) {
	AddSuggestionsRoutes(router, h, rateLimiter)
	AddSearchRoutes(router, h, rateLimiter)
	AddRecipeRoutes(router, h)
	AddFavoritesRoutes(router, h)
}
