package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/charvault/internal/api/apierr"
	"github.com/mcoot/charvault/internal/api/handler"
	"github.com/mcoot/charvault/internal/api/middleware"
	"github.com/mcoot/charvault/internal/api/response"
	"github.com/mcoot/charvault/internal/services/auth"
	"github.com/mcoot/charvault/internal/services/character"
	"github.com/mcoot/charvault/internal/services/item"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	CharacterService *character.Service
	ItemService      *item.Service

	// Metrics and MetricsHandler are optional; /metrics is only mounted
	// when MetricsHandler is set.
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.AuthService, cfg.Logger)
	characterHandler := handler.NewCharacterHandler(cfg.CharacterService, cfg.Logger)
	itemHandler := handler.NewItemHandler(cfg.ItemService, cfg.Logger)

	// Create middleware
	requireAuth := middleware.Auth(cfg.AuthService, cfg.Metrics)
	optionalAuth := middleware.OptionalAuth(cfg.AuthService, cfg.Metrics)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(cfg.Metrics.Middleware)

	// Account routes
	api.HandleFunc("/accounts/join", accountHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/accounts/login", accountHandler.Login).Methods(http.MethodPost)
	api.Handle("/accounts/me", requireAuth(http.HandlerFunc(accountHandler.Me))).Methods(http.MethodGet)

	// Character routes; detail reads are open to anonymous callers
	api.Handle("/characters", requireAuth(http.HandlerFunc(characterHandler.Create))).Methods(http.MethodPost)
	api.Handle("/characters", requireAuth(http.HandlerFunc(characterHandler.List))).Methods(http.MethodGet)
	api.Handle("/characters/{character_id}", optionalAuth(http.HandlerFunc(characterHandler.Get))).Methods(http.MethodGet)
	api.Handle("/characters/{character_id}", requireAuth(http.HandlerFunc(characterHandler.Delete))).Methods(http.MethodDelete)

	// Item catalog routes (no auth)
	api.HandleFunc("/items", itemHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/items", itemHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/items/{item_code}", itemHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/items/{item_code}", itemHandler.Update).Methods(http.MethodPatch)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewMethodNotAllowedError())
}
