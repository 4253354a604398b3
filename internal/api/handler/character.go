package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/charvault/internal/api/apierr"
	"github.com/mcoot/charvault/internal/api/middleware"
	"github.com/mcoot/charvault/internal/api/request"
	"github.com/mcoot/charvault/internal/api/response"
	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/services/character"
)

// CharacterHandler handles character endpoints
type CharacterHandler struct {
	errorWriter
	characters *character.Service
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(characters *character.Service, logger *slog.Logger) *CharacterHandler {
	return &CharacterHandler{
		errorWriter: errorWriter{logger: logger},
		characters:  characters,
	}
}

// Create handles POST /api/v1/characters
func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.CreateCharacterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.CharacterID == "" {
		h.writeError(w, r, apierr.NewMissingFieldError("character_id"))
		return
	}

	created, err := h.characters.Create(r.Context(), identity, model.CharacterID(req.CharacterID))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CharacterFromView(character.Project(created, identity)))
}

// List handles GET /api/v1/characters
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	views, err := h.characters.ListMine(r.Context(), identity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CharacterListFromViews(views))
}

// Get handles GET /api/v1/characters/{character_id}
// Anonymous callers get the redacted view.
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.CharacterID(mux.Vars(r)["character_id"])

	view, err := h.characters.Get(r.Context(), middleware.GetIdentity(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CharacterFromView(view))
}

// Delete handles DELETE /api/v1/characters/{character_id}
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id := model.CharacterID(mux.Vars(r)["character_id"])

	if err := h.characters.Delete(r.Context(), identity, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CharacterDeleted{CharacterID: string(id), Deleted: true})
}
