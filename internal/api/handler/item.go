package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/charvault/internal/api/apierr"
	"github.com/mcoot/charvault/internal/api/request"
	"github.com/mcoot/charvault/internal/api/response"
	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/services/item"
)

// ItemHandler handles item catalog endpoints
type ItemHandler struct {
	errorWriter
	items *item.Service
}

// NewItemHandler creates a new item handler
func NewItemHandler(items *item.Service, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		errorWriter: errorWriter{logger: logger},
		items:       items,
	}
}

// Create handles POST /api/v1/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ItemCode <= 0 {
		h.writeError(w, r, apierr.NewMissingFieldError("item_code"))
		return
	}
	if req.ItemName == "" {
		h.writeError(w, r, apierr.NewMissingFieldError("item_name"))
		return
	}

	created, err := h.items.Create(r.Context(), model.ItemCode(req.ItemCode), req.ItemName, req.Atk, req.Price)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ItemFromModel(created))
}

// List handles GET /api/v1/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.items.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ItemListFromSummaries(summaries))
}

// Get handles GET /api/v1/items/{item_code}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	code, err := itemCode(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	it, err := h.items.Get(r.Context(), code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ItemFromModel(it))
}

// Update handles PATCH /api/v1/items/{item_code}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	code, err := itemCode(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req request.UpdateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ItemName == "" {
		h.writeError(w, r, apierr.NewMissingFieldError("item_name"))
		return
	}

	updated, err := h.items.Update(r.Context(), code, req.ItemName, req.Atk)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ItemFromModel(updated))
}

func itemCode(r *http.Request) (model.ItemCode, error) {
	code, err := strconv.Atoi(mux.Vars(r)["item_code"])
	if err != nil || code <= 0 {
		return 0, apierr.NewInvalidRequestError("item_code must be a positive integer")
	}
	return model.ItemCode(code), nil
}
