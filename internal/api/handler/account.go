package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/charvault/internal/api/apierr"
	"github.com/mcoot/charvault/internal/api/middleware"
	"github.com/mcoot/charvault/internal/api/request"
	"github.com/mcoot/charvault/internal/api/response"
	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/services/auth"
)

// AccountHandler handles account endpoints
type AccountHandler struct {
	errorWriter
	authService *auth.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *auth.Service, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		errorWriter: errorWriter{logger: logger},
		authService: authService,
	}
}

// Join handles POST /api/v1/accounts/join
func (h *AccountHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	for _, f := range []struct{ name, value string }{
		{"account_id", req.AccountID},
		{"password", req.Password},
		{"confirm_password", req.ConfirmPassword},
		{"name", req.Name},
	} {
		if f.value == "" {
			h.writeError(w, r, apierr.NewMissingFieldError(f.name))
			return
		}
	}

	account, err := h.authService.Register(r.Context(), auth.RegisterInput{
		AccountID:       model.AccountID(req.AccountID),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AccountFromModel(account))
}

// Login handles POST /api/v1/accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if req.AccountID == "" {
		h.writeError(w, r, apierr.NewMissingFieldError("account_id"))
		return
	}
	if req.Password == "" {
		h.writeError(w, r, apierr.NewMissingFieldError("password"))
		return
	}

	session, err := h.authService.Login(r.Context(), model.AccountID(req.AccountID), req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TokenFromSession(session))
}

// Me handles GET /api/v1/accounts/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	response.JSON(w, http.StatusOK, response.AccountFromIdentity(identity))
}
