package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"hometracker/internal/auth"
	"hometracker/internal/http/respond"
	"hometracker/internal/middleware"
	"hometracker/internal/models/dto"
	"hometracker/internal/storage"
)

// AuthHandler owns the login endpoint and the current-user echo.
type AuthHandler struct {
	store  storage.Store
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.Store, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Login matches username/password and issues a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := h.store.FindUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("login: fetch user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if !auth.VerifyPassword(user.Password, req.Password) {
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Printf("login: generate token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me echoes the user resolved from the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}
