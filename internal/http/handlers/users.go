package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"hometracker/internal/http/respond"
	"hometracker/internal/models"
	"hometracker/internal/models/dto"
	"hometracker/internal/storage"
)

// UsersHandler owns the user collection endpoints.
type UsersHandler struct {
	store storage.Store
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(store storage.Store) *UsersHandler {
	return &UsersHandler{store: store}
}

// List returns all household members.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// Create adds a user. Admin only.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	fullName := strings.TrimSpace(req.FullName)
	if username == "" || req.Password == "" || fullName == "" {
		respond.Error(w, http.StatusBadRequest, "username, password, and full_name are required")
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		Username: username,
		Password: req.Password,
		FullName: fullName,
		Role:     role,
	}
	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "Username already exists")
			return
		}
		log.Printf("create user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// Delete removes a user by id. Admin only.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("delete user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	respond.Message(w, http.StatusOK, "User deleted successfully")
}
