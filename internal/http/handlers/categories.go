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

const defaultCategoryColor = "#3498db"

// CategoriesHandler owns the category collection endpoints.
type CategoriesHandler struct {
	store storage.Store
}

// NewCategoriesHandler constructs the handler.
func NewCategoriesHandler(store storage.Store) *CategoriesHandler {
	return &CategoriesHandler{store: store}
}

// List returns all categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		log.Printf("list categories: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	respond.JSON(w, http.StatusOK, categories)
}

// Create adds a category with a unique name.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	color := req.Color
	if color == "" {
		color = defaultCategoryColor
	}

	created, err := h.store.CreateCategory(r.Context(), models.Category{Name: name, Color: color})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "Category already exists")
			return
		}
		log.Printf("create category: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// Delete removes a category by id. Admin only.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Category not found")
			return
		}
		log.Printf("delete category: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	respond.Message(w, http.StatusOK, "Category deleted successfully")
}
