package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"hometracker/internal/http/respond"
	"hometracker/internal/models/dto"
	"hometracker/internal/storage"
)

// SettingsHandler owns the settings endpoints.
type SettingsHandler struct {
	store storage.Store
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(store storage.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get returns all settings as a flat key/value map.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		log.Printf("get settings: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	respond.JSON(w, http.StatusOK, settings)
}

// Update upserts the two well-known settings keys. Admin only.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.CurrencySymbol) == "" || strings.TrimSpace(req.HomeName) == "" {
		respond.Error(w, http.StatusBadRequest, "currency_symbol and home_name are required")
		return
	}

	if err := h.store.UpdateSettings(r.Context(), req.CurrencySymbol, req.HomeName); err != nil {
		log.Printf("update settings: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	respond.Message(w, http.StatusOK, "Settings updated successfully")
}
