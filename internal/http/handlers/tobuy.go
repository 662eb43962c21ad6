package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"hometracker/internal/http/respond"
	"hometracker/internal/middleware"
	"hometracker/internal/models"
	"hometracker/internal/models/dto"
	"hometracker/internal/storage"
)

// ToBuyHandler owns the to-buy wishlist endpoints.
type ToBuyHandler struct {
	store storage.Store
}

// NewToBuyHandler constructs the handler.
func NewToBuyHandler(store storage.Store) *ToBuyHandler {
	return &ToBuyHandler{store: store}
}

// List returns items ordered by target date, optionally filtered by the
// purchased flag.
func (h *ToBuyHandler) List(w http.ResponseWriter, r *http.Request) {
	var purchased *bool
	if v := r.URL.Query().Get("purchased"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "purchased must be a boolean")
			return
		}
		purchased = &parsed
	}

	items, err := h.store.ListToBuyItems(r.Context(), purchased)
	if err != nil {
		log.Printf("list to-buy items: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list to-buy items")
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

// Create adds a wishlist item. created_by is always stamped from the
// caller, never taken from the payload.
func (h *ToBuyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req dto.CreateToBuyItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || req.TargetDate == "" {
		respond.Error(w, http.StatusBadRequest, "name and target_date are required")
		return
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		respond.Error(w, http.StatusBadRequest, "priority must be low, medium, or high")
		return
	}

	item := models.ToBuyItem{
		Name:       name,
		Quantity:   req.Quantity,
		TargetDate: req.TargetDate,
		Priority:   priority,
		Notes:      req.Notes,
		CreatedBy:  user.ID,
	}
	created, err := h.store.CreateToBuyItem(r.Context(), item)
	if err != nil {
		log.Printf("create to-buy item: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create to-buy item")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// Purchase marks an item purchased and records the matching expense in
// one transaction.
func (h *ToBuyHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.PurchasedBy <= 0 || req.PurchaseAmount <= 0 || req.PurchasePaymentMode == "" || req.PurchaseDate == "" {
		respond.Error(w, http.StatusBadRequest, "purchased_by, purchase_amount, purchase_payment_mode, and purchase_date are required")
		return
	}

	item, err := h.store.MarkPurchased(r.Context(), id, storage.PurchaseInfo{
		PurchasedBy: req.PurchasedBy,
		Amount:      req.PurchaseAmount,
		PaymentMode: req.PurchasePaymentMode,
		Date:        req.PurchaseDate,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Item not found")
			return
		}
		log.Printf("mark purchased: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to mark item purchased")
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

// Delete removes an item by id. An expense generated by an earlier
// purchase stays in place.
func (h *ToBuyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteToBuyItem(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Item not found")
			return
		}
		log.Printf("delete to-buy item: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete to-buy item")
		return
	}
	respond.Message(w, http.StatusOK, "Item deleted successfully")
}
