package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"hometracker/internal/http/respond"
	"hometracker/internal/models"
	"hometracker/internal/models/dto"
	"hometracker/internal/storage"
)

// ExpensesHandler owns the expense collection endpoints.
type ExpensesHandler struct {
	store storage.Store
}

// NewExpensesHandler constructs the handler.
func NewExpensesHandler(store storage.Store) *ExpensesHandler {
	return &ExpensesHandler{store: store}
}

// List returns expenses matching the optional query filters, ordered by
// date then time descending.
func (h *ExpensesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseExpenseFilter(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := h.store.ListExpenses(r.Context(), filter)
	if err != nil {
		log.Printf("list expenses: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	respond.JSON(w, http.StatusOK, expenses)
}

// Create records a new expense.
func (h *ExpensesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if req.Amount <= 0 {
		respond.Error(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}
	if req.CategoryID <= 0 || req.PaidBy <= 0 || req.PaymentMode == "" || req.Date == "" || req.Time == "" {
		respond.Error(w, http.StatusBadRequest, "category_id, payment_mode, paid_by, date, and time are required")
		return
	}

	expense := models.Expense{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		PaymentMode: req.PaymentMode,
		PaidBy:      req.PaidBy,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
	}
	created, err := h.store.CreateExpense(r.Context(), expense)
	if err != nil {
		log.Printf("create expense: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create expense")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// Delete removes an expense by id.
func (h *ExpensesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Expense not found")
			return
		}
		log.Printf("delete expense: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	respond.Message(w, http.StatusOK, "Expense deleted successfully")
}

func parseExpenseFilter(r *http.Request) (storage.ExpenseFilter, error) {
	var filter storage.ExpenseFilter
	q := r.URL.Query()

	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errors.New("category_id must be an integer")
		}
		filter.CategoryID = &id
	}
	if v := q.Get("paid_by"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errors.New("paid_by must be an integer")
		}
		filter.PaidBy = &id
	}
	if v := q.Get("payment_mode"); v != "" {
		filter.PaymentMode = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	return filter, nil
}
