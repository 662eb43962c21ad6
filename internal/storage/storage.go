package storage

import (
	"context"
	"errors"

	"hometracker/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// Category and expense values generated when a to-buy item is purchased.
const (
	ToBuyCategoryName   = "To-Buy Items"
	ToBuyCategoryColor  = "#6366f1"
	PurchaseExpenseTime = "12:00"
)

// PurchaseDescription builds the expense description for a purchased item.
func PurchaseDescription(itemName string) string {
	return "Purchase: " + itemName
}

// ExpenseFilter narrows an expense listing. Nil fields are ignored;
// set fields are combined with AND. Date bounds are inclusive.
type ExpenseFilter struct {
	CategoryID  *int64
	PaidBy      *int64
	PaymentMode *string
	StartDate   *string
	EndDate     *string
}

// PurchaseInfo carries the fields recorded when a to-buy item is purchased.
type PurchaseInfo struct {
	PurchasedBy int64
	Amount      float64
	PaymentMode string
	Date        string
}

// Store captures persistence operations needed by handlers.
type Store interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateExpense(ctx context.Context, expense models.Expense) (models.Expense, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error

	CreateToBuyItem(ctx context.Context, item models.ToBuyItem) (models.ToBuyItem, error)
	ListToBuyItems(ctx context.Context, purchased *bool) ([]models.ToBuyItem, error)
	MarkPurchased(ctx context.Context, id int64, info PurchaseInfo) (models.ToBuyItem, error)
	DeleteToBuyItem(ctx context.Context, id int64) error

	GetSettings(ctx context.Context) (map[string]string, error)
	UpdateSettings(ctx context.Context, currencySymbol, homeName string) error
}
