package models

import "time"

// User is a member of the household. Password holds whatever was submitted
// at creation time; it is never serialized.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Category groups expenses and carries a display color (hex string).
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// Expense is a single shared expense. Date and Time are stored as
// zero-padded strings (YYYY-MM-DD, HH:MM[:SS]) so lexicographic order
// matches chronological order.
type Expense struct {
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"`
	CategoryID  int64     `json:"category_id"`
	PaymentMode string    `json:"payment_mode"`
	PaidBy      int64     `json:"paid_by"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToBuyItem is a planned purchase. The purchase_* fields stay nil until
// the item is marked purchased, at which point they are set together.
type ToBuyItem struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Quantity            *string   `json:"quantity"`
	TargetDate          string    `json:"target_date"`
	Priority            string    `json:"priority"`
	Notes               *string   `json:"notes"`
	CreatedBy           int64     `json:"created_by"`
	Purchased           bool      `json:"purchased"`
	PurchasedBy         *int64    `json:"purchased_by"`
	PurchaseAmount      *float64  `json:"purchase_amount"`
	PurchasePaymentMode *string   `json:"purchase_payment_mode"`
	PurchaseDate        *string   `json:"purchase_date"`
	CreatedAt           time.Time `json:"created_at"`
}

// Setting is one key/value configuration row.
type Setting struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
