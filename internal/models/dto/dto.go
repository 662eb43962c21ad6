package dto

import "hometracker/internal/models"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CreateExpenseRequest struct {
	Amount      float64 `json:"amount"`
	CategoryID  int64   `json:"category_id"`
	PaymentMode string  `json:"payment_mode"`
	PaidBy      int64   `json:"paid_by"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Description *string `json:"description"`
}

type CreateToBuyItemRequest struct {
	Name       string  `json:"name"`
	Quantity   *string `json:"quantity"`
	TargetDate string  `json:"target_date"`
	Priority   string  `json:"priority"`
	Notes      *string `json:"notes"`
}

type PurchaseRequest struct {
	PurchasedBy         int64   `json:"purchased_by"`
	PurchaseAmount      float64 `json:"purchase_amount"`
	PurchasePaymentMode string  `json:"purchase_payment_mode"`
	PurchaseDate        string  `json:"purchase_date"`
}

type UpdateSettingsRequest struct {
	CurrencySymbol string `json:"currency_symbol"`
	HomeName       string `json:"home_name"`
}
