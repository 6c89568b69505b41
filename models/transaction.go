package models

import "time"

const (
	TransactionTypeIncome  = "INCOME"
	TransactionTypeExpense = "EXPENSE"
)

type Transaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	CategoryID    string    `json:"category_id"`
	CategoryName  *string   `json:"category_name"`
	CategoryColor *string   `json:"category_color"`
	PaymentMethod *string   `json:"payment_method"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateTransactionRequest struct {
	Type          string    `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Description   string    `json:"description" binding:"required,min=3,max=120"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	Date          time.Time `json:"date" binding:"required"`
	CategoryID    string    `json:"category_id" binding:"required"`
	PaymentMethod *string   `json:"payment_method" binding:"omitempty,oneof=CASH DEBIT CREDIT PIX TRANSFER"`
	Notes         *string   `json:"notes" binding:"omitempty,max=500"`
}

type UpdateTransactionRequest struct {
	Type          *string    `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Description   *string    `json:"description" binding:"omitempty,min=3,max=120"`
	Amount        *float64   `json:"amount" binding:"omitempty,gt=0"`
	Date          *time.Time `json:"date"`
	CategoryID    *string    `json:"category_id"`
	PaymentMethod *string    `json:"payment_method" binding:"omitempty,oneof=CASH DEBIT CREDIT PIX TRANSFER"`
	Notes         *string    `json:"notes" binding:"omitempty,max=500"`
}

type TransactionListResponse struct {
	Items      []Transaction `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// PaymentMethodLabels maps the stored enum to the pt-BR display strings used
// by the CSV export.
var PaymentMethodLabels = map[string]string{
	"CASH":     "Dinheiro",
	"DEBIT":    "Débito",
	"CREDIT":   "Crédito",
	"PIX":      "PIX",
	"TRANSFER": "Transferência",
}
