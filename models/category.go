package models

import "time"

// Category types. BOTH categories accept income and expense transactions.
const (
	CategoryTypeIncome  = "INCOME"
	CategoryTypeExpense = "EXPENSE"
	CategoryTypeBoth    = "BOTH"
)

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	Icon      *string   `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCategoryRequest struct {
	Name  string  `json:"name" binding:"required,min=2,max=50"`
	Type  string  `json:"type" binding:"required,oneof=INCOME EXPENSE BOTH"`
	Color string  `json:"color" binding:"omitempty,len=7,hexcolor"`
	Icon  *string `json:"icon"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=50"`
	Type  *string `json:"type" binding:"omitempty,oneof=INCOME EXPENSE BOTH"`
	Color *string `json:"color" binding:"omitempty,len=7,hexcolor"`
	Icon  *string `json:"icon"`
}

// DefaultCategoryColor is used when a category was deleted but is still
// referenced by historical aggregates.
const DefaultCategoryColor = "#71717a"

type defaultCategory struct {
	Name  string
	Type  string
	Color string
	Icon  string
}

// DefaultCategories are created for every new user at registration.
var DefaultCategories = []defaultCategory{
	{"Alimentação", CategoryTypeExpense, "#ef4444", "utensils"},
	{"Transporte", CategoryTypeExpense, "#f59e0b", "car"},
	{"Moradia", CategoryTypeExpense, "#8b5cf6", "home"},
	{"Saúde", CategoryTypeExpense, "#ec4899", "heart-pulse"},
	{"Educação", CategoryTypeExpense, "#3b82f6", "graduation-cap"},
	{"Lazer", CategoryTypeExpense, "#14b8a6", "gamepad-2"},
	{"Assinaturas", CategoryTypeExpense, "#6366f1", "tv"},
	{"Investimentos", CategoryTypeBoth, "#10b981", "trending-up"},
	{"Salário", CategoryTypeIncome, "#22c55e", "wallet"},
	{"Freelance", CategoryTypeIncome, "#06b6d4", "laptop"},
	{"Outros", CategoryTypeBoth, "#71717a", "more-horizontal"},
}
