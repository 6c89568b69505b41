package models

// ============================================================================
// REPORT PAYLOADS
// ============================================================================
// Dashboard and monthly-report figures are returned as typed structs with
// named fields. Amounts are rounded to 2 decimals at this boundary only.

// CategorySummary is one slice of a per-category breakdown.
type CategorySummary struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Amount     float64 `json:"amount"`
}

// DailyPoint is one bucket of a daily income/expense series. Date is the
// calendar date (YYYY-MM-DD) in the reference timezone.
type DailyPoint struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// MonthTotals is one entry of the rolling six-month comparison.
type MonthTotals struct {
	Month   string  `json:"month"`
	Year    int     `json:"year"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type MonthlyReport struct {
	Month                int               `json:"month"`
	Year                 int               `json:"year"`
	TotalIncome          float64           `json:"total_income"`
	TotalExpense         float64           `json:"total_expense"`
	Balance              float64           `json:"balance"`
	IncomeChange         *float64          `json:"income_change"`
	ExpenseChange        *float64          `json:"expense_change"`
	TopExpenseCategories []CategorySummary `json:"top_expense_categories"`
	DailyBalance         []DailyPoint      `json:"daily_balance"`
}

type Dashboard struct {
	CurrentBalance        float64           `json:"current_balance"`
	TotalIncome           float64           `json:"total_income"`
	TotalExpense          float64           `json:"total_expense"`
	IncomeVsExpenseChange float64           `json:"income_vs_expense_change"`
	ExpensesByCategory    []CategorySummary `json:"expenses_by_category"`
	IncomeVsExpenseDaily  []DailyPoint      `json:"income_vs_expense_daily"`
	MonthlyComparison     []MonthTotals     `json:"monthly_comparison"`
	RecentTransactions    []Transaction     `json:"recent_transactions"`
}
