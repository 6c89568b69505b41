package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fingestao/fingestao-api/models"
)

// ReportService assembles the monthly report and the dashboard from a
// user's ledger. All derived values are computed in memory, deterministic
// and side-effect free; the service only fetches.
type ReportService struct {
	db  *sql.DB
	loc *time.Location
}

func NewReportService(db *sql.DB) *ReportService {
	return &ReportService{db: db, loc: ReferenceLocation()}
}

// Location exposes the reference timezone used for period defaults.
func (s *ReportService) Location() *time.Location {
	return s.loc
}

// Monthly builds the report for one calendar month, comparing against the
// previous calendar month.
func (s *ReportService) Monthly(ctx context.Context, userID string, month, year int) (*models.MonthlyReport, error) {
	start, end := MonthRange(year, month, s.loc)
	txs, err := s.fetchTransactions(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}

	totalIncome := SumByType(txs, models.TransactionTypeIncome)
	totalExpense := SumByType(txs, models.TransactionTypeExpense)

	prevMonth, prevYear := PreviousMonth(month, year)
	prevStart, prevEnd := MonthRange(prevYear, prevMonth, s.loc)
	prevTxs, err := s.fetchTransactions(ctx, userID, &prevStart, &prevEnd)
	if err != nil {
		return nil, err
	}

	incomeChange := PercentChange(totalIncome, SumByType(prevTxs, models.TransactionTypeIncome))
	expenseChange := PercentChange(totalExpense, SumByType(prevTxs, models.TransactionTypeExpense))

	categories, err := s.fetchCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.MonthlyReport{
		Month:                month,
		Year:                 year,
		TotalIncome:          Round2(totalIncome),
		TotalExpense:         Round2(totalExpense),
		Balance:              Round2(totalIncome - totalExpense),
		IncomeChange:         roundPtr(incomeChange),
		ExpenseChange:        roundPtr(expenseChange),
		TopExpenseCategories: TopCategories(GroupByCategory(txs, models.TransactionTypeExpense), categories, 5),
		DailyBalance:         DailySeries(txs, s.loc),
	}, nil
}

// Dashboard builds the dashboard for the given period, defaulting to the
// current calendar month. The current balance always spans the entire
// ledger; period totals are scoped to the selected range.
func (s *ReportService) Dashboard(ctx context.Context, userID string, start, end *time.Time) (*models.Dashboard, error) {
	now := time.Now().In(s.loc)
	monthStart, monthEnd := MonthRange(now.Year(), int(now.Month()), s.loc)
	if start == nil {
		start = &monthStart
	}
	if end == nil {
		end = &monthEnd
	}

	allTxs, err := s.fetchTransactions(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}

	periodTxs, err := s.fetchTransactions(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	prevStart, prevEnd := PreviousPeriod(*start, *end)
	prevTxs, err := s.fetchTransactions(ctx, userID, &prevStart, &prevEnd)
	if err != nil {
		return nil, err
	}

	categories, err := s.fetchCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.recentTransactions(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		CurrentBalance:        Round2(Balance(allTxs)),
		TotalIncome:           Round2(SumByType(periodTxs, models.TransactionTypeIncome)),
		TotalExpense:          Round2(SumByType(periodTxs, models.TransactionTypeExpense)),
		IncomeVsExpenseChange: Round2(BalanceChange(Balance(periodTxs), Balance(prevTxs))),
		ExpensesByCategory:    summarizeCategories(GroupByCategory(periodTxs, models.TransactionTypeExpense), categories, "Outros"),
		IncomeVsExpenseDaily:  DailySeries(periodTxs, s.loc),
		MonthlyComparison:     MonthlyComparison(allTxs, now, s.loc),
		RecentTransactions:    recent,
	}, nil
}

// TransactionsForExport fetches the rows and category lookup the CSV export
// serializes, newest first.
func (s *ReportService) TransactionsForExport(ctx context.Context, userID string, start, end time.Time, txType, categoryID string) ([]models.Transaction, map[string]models.Category, error) {
	query := `
		SELECT id, user_id, type, description, amount, date, category_id,
		       payment_method, notes, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL AND date >= $2 AND date <= $3
	`
	args := []interface{}{userID, start, end}
	if txType != "" {
		args = append(args, txType)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if categoryID != "" {
		args = append(args, categoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	categories, err := s.fetchCategories(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return txs, categories, nil
}

func (s *ReportService) fetchTransactions(ctx context.Context, userID string, start, end *time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, type, description, amount, date, category_id,
		       payment_method, notes, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL
	`
	args := []interface{}{userID}
	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *ReportService) fetchCategories(ctx context.Context, userID string) (map[string]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, color, icon, created_at
		FROM categories
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer rows.Close()

	categories := make(map[string]models.Category)
	for rows.Next() {
		var cat models.Category
		var icon sql.NullString
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Color, &icon, &cat.CreatedAt); err != nil {
			return nil, err
		}
		if icon.Valid {
			cat.Icon = &icon.String
		}
		categories[cat.ID] = cat
	}
	return categories, rows.Err()
}

func (s *ReportService) recentTransactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.type, t.description, t.amount, t.date, t.category_id,
		       t.payment_method, t.notes, t.created_at, t.updated_at, c.name, c.color
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1 AND t.deleted_at IS NULL
		ORDER BY t.date DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent transactions: %w", err)
	}
	defer rows.Close()

	recent := make([]models.Transaction, 0, limit)
	for rows.Next() {
		var t models.Transaction
		var paymentMethod, notes, catName, catColor sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Description, &t.Amount, &t.Date, &t.CategoryID,
			&paymentMethod, &notes, &t.CreatedAt, &t.UpdatedAt, &catName, &catColor); err != nil {
			return nil, err
		}
		t.PaymentMethod = nullableString(paymentMethod)
		t.Notes = nullableString(notes)
		t.CategoryName = nullableString(catName)
		t.CategoryColor = nullableString(catColor)
		recent = append(recent, t)
	}
	return recent, rows.Err()
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var paymentMethod, notes sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Description, &t.Amount, &t.Date, &t.CategoryID,
			&paymentMethod, &notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.PaymentMethod = nullableString(paymentMethod)
		t.Notes = nullableString(notes)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	rounded := Round2(*v)
	return &rounded
}
