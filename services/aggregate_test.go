package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fingestao/fingestao-api/models"
)

func tx(txType, categoryID string, amount float64, date time.Time) models.Transaction {
	return models.Transaction{
		Type:       txType,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       date,
	}
}

func TestBalanceIsIncomeMinusExpense(t *testing.T) {
	loc := ReferenceLocation()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, loc)
	txs := []models.Transaction{
		tx(models.TransactionTypeIncome, "c1", 1000.50, now),
		tx(models.TransactionTypeIncome, "c2", 250, now),
		tx(models.TransactionTypeExpense, "c3", 300.25, now),
	}

	assert.Equal(t, 1250.50, SumByType(txs, models.TransactionTypeIncome))
	assert.Equal(t, 300.25, SumByType(txs, models.TransactionTypeExpense))
	assert.Equal(t, 950.25, Balance(txs))
}

func TestPercentChange(t *testing.T) {
	change := PercentChange(150, 100)
	require.NotNil(t, change)
	assert.InDelta(t, 50.0, *change, 1e-9)

	change = PercentChange(80, 100)
	require.NotNil(t, change)
	assert.InDelta(t, -20.0, *change, 1e-9)

	assert.Nil(t, PercentChange(150, 0), "zero base must not fabricate a change")
	assert.Nil(t, PercentChange(150, -10))
}

func TestBalanceChange(t *testing.T) {
	assert.Equal(t, 100.0, BalanceChange(50, 0))
	assert.Equal(t, 0.0, BalanceChange(-10, 0))
	assert.Equal(t, 0.0, BalanceChange(0, 0))
	assert.InDelta(t, 50.0, BalanceChange(150, 100), 1e-9)
	// Negative previous balance divides by its magnitude.
	assert.InDelta(t, 200.0, BalanceChange(100, -100), 1e-9)
}

func TestGroupByCategoryKeepsFirstSeenOrder(t *testing.T) {
	loc := ReferenceLocation()
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, loc)
	txs := []models.Transaction{
		tx(models.TransactionTypeExpense, "food", 40, now),
		tx(models.TransactionTypeExpense, "transport", 25, now),
		tx(models.TransactionTypeIncome, "salary", 5000, now),
		tx(models.TransactionTypeExpense, "food", 60, now),
	}

	grouped := GroupByCategory(txs, models.TransactionTypeExpense)
	require.Len(t, grouped, 2)
	assert.Equal(t, "food", grouped[0].CategoryID)
	assert.Equal(t, 100.0, grouped[0].Amount)
	assert.Equal(t, "transport", grouped[1].CategoryID)
	assert.Equal(t, 25.0, grouped[1].Amount)
}

func TestTopCategoriesLimitAndTies(t *testing.T) {
	grouped := []CategoryTotal{
		{CategoryID: "a", Amount: 50},
		{CategoryID: "b", Amount: 50},
		{CategoryID: "c", Amount: 200},
		{CategoryID: "d", Amount: 10},
	}
	categories := map[string]models.Category{
		"a": {ID: "a", Name: "Alimentação", Color: "#ef4444"},
		"b": {ID: "b", Name: "Transporte", Color: "#f59e0b"},
		"c": {ID: "c", Name: "Moradia", Color: "#8b5cf6"},
	}

	top := TopCategories(grouped, categories, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "Moradia", top[0].Name)
	// Ties keep first-seen order.
	assert.Equal(t, "Alimentação", top[1].Name)
	assert.Equal(t, "Transporte", top[2].Name)
}

func TestTopCategoriesPlaceholderForMissingCategory(t *testing.T) {
	grouped := []CategoryTotal{{CategoryID: "gone", Amount: 42.559}}

	top := TopCategories(grouped, map[string]models.Category{}, 5)
	require.Len(t, top, 1)
	assert.Equal(t, "Desconhecida", top[0].Name)
	assert.Equal(t, models.DefaultCategoryColor, top[0].Color)
	assert.Equal(t, 42.56, top[0].Amount)
}

func TestDailySeriesBucketsAndOrders(t *testing.T) {
	loc := ReferenceLocation()
	txs := []models.Transaction{
		tx(models.TransactionTypeExpense, "c1", 30, time.Date(2024, 6, 3, 18, 0, 0, 0, loc)),
		tx(models.TransactionTypeIncome, "c2", 100, time.Date(2024, 6, 1, 9, 0, 0, 0, loc)),
		tx(models.TransactionTypeExpense, "c1", 20, time.Date(2024, 6, 1, 23, 59, 59, 0, loc)),
	}

	series := DailySeries(txs, loc)
	require.Len(t, series, 2)

	assert.Equal(t, "2024-06-01", series[0].Date)
	assert.Equal(t, 100.0, series[0].Income)
	assert.Equal(t, 20.0, series[0].Expense)
	assert.Equal(t, 80.0, series[0].Balance)

	assert.Equal(t, "2024-06-03", series[1].Date)
	assert.Equal(t, 30.0, series[1].Expense)
}

func TestMonthRangeBoundaries(t *testing.T) {
	loc := ReferenceLocation()

	start, end := MonthRange(2024, 2, loc)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, loc), end)

	start, end = MonthRange(2024, 12, loc)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 0, loc), end)
}

func TestPreviousMonthWrapsJanuary(t *testing.T) {
	month, year := PreviousMonth(1, 2024)
	assert.Equal(t, 12, month)
	assert.Equal(t, 2023, year)

	month, year = PreviousMonth(12, 2024)
	assert.Equal(t, 11, month)
	assert.Equal(t, 2024, year)
}

func TestPreviousPeriodIsAdjacentAndSameLength(t *testing.T) {
	loc := ReferenceLocation()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, loc)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, loc)

	prevStart, prevEnd := PreviousPeriod(start, end)
	assert.Equal(t, start.Add(-time.Second), prevEnd)
	assert.Equal(t, prevEnd.AddDate(0, 0, -30), prevStart)
}

func TestMonthlyComparisonSixEntriesOldestFirst(t *testing.T) {
	loc := ReferenceLocation()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, loc)
	txs := []models.Transaction{
		tx(models.TransactionTypeIncome, "c1", 5000, time.Date(2024, 3, 5, 10, 0, 0, 0, loc)),
		tx(models.TransactionTypeExpense, "c2", 1200, time.Date(2024, 1, 20, 10, 0, 0, 0, loc)),
		tx(models.TransactionTypeIncome, "c1", 4800, time.Date(2023, 11, 2, 10, 0, 0, 0, loc)),
		// Outside the 6-month window, must be ignored.
		tx(models.TransactionTypeIncome, "c1", 9999, time.Date(2023, 9, 1, 10, 0, 0, 0, loc)),
	}

	comparison := MonthlyComparison(txs, now, loc)
	require.Len(t, comparison, 6)

	assert.Equal(t, "Out", comparison[0].Month)
	assert.Equal(t, 2023, comparison[0].Year)
	assert.Equal(t, "Nov", comparison[1].Month)
	assert.Equal(t, 4800.0, comparison[1].Income)
	assert.Equal(t, "Dez", comparison[2].Month)
	assert.Equal(t, "Jan", comparison[3].Month)
	assert.Equal(t, 2024, comparison[3].Year)
	assert.Equal(t, 1200.0, comparison[3].Expense)
	assert.Equal(t, "Fev", comparison[4].Month)
	assert.Equal(t, "Mar", comparison[5].Month)
	assert.Equal(t, 5000.0, comparison[5].Income)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.57, Round2(10.567))
	assert.Equal(t, 10.56, Round2(10.561))
	assert.Equal(t, -10.57, Round2(-10.567))
}
