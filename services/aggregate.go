package services

import (
	"math"
	"sort"
	"time"

	"github.com/fingestao/fingestao-api/models"
)

// ============================================================================
// AGGREGATION PRIMITIVES
// ============================================================================
// Pure functions over one user's non-deleted transactions. Summation keeps
// full float precision; Round2 is applied only when building response
// payloads.

// monthAbbreviations are the pt-BR month labels of the dashboard comparison.
var monthAbbreviations = [12]string{
	"Jan", "Fev", "Mar", "Abr", "Mai", "Jun",
	"Jul", "Ago", "Set", "Out", "Nov", "Dez",
}

// ReferenceLocation is the fixed timezone for month-boundary arithmetic and
// daily bucketing, so boundary transactions land in the same bucket
// regardless of the server locale.
func ReferenceLocation() *time.Location {
	loc, err := time.LoadLocation("America/Bahia")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SumByType totals the amounts of transactions matching txType.
func SumByType(txs []models.Transaction, txType string) float64 {
	var total float64
	for _, t := range txs {
		if t.Type == txType {
			total += t.Amount
		}
	}
	return total
}

// Balance is total income minus total expense.
func Balance(txs []models.Transaction) float64 {
	return SumByType(txs, models.TransactionTypeIncome) - SumByType(txs, models.TransactionTypeExpense)
}

// PercentChange returns (current-previous)/previous*100, or nil when
// previous is not positive: no change figure is ever fabricated from a zero
// base.
func PercentChange(current, previous float64) *float64 {
	if previous <= 0 {
		return nil
	}
	change := (current - previous) / previous * 100
	return &change
}

// BalanceChange is the dashboard's period-over-period figure. A zero
// previous balance reports 100 when the current balance is positive and 0
// otherwise; a negative previous balance divides by its magnitude.
func BalanceChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// CategoryTotal is a per-category running sum in first-seen order.
type CategoryTotal struct {
	CategoryID string
	Amount     float64
}

// GroupByCategory sums amounts per category over transactions matching
// txType, preserving the order categories first appear.
func GroupByCategory(txs []models.Transaction, txType string) []CategoryTotal {
	index := make(map[string]int)
	var grouped []CategoryTotal
	for _, t := range txs {
		if t.Type != txType {
			continue
		}
		if i, ok := index[t.CategoryID]; ok {
			grouped[i].Amount += t.Amount
			continue
		}
		index[t.CategoryID] = len(grouped)
		grouped = append(grouped, CategoryTotal{CategoryID: t.CategoryID, Amount: t.Amount})
	}
	return grouped
}

// TopCategories sorts grouped totals descending by amount (stable, so ties
// keep first-seen order) and truncates to limit.
func TopCategories(grouped []CategoryTotal, categories map[string]models.Category, limit int) []models.CategorySummary {
	sorted := make([]CategoryTotal, len(grouped))
	copy(sorted, grouped)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return summarizeCategories(sorted, categories, "Desconhecida")
}

// summarizeCategories resolves category names and colors, falling back to a
// placeholder for categories that no longer exist.
func summarizeCategories(grouped []CategoryTotal, categories map[string]models.Category, fallbackName string) []models.CategorySummary {
	summaries := make([]models.CategorySummary, 0, len(grouped))
	for _, g := range grouped {
		name, color := fallbackName, models.DefaultCategoryColor
		if cat, ok := categories[g.CategoryID]; ok {
			name, color = cat.Name, cat.Color
		}
		summaries = append(summaries, models.CategorySummary{
			CategoryID: g.CategoryID,
			Name:       name,
			Color:      color,
			Amount:     Round2(g.Amount),
		})
	}
	return summaries
}

// DailySeries buckets transactions by calendar date in loc, sums income and
// expense independently per day and returns the buckets sorted ascending by
// date string.
func DailySeries(txs []models.Transaction, loc *time.Location) []models.DailyPoint {
	type bucket struct {
		income  float64
		expense float64
	}
	days := make(map[string]*bucket)
	for _, t := range txs {
		key := t.Date.In(loc).Format("2006-01-02")
		b, ok := days[key]
		if !ok {
			b = &bucket{}
			days[key] = b
		}
		if t.Type == models.TransactionTypeIncome {
			b.income += t.Amount
		} else {
			b.expense += t.Amount
		}
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]models.DailyPoint, 0, len(keys))
	for _, k := range keys {
		b := days[k]
		series = append(series, models.DailyPoint{
			Date:    k,
			Income:  Round2(b.income),
			Expense: Round2(b.expense),
			Balance: Round2(b.income - b.expense),
		})
	}
	return series
}

// MonthRange returns the inclusive range of a calendar month in loc: the
// first instant through 23:59:59 of the last day.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// PreviousMonth wraps January back to December of the prior year.
func PreviousMonth(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// PreviousPeriod returns a range of the same duration in days ending one
// second before start: no gap, no overlap.
func PreviousPeriod(start, end time.Time) (time.Time, time.Time) {
	days := int(end.Sub(start).Hours()/24) + 1
	prevEnd := start.Add(-time.Second)
	prevStart := prevEnd.AddDate(0, 0, -days)
	return prevStart, prevEnd
}

// MonthlyComparison computes income/expense totals for the month containing
// now and the 5 preceding calendar months, oldest first, over the all-time
// transaction set.
func MonthlyComparison(txs []models.Transaction, now time.Time, loc *time.Location) []models.MonthTotals {
	comparison := make([]models.MonthTotals, 0, 6)
	for i := 5; i >= 0; i-- {
		year, month := now.In(loc).Year(), int(now.In(loc).Month())-i
		for month <= 0 {
			month += 12
			year--
		}

		start, end := MonthRange(year, month, loc)
		var income, expense float64
		for _, t := range txs {
			if t.Date.Before(start) || t.Date.After(end) {
				continue
			}
			if t.Type == models.TransactionTypeIncome {
				income += t.Amount
			} else {
				expense += t.Amount
			}
		}

		comparison = append(comparison, models.MonthTotals{
			Month:   monthAbbreviations[month-1],
			Year:    year,
			Income:  Round2(income),
			Expense: Round2(expense),
		})
	}
	return comparison
}
