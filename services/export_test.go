package services

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fingestao/fingestao-api/models"
)

func TestBuildTransactionsCSVStartsWithBOM(t *testing.T) {
	data, err := BuildTransactionsCSV(nil, nil, ReferenceLocation())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufeff"))
}

func TestBuildTransactionsCSVHeader(t *testing.T) {
	data, err := BuildTransactionsCSV(nil, nil, ReferenceLocation())
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\ufeff")))
	header, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"Data", "Tipo", "Descrição", "Categoria", "Valor", "Método de Pagamento", "Observações"}, header)
}

func TestBuildTransactionsCSVRows(t *testing.T) {
	loc := ReferenceLocation()
	pix := "PIX"
	notes := "mercado da esquina"
	txs := []models.Transaction{
		{
			Type:          models.TransactionTypeExpense,
			Description:   "Compras do mês",
			Amount:        154.9,
			Date:          time.Date(2024, 6, 3, 14, 30, 0, 0, loc),
			CategoryID:    "food",
			PaymentMethod: &pix,
			Notes:         &notes,
		},
		{
			Type:        models.TransactionTypeIncome,
			Description: "Salário",
			Amount:      5000,
			Date:        time.Date(2024, 6, 5, 8, 0, 0, 0, loc),
			CategoryID:  "missing",
		},
	}
	categories := map[string]models.Category{
		"food": {ID: "food", Name: "Alimentação", Color: "#ef4444"},
	}

	data, err := BuildTransactionsCSV(txs, categories, loc)
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\ufeff")))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"2024-06-03", "Despesa", "Compras do mês", "Alimentação", "154,90", "PIX", "mercado da esquina"}, records[1])
	assert.Equal(t, []string{"2024-06-05", "Receita", "Salário", "Desconhecida", "5000,00", "", ""}, records[2])
}

func TestBuildTransactionsCSVPaymentMethodLabels(t *testing.T) {
	loc := ReferenceLocation()
	cash := "CASH"
	txs := []models.Transaction{
		{
			Type:          models.TransactionTypeExpense,
			Description:   "Padaria",
			Amount:        12.5,
			Date:          time.Date(2024, 6, 1, 7, 0, 0, 0, loc),
			CategoryID:    "food",
			PaymentMethod: &cash,
		},
	}

	data, err := BuildTransactionsCSV(txs, map[string]models.Category{}, loc)
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\ufeff")))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Dinheiro", records[1][5])
}
