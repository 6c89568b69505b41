package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/fingestao/fingestao-api/models"
)

// csvHeader is the export contract: column order and labels are fixed.
var csvHeader = []string{"Data", "Tipo", "Descrição", "Categoria", "Valor", "Método de Pagamento", "Observações"}

// BuildTransactionsCSV renders the export: one row per transaction with
// localized labels, comma decimal separator and a UTF-8 byte-order mark so
// spreadsheet tools pick the encoding up.
func BuildTransactionsCSV(txs []models.Transaction, categories map[string]models.Category, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, t := range txs {
		tipo := "Despesa"
		if t.Type == models.TransactionTypeIncome {
			tipo = "Receita"
		}

		categoria := "Desconhecida"
		if cat, ok := categories[t.CategoryID]; ok {
			categoria = cat.Name
		}

		valor := strings.Replace(fmt.Sprintf("%.2f", t.Amount), ".", ",", 1)

		var metodo string
		if t.PaymentMethod != nil {
			metodo = *t.PaymentMethod
			if label, ok := models.PaymentMethodLabels[metodo]; ok {
				metodo = label
			}
		}

		var notas string
		if t.Notes != nil {
			notas = *t.Notes
		}

		data := t.Date.In(loc).Format("2006-01-02")
		if err := w.Write([]string{data, tipo, t.Description, categoria, valor, metodo, notas}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
