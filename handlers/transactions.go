package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fingestao/fingestao-api/middleware"
	"github.com/fingestao/fingestao-api/models"
	"github.com/fingestao/fingestao-api/services"
)

type TransactionHandler struct {
	DB  *sql.DB
	WS  *WSHandler
	Loc *time.Location
}

var sortColumns = map[string]string{
	"date":       "t.date",
	"amount":     "t.amount",
	"created_at": "t.created_at",
}

func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro page inválido"})
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro page_size inválido"})
		return
	}

	where := `t.user_id = $1 AND t.deleted_at IS NULL`
	args := []interface{}{userID}

	start, end, err := h.dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Data inválida"})
		return
	}
	args = append(args, start)
	where += fmt.Sprintf(" AND t.date >= $%d", len(args))
	args = append(args, end)
	where += fmt.Sprintf(" AND t.date <= $%d", len(args))

	if txType := c.Query("type"); txType != "" {
		if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo inválido"})
			return
		}
		args = append(args, txType)
		where += fmt.Sprintf(" AND t.type = $%d", len(args))
	}

	if categoryID := c.Query("category_id"); categoryID != "" {
		args = append(args, categoryID)
		where += fmt.Sprintf(" AND t.category_id = $%d", len(args))
	}

	if search := c.Query("search"); search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND (t.description ILIKE $%d OR t.notes ILIKE $%d)", len(args), len(args))
	}

	sortBy, ok := sortColumns[c.DefaultQuery("sort_by", "date")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro sort_by inválido"})
		return
	}
	sortOrder := c.DefaultQuery("sort_order", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro sort_order inválido"})
		return
	}

	var total int
	err = h.DB.QueryRow(`SELECT COUNT(*) FROM transactions t WHERE `+where, args...).Scan(&total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.user_id, t.type, t.description, t.amount, t.date, t.category_id,
		       t.payment_method, t.notes, t.created_at, t.updated_at, c.name, c.color
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, sortBy, sortOrder, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	defer rows.Close()

	items := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransactionRow(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
			return
		}
		items = append(items, t)
	}

	c.JSON(http.StatusOK, models.TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	})
}

func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.ownedCategory(userID, req.CategoryID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	if category.Type != models.CategoryTypeBoth && category.Type != req.Type {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de categoria incompatível com o tipo de transação"})
		return
	}

	t := models.Transaction{
		ID:            uuid.New().String(),
		UserID:        userID,
		Type:          req.Type,
		Description:   req.Description,
		Amount:        services.Round2(req.Amount),
		Date:          req.Date,
		CategoryID:    req.CategoryID,
		CategoryName:  &category.Name,
		CategoryColor: &category.Color,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	err = h.DB.QueryRow(`
		INSERT INTO transactions (id, user_id, category_id, type, description, amount, date, payment_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`, t.ID, t.UserID, t.CategoryID, t.Type, t.Description, t.Amount, t.Date, t.PaymentMethod, t.Notes).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao criar transação"})
		return
	}

	h.WS.Notify(userID, "transaction_created")
	c.JSON(http.StatusCreated, t)
}

func (h *TransactionHandler) Get(c *gin.Context) {
	t, err := h.transactionByID(c.Param("id"), middleware.GetUserID(c))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transação não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	transactionID := c.Param("id")

	var req models.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.transactionByID(transactionID, userID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transação não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	// The stored transaction must stay compatible with its category, so
	// validate the final (type, category) combination.
	finalType := existing.Type
	if req.Type != nil {
		finalType = *req.Type
	}
	finalCategoryID := existing.CategoryID
	if req.CategoryID != nil {
		finalCategoryID = *req.CategoryID
	}
	category, err := h.ownedCategory(userID, finalCategoryID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	if category.Type != models.CategoryTypeBoth && category.Type != finalType {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de categoria incompatível com o tipo de transação"})
		return
	}

	var amount *float64
	if req.Amount != nil {
		rounded := services.Round2(*req.Amount)
		amount = &rounded
	}

	_, err = h.DB.Exec(`
		UPDATE transactions
		SET type = COALESCE($1, type),
		    description = COALESCE($2, description),
		    amount = COALESCE($3, amount),
		    date = COALESCE($4, date),
		    category_id = COALESCE($5, category_id),
		    payment_method = COALESCE($6, payment_method),
		    notes = COALESCE($7, notes),
		    updated_at = NOW()
		WHERE id = $8 AND user_id = $9 AND deleted_at IS NULL
	`, req.Type, req.Description, amount, req.Date, req.CategoryID, req.PaymentMethod, req.Notes, transactionID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao atualizar transação"})
		return
	}

	updated, err := h.transactionByID(transactionID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	h.WS.Notify(userID, "transaction_updated")
	c.JSON(http.StatusOK, updated)
}

// Delete soft-deletes: the row keeps its data for audit but disappears from
// every query and aggregation.
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	result, err := h.DB.Exec(`
		UPDATE transactions SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transação não encontrada"})
		return
	}

	h.WS.Notify(userID, "transaction_deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Transação deletada com sucesso"})
}

// ============================================================================
// HELPERS
// ============================================================================

// dateRange resolves the list filter range, defaulting to the trailing 30
// days in the reference timezone.
func (h *TransactionHandler) dateRange(c *gin.Context) (time.Time, time.Time, error) {
	startParam := c.Query("start_date")
	endParam := c.Query("end_date")

	if startParam == "" && endParam == "" {
		end := time.Now().In(h.Loc)
		return end.AddDate(0, 0, -30), end, nil
	}

	start := time.Date(1, 1, 1, 0, 0, 0, 0, h.Loc)
	end := time.Date(9999, 12, 31, 23, 59, 59, 0, h.Loc)
	var err error
	if startParam != "" {
		if start, err = parseDateQuery(startParam, false, h.Loc); err != nil {
			return start, end, err
		}
	}
	if endParam != "" {
		if end, err = parseDateQuery(endParam, true, h.Loc); err != nil {
			return start, end, err
		}
	}
	return start, end, nil
}

// parseDateQuery accepts either a bare date or a full RFC 3339 instant. A
// bare end date extends to 23:59:59.
func parseDateQuery(value string, endOfDay bool, loc *time.Location) (time.Time, error) {
	if d, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		if endOfDay {
			d = d.Add(24*time.Hour - time.Second)
		}
		return d, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (h *TransactionHandler) ownedCategory(userID, categoryID string) (models.Category, error) {
	row := h.DB.QueryRow(`
		SELECT id, user_id, name, type, color, icon, created_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`, categoryID, userID)

	var cat models.Category
	var icon sql.NullString
	err := row.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Color, &icon, &cat.CreatedAt)
	if icon.Valid {
		cat.Icon = &icon.String
	}
	return cat, err
}

func (h *TransactionHandler) transactionByID(id, userID string) (models.Transaction, error) {
	row := h.DB.QueryRow(`
		SELECT t.id, t.user_id, t.type, t.description, t.amount, t.date, t.category_id,
		       t.payment_method, t.notes, t.created_at, t.updated_at, c.name, c.color
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.id = $1 AND t.user_id = $2 AND t.deleted_at IS NULL
	`, id, userID)

	var t models.Transaction
	var paymentMethod, notes, catName, catColor sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Description, &t.Amount, &t.Date, &t.CategoryID,
		&paymentMethod, &notes, &t.CreatedAt, &t.UpdatedAt, &catName, &catColor)
	if err != nil {
		return t, err
	}
	t.PaymentMethod = stringPtr(paymentMethod)
	t.Notes = stringPtr(notes)
	t.CategoryName = stringPtr(catName)
	t.CategoryColor = stringPtr(catColor)
	return t, nil
}

func scanTransactionRow(rows *sql.Rows) (models.Transaction, error) {
	var t models.Transaction
	var paymentMethod, notes, catName, catColor sql.NullString
	err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Description, &t.Amount, &t.Date, &t.CategoryID,
		&paymentMethod, &notes, &t.CreatedAt, &t.UpdatedAt, &catName, &catColor)
	if err != nil {
		return t, err
	}
	t.PaymentMethod = stringPtr(paymentMethod)
	t.Notes = stringPtr(notes)
	t.CategoryName = stringPtr(catName)
	t.CategoryColor = stringPtr(catColor)
	return t, nil
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
