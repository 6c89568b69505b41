package handlers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fingestao/fingestao-api/middleware"
	"github.com/fingestao/fingestao-api/models"
	"github.com/fingestao/fingestao-api/utils"
)

type CategoryHandler struct {
	DB *sql.DB
}

func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	query := `
		SELECT id, user_id, name, type, color, icon, created_at
		FROM categories
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	// A type filter also matches BOTH categories, which accept either side.
	if catType := c.Query("type"); catType != "" {
		if catType != models.CategoryTypeIncome && catType != models.CategoryTypeExpense && catType != models.CategoryTypeBoth {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de categoria inválido"})
			return
		}
		args = append(args, catType)
		query += fmt.Sprintf(" AND (type = $%d OR type = 'BOTH')", len(args))
	}
	query += " ORDER BY name ASC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Color == "" {
		req.Color = "#6366f1"
	}

	taken, err := h.nameTaken(userID, req.Name, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria já existe"})
		return
	}

	cat := models.Category{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   req.Name,
		Type:   req.Type,
		Color:  req.Color,
		Icon:   req.Icon,
	}

	err = h.DB.QueryRow(`
		INSERT INTO categories (id, user_id, name, type, color, icon, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`, cat.ID, cat.UserID, cat.Name, cat.Type, cat.Color, cat.Icon).Scan(&cat.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao criar categoria"})
		return
	}

	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	cat, err := h.categoryByID(c.Param("id"), middleware.GetUserID(c))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoria não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.categoryByID(categoryID, userID); err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoria não encontrada"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	if req.Name != nil {
		taken, err := h.nameTaken(userID, *req.Name, categoryID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
			return
		}
		if taken {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria já existe"})
			return
		}
	}

	_, err := h.DB.Exec(`
		UPDATE categories
		SET name = COALESCE($1, name),
		    type = COALESCE($2, type),
		    color = COALESCE($3, color),
		    icon = COALESCE($4, icon)
		WHERE id = $5 AND user_id = $6
	`, req.Name, req.Type, req.Color, req.Icon, categoryID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao atualizar categoria"})
		return
	}

	cat, err := h.categoryByID(categoryID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

// Delete removes a category. When live transactions still reference it, the
// caller must name a reassign_to category; reassignment and deletion happen
// in one database transaction.
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	categoryID := c.Param("id")

	if _, err := h.categoryByID(categoryID, userID); err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Categoria não encontrada"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	var txCount int
	err := h.DB.QueryRow(`
		SELECT COUNT(*) FROM transactions
		WHERE category_id = $1 AND user_id = $2 AND deleted_at IS NULL
	`, categoryID, userID).Scan(&txCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	reassignTo := c.Query("reassign_to")
	if txCount > 0 {
		if reassignTo == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Categoria possui %d transações. Forneça uma categoria para reatribuir.", txCount),
			})
			return
		}
		if reassignTo == categoryID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria de reatribuição não encontrada"})
			return
		}
		if _, err := h.categoryByID(reassignTo, userID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria de reatribuição não encontrada"})
			return
		}
	}

	err = utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		if txCount > 0 {
			// Soft-deleted rows move too, so the audit trail keeps a valid
			// category reference.
			_, err := tx.Exec(`
				UPDATE transactions SET category_id = $1
				WHERE category_id = $2 AND user_id = $3
			`, reassignTo, categoryID, userID)
			if err != nil {
				return err
			}
		}
		_, err := tx.Exec(`DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao deletar categoria"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Categoria deletada com sucesso"})
}

// ============================================================================
// HELPERS
// ============================================================================

func (h *CategoryHandler) categoryByID(id, userID string) (models.Category, error) {
	row := h.DB.QueryRow(`
		SELECT id, user_id, name, type, color, icon, created_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	var cat models.Category
	var icon sql.NullString
	err := row.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Color, &icon, &cat.CreatedAt)
	if icon.Valid {
		cat.Icon = &icon.String
	}
	return cat, err
}

func (h *CategoryHandler) nameTaken(userID, name, excludeID string) (bool, error) {
	var exists bool
	err := h.DB.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND id != $3
		)
	`, userID, name, excludeID).Scan(&exists)
	return exists, err
}

func scanCategory(rows *sql.Rows) (models.Category, error) {
	var cat models.Category
	var icon sql.NullString
	err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Color, &icon, &cat.CreatedAt)
	if icon.Valid {
		cat.Icon = &icon.String
	}
	return cat, err
}
