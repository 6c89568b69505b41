package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fingestao/fingestao-api/middleware"
	"github.com/fingestao/fingestao-api/models"
)

type GoalHandler struct {
	DB *sql.DB
	WS *WSHandler
}

func (h *GoalHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.DB.Query(`
		SELECT id, user_id, name, target_amount, current_amount, deadline, icon, color, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := scanGoal(rows.Scan, &g); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
			return
		}
		g.ComputeProgress()
		goals = append(goals, g)
	}

	c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	color := req.Color
	if color == "" {
		color = "#6366f1"
	}

	g := models.Goal{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Deadline:      req.Deadline,
		Icon:          req.Icon,
		Color:         color,
	}

	err := h.DB.QueryRow(`
		INSERT INTO goals (id, user_id, name, target_amount, current_amount, deadline, icon, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`, g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Icon, g.Color).
		Scan(&g.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao criar meta"})
		return
	}

	g.ComputeProgress()
	h.WS.Notify(userID, "goal_created")
	c.JSON(http.StatusCreated, g)
}

func (h *GoalHandler) Get(c *gin.Context) {
	g, err := h.goalByID(c.Param("id"), middleware.GetUserID(c))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meta não encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	g.ComputeProgress()
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	goalID := c.Param("id")

	var req models.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.DB.Exec(`
		UPDATE goals
		SET name = COALESCE($1, name),
		    target_amount = COALESCE($2, target_amount),
		    current_amount = COALESCE($3, current_amount),
		    deadline = COALESCE($4, deadline),
		    icon = COALESCE($5, icon),
		    color = COALESCE($6, color)
		WHERE id = $7 AND user_id = $8
	`, req.Name, req.TargetAmount, req.CurrentAmount, req.Deadline, req.Icon, req.Color, goalID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao atualizar meta"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meta não encontrada"})
		return
	}

	g, err := h.goalByID(goalID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	g.ComputeProgress()
	h.WS.Notify(userID, "goal_updated")
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)

	result, err := h.DB.Exec(`DELETE FROM goals WHERE id = $1 AND user_id = $2`, c.Param("id"), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meta não encontrada"})
		return
	}

	h.WS.Notify(userID, "goal_deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Meta deletada com sucesso"})
}

func (h *GoalHandler) goalByID(id, userID string) (models.Goal, error) {
	row := h.DB.QueryRow(`
		SELECT id, user_id, name, target_amount, current_amount, deadline, icon, color, created_at
		FROM goals
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	var g models.Goal
	err := scanGoal(row.Scan, &g)
	return g, err
}

func scanGoal(scan func(...interface{}) error, g *models.Goal) error {
	var deadline sql.NullTime
	var icon sql.NullString
	err := scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline, &icon, &g.Color, &g.CreatedAt)
	if err != nil {
		return err
	}
	if deadline.Valid {
		g.Deadline = &deadline.Time
	}
	if icon.Valid {
		g.Icon = &icon.String
	}
	return nil
}
