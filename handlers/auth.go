package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fingestao/fingestao-api/middleware"
	"github.com/fingestao/fingestao-api/models"
	"github.com/fingestao/fingestao-api/services"
	"github.com/fingestao/fingestao-api/utils"
)

type AuthHandler struct {
	DB      *sql.DB
	Tokens  *services.TokenService
	Limiter services.LoginLimiter
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Senhas não conferem"})
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(req.Email)

	var exists bool
	err := h.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email já cadastrado"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao processar senha"})
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      req.Name,
		Theme:     "dark",
		CreatedAt: now,
	}

	err = utils.WithTransaction(h.DB, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO users (id, email, password_hash, name, theme, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`, user.ID, user.Email, passwordHash, user.Name, user.Theme, now)
		if err != nil {
			return err
		}

		for _, cat := range models.DefaultCategories {
			_, err := tx.Exec(`
				INSERT INTO categories (id, user_id, name, type, color, icon, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, uuid.New().String(), user.ID, cat.Name, cat.Type, cat.Color, cat.Icon, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao criar usuário"})
		return
	}

	accessToken, refreshToken, err := h.Tokens.IssuePair(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar tokens"})
		return
	}

	utils.SafeInfo("New user registered: %s", email)

	c.JSON(http.StatusCreated, models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(req.Email)

	if !h.Limiter.Allow(email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Muitas tentativas. Tente novamente em 15 minutos."})
		return
	}

	user, err := h.userByEmail(email)
	if err == sql.ErrNoRows {
		h.Limiter.Record(email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou senha incorretos"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		h.Limiter.Record(email, false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou senha incorretos"})
		return
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Código 2FA obrigatório", "requires_2fa": true})
			return
		}
		if !utils.VerifyTOTP(user.TOTPSecret, req.TOTPCode) {
			h.Limiter.Record(email, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Código 2FA inválido"})
			return
		}
	}

	h.Limiter.Record(email, true)

	accessToken, refreshToken, err := h.Tokens.IssuePair(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar tokens"})
		return
	}

	utils.SafeInfo("User logged in: %s", email)

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         user,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, accessToken, refreshToken, err := h.Tokens.Rotate(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido ou revogado"})
		return
	}

	user, err := h.userByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuário não encontrado"})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Tokens.Revoke(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuário não encontrado"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateSettings(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil || req.Theme != nil {
		_, err := h.DB.Exec(`
			UPDATE users
			SET name = COALESCE($1, name),
			    theme = COALESCE($2, theme),
			    updated_at = NOW()
			WHERE id = $3
		`, req.Name, req.Theme, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao atualizar configurações"})
			return
		}
	}

	user, err := h.userByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ============================================================================
// 2FA
// ============================================================================

func (h *AuthHandler) SetupTOTP(c *gin.Context) {
	user, err := h.userByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuário não encontrado"})
		return
	}

	secret, url, err := utils.GenerateTOTPSecret(user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar segredo 2FA"})
		return
	}

	_, err = h.DB.Exec(`UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2`, secret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	c.JSON(http.StatusOK, models.TOTPSetupResponse{Secret: secret, URL: url})
}

func (h *AuthHandler) VerifyTOTP(c *gin.Context) {
	var req models.VerifyTOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuário não encontrado"})
		return
	}
	if user.TOTPSecret == "" || !utils.VerifyTOTP(user.TOTPSecret, req.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Código 2FA inválido"})
		return
	}

	_, err = h.DB.Exec(`UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1`, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA ativado com sucesso"})
}

func (h *AuthHandler) DisableTOTP(c *gin.Context) {
	userID := middleware.GetUserID(c)

	_, err := h.DB.Exec(`UPDATE users SET totp_enabled = FALSE, totp_secret = NULL, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no banco de dados"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "2FA desativado com sucesso"})
}

// ============================================================================
// HELPERS
// ============================================================================

func (h *AuthHandler) userByEmail(email string) (models.User, error) {
	return h.scanUser(h.DB.QueryRow(`
		SELECT id, email, name, theme, password_hash, COALESCE(totp_secret, ''), totp_enabled, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email))
}

func (h *AuthHandler) userByID(id string) (models.User, error) {
	return h.scanUser(h.DB.QueryRow(`
		SELECT id, email, name, theme, password_hash, COALESCE(totp_secret, ''), totp_enabled, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id))
}

func (h *AuthHandler) scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Theme,
		&user.PasswordHash, &user.TOTPSecret, &user.TOTPEnabled,
		&user.CreatedAt, &user.UpdatedAt)
	return user, err
}
