package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seopilot/seopilot-golang/internal/auth"
	"github.com/seopilot/seopilot-golang/internal/middleware"
	"github.com/seopilot/seopilot-golang/internal/models"
	"github.com/seopilot/seopilot-golang/internal/plans"
)

// RegisterUserInput is the JSON body for POST /api/auth/register.
// Separate from models.User so callers can never set id/plan directly.
type RegisterUserInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register is the handler for POST /api/auth/register.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// 3. --- Create User Model ---
	// New accounts start on the free tier.
	planID := plans.PlanFree
	user := &models.User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: password.Hash,
		PlanID:       &planID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// 4. --- Save to Database ---
	query := `
		INSERT INTO users
		(email, password_hash, full_name, plan_id, gsc_connected, created_at, updated_at)
		VALUES
		(?, ?, ?, ?, false, ?, ?)`

	result, err := h.DB.Exec(query, user.Email, user.PasswordHash, user.FullName, planID, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		// Most likely the UNIQUE constraint on 'email'.
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}
	user.ID, _ = result.LastInsertId()

	// 5. --- Issue a Session Token ---
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// LoginInput is the JSON body for POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /api/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	var planID sql.NullString
	query := "SELECT id, email, password_hash, full_name, plan_id FROM users WHERE email = ?"
	err := h.DB.QueryRow(query, input.Email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &planID)
	if err != nil {
		// Same response for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if planID.Valid {
		user.PlanID = &planID.String
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// GetMe is the handler for GET /api/user/me.
func (h *Handlers) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var user models.User
	var planID sql.NullString
	query := `
		SELECT id, email, full_name, plan_id, gsc_connected, created_at, updated_at
		FROM users WHERE id = ?`
	err := h.DB.QueryRow(query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&planID,
		&user.GSCConnected,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	if planID.Valid {
		user.PlanID = &planID.String
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
