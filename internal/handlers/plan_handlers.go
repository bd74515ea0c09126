package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seopilot/seopilot-golang/internal/middleware"
	"github.com/seopilot/seopilot-golang/internal/models"
	"github.com/seopilot/seopilot-golang/internal/plans"
)

const planColumns = `id, name, audits_per_month, max_pages, max_sites, white_label,
	price, auto_indexing, report_frequency, created_at, updated_at`

func scanPlan(row interface{ Scan(...interface{}) error }, plan *models.Plan) error {
	return row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.AuditsPerMonth,
		&plan.MaxPages,
		&plan.MaxSites,
		&plan.WhiteLabel,
		&plan.Price,
		&plan.AutoIndexing,
		&plan.ReportFrequency,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
}

// GetPlans is the handler for GET /api/plans (public).
// The pricing page renders these cheapest-first.
func (h *Handlers) GetPlans(c *gin.Context) {
	rows, err := h.DB.Query("SELECT " + planColumns + " FROM plans ORDER BY price ASC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var planList []*models.Plan
	for rows.Next() {
		var plan models.Plan
		if err := scanPlan(rows, &plan); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan plan row"})
			return
		}
		planList = append(planList, &plan)
	}

	c.JSON(http.StatusOK, gin.H{"plans": planList})
}

// GetUserPlan is the handler for GET /api/user/plan.
// Returns the caller's current plan row plus its derived capabilities.
func (h *Handlers) GetUserPlan(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	planID, err := h.userPlanID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	// A user without a plan still gets the default capability set;
	// the plan object itself is just null in that case.
	response := gin.H{
		"plan":         nil,
		"capabilities": plans.ForPlan(planID),
	}

	if planID != "" {
		var plan models.Plan
		err := scanPlan(h.DB.QueryRow("SELECT "+planColumns+" FROM plans WHERE id = ?", planID), &plan)
		if err != nil && err != sql.ErrNoRows {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
			return
		}
		if err == nil {
			response["plan"] = plan
		}
	}

	c.JSON(http.StatusOK, response)
}

// SwitchPlanInput is the JSON body for PATCH /api/user/plan.
// planId is a raw interface so a non-string value can be told apart
// from a missing one and rejected explicitly.
type SwitchPlanInput struct {
	PlanID interface{} `json:"planId"`
}

// SwitchPlan is the handler for PATCH /api/user/plan.
// There is no payment step: switching is free and unconditional as
// long as the target plan exists.
func (h *Handlers) SwitchPlan(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	// 1. --- Bind & Validate Input ---
	var input SwitchPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	planID, isString := input.PlanID.(string)
	if !isString || planID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "planId is required and must be a string"})
		return
	}

	// 2. --- Validate the Target Plan Exists ---
	var exists bool
	err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM plans WHERE id = ?)", planID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown plan"})
		return
	}

	// 3. --- Reassign ---
	// RowsAffected is no signal here: MySQL reports 0 when the user
	// re-selects the plan they already have.
	if _, err := h.DB.Exec("UPDATE users SET plan_id = ?, updated_at = NOW() WHERE id = ?", planID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to switch plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"planId":  planID,
	})
}
