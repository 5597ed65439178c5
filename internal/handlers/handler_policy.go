package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/dto"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// policyHandler handles HTTP requests for loan policy administration.
type policyHandler struct {
	policySvc portssvc.LoanPolicySvcFacade
}

// newPolicyHandler creates a new policyHandler.
func newPolicyHandler(policySvc portssvc.LoanPolicySvcFacade) *policyHandler {
	return &policyHandler{policySvc: policySvc}
}

func (h *policyHandler) getPolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemType := c.Param("itemType")

	policy, err := h.policySvc.GetLoanPolicy(c.Request.Context(), domain.ItemType(itemType))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to get loan policy", slog.String("error", err.Error()), slog.String("itemType", itemType))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanPolicyResponse(policy))
}

func (h *policyHandler) listPolicies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	policies, err := h.policySvc.ListLoanPolicies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list loan policies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanPolicyResponses(policies))
}

func (h *policyHandler) upsertPolicy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpsertLoanPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for policy upsert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	policy, err := h.policySvc.UpsertLoanPolicy(c.Request.Context(), req, staffID)
	if err != nil {
		logger.Error("Failed to upsert loan policy", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanPolicyResponse(policy))
}

// registerPolicyRoutes registers loan policy admin routes.
func registerPolicyRoutes(group *gin.RouterGroup, policySvc portssvc.LoanPolicySvcFacade) {
	h := newPolicyHandler(policySvc)

	policies := group.Group("/policies")
	{
		policies.GET("", h.listPolicies)
		policies.GET("/:itemType", h.getPolicy)
		policies.PUT("", h.upsertPolicy)
	}
}
