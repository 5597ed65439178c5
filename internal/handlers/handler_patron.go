package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/dto"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// patronHandler handles HTTP requests for patron accounts.
type patronHandler struct {
	patronSvc portssvc.PatronSvcFacade
}

// newPatronHandler creates a new patronHandler.
func newPatronHandler(patronSvc portssvc.PatronSvcFacade) *patronHandler {
	return &patronHandler{patronSvc: patronSvc}
}

func (h *patronHandler) createPatron(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePatronRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for patron creation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	patron, err := h.patronSvc.CreatePatron(c.Request.Context(), req, staffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate patron rejected", slog.String("email", req.Email))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create patron", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, dto.ToPatronResponse(patron))
}

func (h *patronHandler) getPatron(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patronID := c.Param("patronID")

	patron, err := h.patronSvc.GetPatron(c.Request.Context(), patronID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to get patron", slog.String("error", err.Error()), slog.String("patronID", patronID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.ToPatronResponse(patron))
}

func (h *patronHandler) listPatrons(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	patrons, err := h.patronSvc.ListPatrons(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list patrons", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.ToPatronResponses(patrons))
}

func (h *patronHandler) updatePatron(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patronID := c.Param("patronID")

	var req dto.UpdatePatronRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for patron update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	patron, err := h.patronSvc.UpdatePatron(c.Request.Context(), patronID, req, staffID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update patron", slog.String("error", err.Error()), slog.String("patronID", patronID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToPatronResponse(patron))
}

func (h *patronHandler) deletePatron(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patronID := c.Param("patronID")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.patronSvc.DeletePatron(c.Request.Context(), patronID, staffID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to delete patron", slog.String("error", err.Error()), slog.String("patronID", patronID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// registerPatronRoutes registers patron account routes.
func registerPatronRoutes(group *gin.RouterGroup, patronSvc portssvc.PatronSvcFacade) {
	h := newPatronHandler(patronSvc)

	patrons := group.Group("/patrons")
	{
		patrons.POST("", h.createPatron)
		patrons.GET("", h.listPatrons)
		patrons.GET("/:patronID", h.getPatron)
		patrons.PUT("/:patronID", h.updatePatron)
		patrons.DELETE("/:patronID", h.deletePatron)
	}
}
