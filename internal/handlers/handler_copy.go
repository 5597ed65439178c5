package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/dto"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// copyHandler handles HTTP requests for copy inventory.
type copyHandler struct {
	copySvc portssvc.CopySvcFacade
}

// newCopyHandler creates a new copyHandler.
func newCopyHandler(copySvc portssvc.CopySvcFacade) *copyHandler {
	return &copyHandler{copySvc: copySvc}
}

func (h *copyHandler) registerCopy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for copy registration", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	copy, err := h.copySvc.RegisterCopy(c.Request.Context(), req, staffID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate copy rejected", slog.String("barcode", req.Barcode))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to register copy", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, dto.ToCopyResponse(copy))
}

func (h *copyHandler) getCopy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	copyID := c.Param("copyID")

	copy, err := h.copySvc.GetCopy(c.Request.Context(), copyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to get copy", slog.String("error", err.Error()), slog.String("copyID", copyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCopyResponse(copy))
}

func (h *copyHandler) listCopiesByTitle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	titleID := c.Param("titleID")

	copies, err := h.copySvc.ListCopiesByTitle(c.Request.Context(), titleID)
	if err != nil {
		logger.Error("Failed to list copies", slog.String("error", err.Error()), slog.String("titleID", titleID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCopyResponses(copies))
}

func (h *copyHandler) removeCopy(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	copyID := c.Param("copyID")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.copySvc.RemoveCopy(c.Request.Context(), copyID, staffID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Copy removal rejected", slog.String("copyID", copyID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to remove copy", slog.String("error", err.Error()), slog.String("copyID", copyID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// registerCopyRoutes registers copy inventory routes.
func registerCopyRoutes(group *gin.RouterGroup, copySvc portssvc.CopySvcFacade) {
	h := newCopyHandler(copySvc)

	copies := group.Group("/copies")
	{
		copies.POST("", h.registerCopy)
		copies.GET("/:copyID", h.getCopy)
		copies.DELETE("/:copyID", h.removeCopy)
	}
	group.GET("/titles/:titleID/copies", h.listCopiesByTitle)
}
