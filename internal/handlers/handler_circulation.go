package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	"github.com/SscSPs/library_circulation_app/internal/core/domain"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/core/services"
	"github.com/SscSPs/library_circulation_app/internal/dto"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// circulationHandler handles HTTP requests for checkout, checkin, renewal and
// the other coordinator operations.
type circulationHandler struct {
	circulationSvc portssvc.CirculationSvcFacade
}

// newCirculationHandler creates a new circulationHandler.
func newCirculationHandler(circulationSvc portssvc.CirculationSvcFacade) *circulationHandler {
	return &circulationHandler{circulationSvc: circulationSvc}
}

// respondCirculationError translates coordinator errors into HTTP responses.
// Eligibility rejections are unprocessable, state conflicts are conflicts,
// anything unrecognized is an internal error with a generic message.
func respondCirculationError(c *gin.Context, err error, logMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, services.ErrIneligiblePatron):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCopyUnavailable),
		errors.Is(err, services.ErrNotCheckedOut),
		errors.Is(err, services.ErrReservedByOthers),
		errors.Is(err, domain.ErrRenewalLimitReached),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, apperrors.ErrConflict):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *circulationHandler) checkout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for checkout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.circulationSvc.Checkout(c.Request.Context(), req, staffID)
	if err != nil {
		respondCirculationError(c, err, "Checkout failed")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *circulationHandler) checkin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for checkin", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.circulationSvc.Checkin(c.Request.Context(), req, staffID)
	if err != nil {
		respondCirculationError(c, err, "Checkin failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *circulationHandler) renew(c *gin.Context) {
	transactionID := c.Param("transactionID")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.circulationSvc.Renew(c.Request.Context(), transactionID, staffID)
	if err != nil {
		respondCirculationError(c, err, "Renewal failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *circulationHandler) markUnshelved(c *gin.Context) {
	copyID := c.Param("copyID")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	copy, err := h.circulationSvc.MarkUnshelved(c.Request.Context(), copyID, staffID)
	if err != nil {
		respondCirculationError(c, err, "Unshelve failed")
		return
	}
	c.JSON(http.StatusOK, dto.ToCopyResponse(copy))
}

func (h *circulationHandler) reshelve(c *gin.Context) {
	copyID := c.Param("copyID")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.circulationSvc.Reshelve(c.Request.Context(), copyID, staffID)
	if err != nil {
		respondCirculationError(c, err, "Reshelve failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *circulationHandler) markLost(c *gin.Context) {
	copyID := c.Param("copyID")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	copy, err := h.circulationSvc.MarkLost(c.Request.Context(), copyID, staffID)
	if err != nil {
		respondCirculationError(c, err, "Mark lost failed")
		return
	}
	c.JSON(http.StatusOK, dto.ToCopyResponse(copy))
}

func (h *circulationHandler) markDamaged(c *gin.Context) {
	copyID := c.Param("copyID")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	copy, err := h.circulationSvc.MarkDamaged(c.Request.Context(), copyID, staffID)
	if err != nil {
		respondCirculationError(c, err, "Mark damaged failed")
		return
	}
	c.JSON(http.StatusOK, dto.ToCopyResponse(copy))
}

func (h *circulationHandler) settleBalance(c *gin.Context) {
	patronID := c.Param("patronID")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.circulationSvc.SettleBalance(c.Request.Context(), patronID, staffID)
	if err != nil {
		respondCirculationError(c, err, "Balance settlement failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *circulationHandler) listPatronTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patronID := c.Param("patronID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for transaction list", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.circulationSvc.ListPatronTransactions(c.Request.Context(), patronID, params)
	if err != nil {
		respondCirculationError(c, err, "Failed to list patron transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *circulationHandler) listCopyTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	copyID := c.Param("copyID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for transaction list", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.circulationSvc.ListCopyTransactions(c.Request.Context(), copyID, params)
	if err != nil {
		respondCirculationError(c, err, "Failed to list copy transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerCirculationRoutes registers the coordinator's routes.
func registerCirculationRoutes(group *gin.RouterGroup, circulationSvc portssvc.CirculationSvcFacade) {
	h := newCirculationHandler(circulationSvc)

	circulation := group.Group("/circulation")
	{
		circulation.POST("/checkout", h.checkout)
		circulation.POST("/checkin", h.checkin)
		circulation.POST("/renew/:transactionID", h.renew)
		circulation.POST("/settle-balance/:patronID", h.settleBalance)
		circulation.POST("/copies/:copyID/unshelve", h.markUnshelved)
		circulation.POST("/copies/:copyID/reshelve", h.reshelve)
		circulation.POST("/copies/:copyID/lost", h.markLost)
		circulation.POST("/copies/:copyID/damaged", h.markDamaged)
		circulation.GET("/patrons/:patronID/transactions", h.listPatronTransactions)
		circulation.GET("/copies/:copyID/transactions", h.listCopyTransactions)
	}
}
