package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/library_circulation_app/internal/apperrors"
	portssvc "github.com/SscSPs/library_circulation_app/internal/core/ports/services"
	"github.com/SscSPs/library_circulation_app/internal/core/services"
	"github.com/SscSPs/library_circulation_app/internal/dto"
	"github.com/SscSPs/library_circulation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reservationHandler handles HTTP requests for the reservation queue.
type reservationHandler struct {
	reservationSvc portssvc.ReservationSvcFacade
}

// newReservationHandler creates a new reservationHandler.
func newReservationHandler(reservationSvc portssvc.ReservationSvcFacade) *reservationHandler {
	return &reservationHandler{reservationSvc: reservationSvc}
}

func (h *reservationHandler) createReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reservation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reservation, err := h.reservationSvc.Reserve(c.Request.Context(), req, staffID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateReservation):
			logger.Warn("Duplicate reservation rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrIneligiblePatron):
			logger.Warn("Ineligible patron rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Reservation target not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Reservation rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create reservation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

func (h *reservationHandler) cancelReservation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reservationID := c.Param("reservationID")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.reservationSvc.Cancel(c.Request.Context(), reservationID, staffID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationClosed):
			logger.Warn("Cancellation of closed reservation rejected", slog.String("reservationID", reservationID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Reservation not found", slog.String("reservationID", reservationID))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to cancel reservation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *reservationHandler) getQueue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	copyID := c.Param("copyID")

	reservations, err := h.reservationSvc.GetQueue(c.Request.Context(), copyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to get queue", slog.String("error", err.Error()), slog.String("copyID", copyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.QueueResponse{
		CopyID:       copyID,
		QueueLength:  len(reservations),
		Reservations: dto.ToReservationResponses(reservations),
	})
}

func (h *reservationHandler) listPatronReservations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	patronID := c.Param("patronID")

	reservations, err := h.reservationSvc.ListPatronReservations(c.Request.Context(), patronID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list reservations", slog.String("error", err.Error()), slog.String("patronID", patronID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.ToReservationResponses(reservations))
}

// registerReservationRoutes registers reservation specific routes.
func registerReservationRoutes(group *gin.RouterGroup, reservationSvc portssvc.ReservationSvcFacade) {
	h := newReservationHandler(reservationSvc)

	reservations := group.Group("/reservations")
	{
		reservations.POST("", h.createReservation)
		reservations.DELETE("/:reservationID", h.cancelReservation)
	}
	group.GET("/copies/:copyID/queue", h.getQueue)
	group.GET("/patrons/:patronID/reservations", h.listPatronReservations)
}
