package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/manoj0277/agrirent-backend/services/booking"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Svc    booking.LifecycleService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.LifecycleService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// statusFor maps domain failure kinds to HTTP codes. Capacity and state
// failures read as "no longer available" conflicts; a stale write tells the
// client to refresh and re-decide.
func statusFor(err error) int {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrInvalidStateTransition),
		errors.Is(err, booking.ErrInsufficientCapacity):
		return http.StatusConflict
	case errors.Is(err, booking.ErrOTPMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, booking.ErrStaleWrite):
		return http.StatusPreconditionFailed
	case errors.Is(err, booking.ErrInvalidDuration):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *BookingHandler) fail(c *gin.Context, err error) {
	h.Logger.Warn("booking operation failed", zap.Error(err))
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// GetBookingHandler returns the current booking record.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Svc.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// AcceptHandler resolves a pending request against a provider+item pair.
func (h *BookingHandler) AcceptHandler(c *gin.Context) {
	var req booking.AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.BookingID = c.Param("id")

	res, err := h.Svc.Accept(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RejectHandler lets the bound provider decline a direct request.
func (h *BookingHandler) RejectHandler(c *gin.Context) {
	var req struct {
		ProviderID string `json:"providerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Svc.Reject(c.Request.Context(), c.Param("id"), req.ProviderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelHandler cancels a booking on the requester's behalf.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	b, err := h.Svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ArrivedHandler marks provider arrival and issues the work code.
func (h *BookingHandler) ArrivedHandler(c *gin.Context) {
	var req struct {
		ProviderID string `json:"providerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Svc.MarkArrived(c.Request.Context(), c.Param("id"), req.ProviderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// VerifyWorkCodeHandler checks the submitted code and starts the work.
func (h *BookingHandler) VerifyWorkCodeHandler(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Svc.VerifyWorkCode(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteHandler closes the work interval and computes the final price.
func (h *BookingHandler) CompleteHandler(c *gin.Context) {
	b, err := h.Svc.CompleteWork(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// PaymentHandler records the settled payment and completes the booking.
func (h *BookingHandler) PaymentHandler(c *gin.Context) {
	var req struct {
		Method string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Svc.RecordPayment(c.Request.Context(), c.Param("id"), req.Method)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DisputeHandler raises a dispute on a completed booking.
func (h *BookingHandler) DisputeHandler(c *gin.Context) {
	b, err := h.Svc.RaiseDispute(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DamageHandler reports equipment damage on site.
func (h *BookingHandler) DamageHandler(c *gin.Context) {
	b, err := h.Svc.ReportDamage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
