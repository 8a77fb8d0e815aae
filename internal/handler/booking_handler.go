package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/driveloop/carrental-api/internal/dto"
	"github.com/driveloop/carrental-api/internal/middleware"
	"github.com/driveloop/carrental-api/internal/models"
	"github.com/driveloop/carrental-api/internal/service"
	"github.com/driveloop/carrental-api/pkg/stripe"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings/my", h.MyBookings)
	g.POST("/bookings/cancel", h.CancelBooking)
}

func (h *BookingHandler) RegisterOwnerRoutes(g *echo.Group) {
	g.GET("/bookings", h.OwnerBookings)
	g.POST("/bookings/approve", h.ApproveBooking)
	g.POST("/bookings/reject", h.RejectBooking)
	g.POST("/bookings/complete", h.CompleteBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing details")
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start date")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end date")
	}

	url, err := h.svc.CreateBooking(c.Request().Context(), middleware.UserID(c), req.CarID, start, end)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.CheckoutResponse{
		Success: true,
		Message: "Payment initialized",
		URL:     url,
	})
}

func (h *BookingHandler) MyBookings(c echo.Context) error {
	bookings, err := h.svc.MyBookings(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.BookingsResponse{Success: true, Bookings: bookings})
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	var req dto.BookingActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "booking id is required")
	}

	if _, err := h.svc.CancelBooking(c.Request().Context(), middleware.UserID(c), req.BookingID); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.OK("Booking cancelled successfully"))
}

func (h *BookingHandler) OwnerBookings(c echo.Context) error {
	bookings, err := h.svc.OwnerBookings(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.BookingsResponse{Success: true, Bookings: bookings})
}

func (h *BookingHandler) ApproveBooking(c echo.Context) error {
	return h.ownerAction(c, h.svc.ApproveBooking, "Booking approved successfully")
}

func (h *BookingHandler) RejectBooking(c echo.Context) error {
	return h.ownerAction(c, h.svc.RejectBooking, "Booking rejected successfully")
}

func (h *BookingHandler) CompleteBooking(c echo.Context) error {
	return h.ownerAction(c, h.svc.CompleteBooking, "Booking marked as completed")
}

func (h *BookingHandler) ownerAction(
	c echo.Context,
	action func(ctx context.Context, ownerID, bookingID string) (*models.Booking, error),
	message string,
) error {
	var req dto.BookingActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "booking id is required")
	}

	booking, err := action(c.Request().Context(), middleware.UserID(c), req.BookingID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.BookingResponse{Success: true, Message: message, Booking: booking})
}

// parseDate accepts plain dates and RFC3339 timestamps; plain dates
// land on UTC midnight so day arithmetic stays exact.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// serviceError maps service-level failures onto HTTP status codes; the
// central error handler renders the {success:false, message} envelope.
func serviceError(err error) error {
	var te *service.TransitionError
	switch {
	case errors.Is(err, service.ErrCarNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrPurchaseNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrMissingPurchaseRef):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDateConflict),
		errors.Is(err, service.ErrAlreadyCancelled):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &te):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, stripe.ErrInvalidSignature):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, stripe.ErrGateway):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
