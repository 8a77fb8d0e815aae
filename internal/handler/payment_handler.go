package handler

import (
	"io"
	"net/http"

	"github.com/driveloop/carrental-api/internal/dto"
	"github.com/driveloop/carrental-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/payments/verify", h.VerifyPayment)
	g.POST("/payments/cancel", h.CancelPayment)
}

// RegisterWebhook goes on the unauthenticated root: the gateway signs
// its calls, it does not carry our bearer tokens.
func (h *PaymentHandler) RegisterWebhook(e *echo.Echo) {
	e.POST("/api/payments/webhook", h.Webhook)
}

func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "order id is required")
	}

	if err := h.svc.VerifyPayment(c.Request().Context(), req.OrderID, req.Success); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.OK("Payment verified"))
}

func (h *PaymentHandler) CancelPayment(c echo.Context) error {
	var req dto.CancelPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "session id is required")
	}

	if err := h.svc.CancelPayment(c.Request().Context(), req.SessionID); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.OK("Payment cancelled"))
}

func (h *PaymentHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to read payload")
	}

	sig := c.Request().Header.Get("Stripe-Signature")
	if err := h.svc.HandleWebhook(c.Request().Context(), payload, sig); err != nil {
		logrus.WithError(err).Warn("webhook rejected")
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.Response{Success: true})
}
