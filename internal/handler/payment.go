package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"vpnshop/internal/dto"
	"vpnshop/internal/middleware"
	"vpnshop/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := middleware.UserID(c)

	var req dto.InvoiceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid payment data")
	}

	result, err := h.paymentService.CreateInvoice(ctx, userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// LavaWebhook decodes the body generically: every field takes part in the signature,
// including ones this service does not know about.
func (h *PaymentHandler) LavaWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return badRequest("invalid webhook body")
	}

	result, err := h.paymentService.HandleWebhook(ctx, payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
