package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"vpnshop/internal/dto"
	"vpnshop/internal/middleware"
	"vpnshop/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := middleware.UserID(c)

	orderID, err := strconv.ParseUint(c.QueryParam("orderId"), 10, 64)
	if err != nil || orderID == 0 {
		return badRequest("orderId is required")
	}

	sub, err := h.subscriptionService.GetForUser(ctx, userID, uint(orderID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.SubscriptionResponse{
		SubscriptionLink: sub.Credential,
		ProductID:        sub.ProductID,
		ExpiresAt:        sub.ExpiresAt,
	})
}
