package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vpnshop/internal/dto"
	"vpnshop/internal/middleware"
	"vpnshop/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := middleware.UserID(c)

	orders, err := h.orderService.GetOrdersForUser(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.OrdersResponse{Orders: orders})
}

// SimulateOrder turns the cart into a simulated order without a payment.
func (h *OrderHandler) SimulateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := middleware.UserID(c)

	order, err := h.orderService.CreateFromCart(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.SimulateOrderResponse{OrderID: order.ID})
}
