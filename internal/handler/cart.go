package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vpnshop/internal/dto"
	"vpnshop/internal/middleware"
	"vpnshop/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := middleware.UserID(c)

	items, err := h.cartService.GetItems(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.CartResponse{Items: items})
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := middleware.UserID(c)

	var req dto.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	items, err := h.cartService.AddItem(ctx, userID, req.ProductID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.CartResponse{Items: items})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := middleware.UserID(c)

	items, err := h.cartService.RemoveItem(ctx, userID, c.QueryParam("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.CartResponse{Items: items})
}
