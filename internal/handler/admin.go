package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"vpnshop/internal/dto"
	"vpnshop/internal/middleware"
	"vpnshop/internal/service"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) Check(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := middleware.UserID(c)

	isAdmin, err := h.adminService.IsAdmin(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.AdminCheckResponse{IsAdmin: isAdmin})
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	actorID, _ := middleware.UserID(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		return badRequest("invalid user id")
	}

	if err := h.adminService.DeleteUser(ctx, actorID, uint(userID)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.adminService.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &dto.OrdersResponse{Orders: orders})
}

func (h *AdminHandler) SetOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SetOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	if err := h.adminService.SetOrderStatus(ctx, req.OrderID, req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
