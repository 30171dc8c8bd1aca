package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"vpnshop/internal/auth"
	"vpnshop/internal/dto"
	"vpnshop/internal/middleware"
	"vpnshop/internal/service"
)

type UserHandler struct {
	userService  service.UserService
	secureCookie bool
}

func NewUserHandler(userService service.UserService, secureCookie bool) *UserHandler {
	return &UserHandler{
		userService:  userService,
		secureCookie: secureCookie,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, service.ToUserResponse(user))
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid req body")
	}

	token, claims, err := h.userService.Login(ctx, &req)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	user, err := h.userService.Me(ctx, claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service.ToUserResponse(user))
}

func (h *UserHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if claims, ok := middleware.Claims(c); ok {
		if err := h.userService.Logout(ctx, claims); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *UserHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := middleware.UserID(c)

	user, err := h.userService.Me(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service.ToUserResponse(user))
}
