package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"vpnshop/internal/apperr"
	"vpnshop/internal/dto"
)

// ErrorHandler renders every error as {"error": message}. Internal failures are
// logged with their cause and answered with a generic message.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			kind := apperr.KindOf(err)
			status = kind.Status()
			message = apperr.PublicMessage(err)
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, &dto.ErrorResponse{Error: message})
		}
		if err != nil {
			logger.Error("write error response", zap.Error(err))
		}
	}
}

func badRequest(message string) error {
	return apperr.E(apperr.ErrInvalidArgument, message)
}
