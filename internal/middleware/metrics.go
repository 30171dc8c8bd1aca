package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"vpnshop/internal/metrics"
)

// unmatchedPath labels requests that matched no route.
const unmatchedPath = "unmatched"

func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				// write the error response here so the recorded status is final
				c.Error(err)
			}

			metrics.ObserveHTTP(c.Request().Method, pathLabel(c), strconv.Itoa(c.Response().Status), time.Since(start))
			return nil
		}
	}
}

func pathLabel(c echo.Context) string {
	if path := c.Path(); path != "" {
		return path
	}
	return unmatchedPath
}
