package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vpnshop/internal/catalog"
)

type ProductHandler struct {
	catalog *catalog.Catalog
}

func NewProductHandler(catalog *catalog.Catalog) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
	}
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"products": h.catalog.List()})
}
