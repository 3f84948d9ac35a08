package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aurawell/storefront/internal/core/ports"
)

type ProductHandler struct {
	products ports.ProductService
}

func NewProductHandler(products ports.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List returns the catalog.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "vitamins, supplements or aromatherapy"
// @Success      200       {array}   productResponse
// @Failure      500       {object}  errorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.products.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductList(products))
}

// Get returns one product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}
