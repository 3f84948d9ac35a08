package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aurawell/storefront/internal/api/metrics"
	"github.com/aurawell/storefront/internal/core/ports"
)

// AdminHandler serves catalog and order management. Routes are mounted
// behind RBAC(admin).
type AdminHandler struct {
	products ports.ProductService
	orders   ports.OrderService
}

func NewAdminHandler(products ports.ProductService, orders ports.OrderService) *AdminHandler {
	return &AdminHandler{products: products, orders: orders}
}

// ListProducts
//
// @Summary      List products (admin)
// @Tags         admin
// @Produce      json
// @Success      200  {array}   productResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/products [get]
func (h *AdminHandler) ListProducts(c echo.Context) error {
	products, err := h.products.List(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductList(products))
}

// CreateProduct
//
// @Summary      Create a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  productEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/products [post]
func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.products.Create(c.Request().Context(), toProduct("", req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productEnvelope{Success: true, Message: "Product created successfully", Product: toProductResponse(p)})
}

// UpdateProduct
//
// @Summary      Update a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Product ID"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  productEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/products/{id} [put]
func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.products.Update(c.Request().Context(), toProduct(c.Param("id"), req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productEnvelope{Success: true, Message: "Product updated successfully", Product: toProductResponse(p)})
}

// DeleteProduct
//
// @Summary      Delete a product
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/products/{id} [delete]
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	if err := h.products.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Product deleted successfully"})
}

// ListOrders
//
// @Summary      List all orders
// @Tags         admin
// @Produce      json
// @Success      200  {array}   orderResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/orders [get]
func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.orders.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderList(orders))
}

// UpdateOrderStatus
//
// @Summary      Change an order's status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      updateOrderStatusRequest  true  "Order and status"
// @Success      200   {object}  orderEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/orders [put]
func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), req.OrderID, req.Status)
	if err != nil {
		return err
	}
	metrics.OrderStatusChangesTotal.WithLabelValues(string(order.Status)).Inc()
	return c.JSON(http.StatusOK, orderEnvelope{Success: true, Message: "Order status updated", Order: toOrderResponse(order)})
}
