package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aurawell/storefront/internal/api/metrics"
	"github.com/aurawell/storefront/internal/core/ports"
)

type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create checks out the caller's cart.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      createOrderRequest  true  "Shipping address"
// @Success      201   {object}  createOrderResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.Checkout(c.Request().Context(), sess.UserID, req.ShippingAddress)
	if err != nil {
		return err
	}

	metrics.OrdersPlacedTotal.Inc()
	metrics.OrderAmount.Observe(order.TotalAmount)
	return c.JSON(http.StatusCreated, createOrderResponse{
		Success:     true,
		Message:     "Order placed successfully",
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
	})
}

// List returns the caller's orders, newest first.
//
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListForUser(c.Request().Context(), sess.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderList(orders))
}
