package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aurawell/storefront/internal/api/metrics"
	"github.com/aurawell/storefront/internal/core/ports"
)

type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get returns the caller's cart with server-computed totals.
//
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  errorResponse
// @Router       /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	view, err := h.carts.View(c.Request().Context(), sess.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// Add puts a product in the cart. Quantity defaults to 1.
//
// @Summary      Add to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addToCartRequest  true  "Product and quantity"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /cart [post]
func (h *CartHandler) Add(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Product ID required")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	err = h.carts.Add(c.Request().Context(), sess.UserID, req.ProductID, req.Quantity)
	countMutation("add", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Item added to cart"})
}

// Update sets a line's quantity. Zero removes the line.
//
// @Summary      Update cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId  path      string             true  "Product ID"
// @Param        body       body      updateCartRequest  true  "New quantity"
// @Success      200        {object}  messageResponse
// @Failure      400        {object}  errorResponse
// @Failure      401        {object}  errorResponse
// @Router       /cart/{productId} [put]
func (h *CartHandler) Update(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req updateCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err = h.carts.Update(c.Request().Context(), sess.UserID, c.Param("productId"), req.Quantity)
	countMutation("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Cart updated"})
}

// Remove drops a line from the cart.
//
// @Summary      Remove cart line
// @Tags         cart
// @Produce      json
// @Param        productId  path      string  true  "Product ID"
// @Success      200        {object}  messageResponse
// @Failure      401        {object}  errorResponse
// @Router       /cart/{productId} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	err = h.carts.Remove(c.Request().Context(), sess.UserID, c.Param("productId"))
	countMutation("remove", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Item removed from cart"})
}

// Clear empties the cart.
//
// @Summary      Clear cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	err = h.carts.Clear(c.Request().Context(), sess.UserID)
	countMutation("clear", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Cart cleared"})
}

func countMutation(op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.CartMutationsTotal.WithLabelValues(op, result).Inc()
}
