package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// --- Auth ---

func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	var out MeResponse
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.Do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, data RegisterData) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/register", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/logout", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Products ---

// ListProducts returns the catalog, optionally narrowed to one category.
func (c *Client) ListProducts(ctx context.Context, category string) ([]Product, error) {
	path := "/products"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var out []Product
	if err := c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.Do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Cart ---

func (c *Client) GetCart(ctx context.Context) (*CartResponse, error) {
	var out CartResponse
	if err := c.Do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) (*MessageResponse, error) {
	var out MessageResponse
	body := map[string]any{"productId": productID, "quantity": quantity}
	if err := c.Do(ctx, http.MethodPost, "/cart", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (*MessageResponse, error) {
	var out MessageResponse
	body := map[string]int{"quantity": quantity}
	if err := c.Do(ctx, http.MethodPut, "/cart/"+url.PathEscape(productID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, productID string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(productID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ClearCart(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, http.MethodDelete, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Orders ---

func (c *Client) CreateOrder(ctx context.Context, shippingAddress string) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	body := map[string]string{"shippingAddress": shippingAddress}
	if err := c.Do(ctx, http.MethodPost, "/orders", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.Do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Admin ---

func (c *Client) AdminListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.Do(ctx, http.MethodGet, "/admin/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminCreateProduct(ctx context.Context, in ProductInput) (*ProductResponse, error) {
	var out ProductResponse
	if err := c.Do(ctx, http.MethodPost, "/admin/products", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminUpdateProduct(ctx context.Context, id string, in ProductInput) (*ProductResponse, error) {
	var out ProductResponse
	if err := c.Do(ctx, http.MethodPut, "/admin/products/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminDeleteProduct(ctx context.Context, id string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, http.MethodDelete, "/admin/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminListOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.Do(ctx, http.MethodGet, "/admin/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminUpdateOrderStatus(ctx context.Context, orderID, status string) (*OrderResponse, error) {
	var out OrderResponse
	body := map[string]string{"orderId": orderID, "status": status}
	if err := c.Do(ctx, http.MethodPut, "/admin/orders", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Uploads ---

const maxImageBytes = 10 << 20

var allowedImageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

// UploadImage checks type and size locally, then posts the file as the
// multipart "image" field. size is the file length in bytes.
func (c *Client) UploadImage(ctx context.Context, filename string, size int64, content io.Reader) (*UploadResponse, error) {
	if _, ok := allowedImageExtensions[strings.ToLower(filepath.Ext(filename))]; !ok {
		return nil, &Error{Message: "Invalid file type. Please upload JPG, PNG, GIF, or WebP."}
	}
	if size > maxImageBytes {
		return nil, &Error{Message: "File too large. Maximum size is 10MB."}
	}

	var out UploadResponse
	if err := c.Upload(ctx, "/upload/image", "image", filepath.Base(filename), content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
