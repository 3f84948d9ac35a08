package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/core/domain"
)

type stubProductService struct {
	products map[string]domain.Product
}

func (s *stubProductService) List(_ context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (s *stubProductService) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	p.ID = "new"
	s.products[p.ID] = *p
	return p, nil
}

func (s *stubProductService) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if _, ok := s.products[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	s.products[p.ID] = *p
	return p, nil
}

func (s *stubProductService) Delete(_ context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubProductService) AdjustStock(context.Context, string, int) error { return nil }

func decodeInto(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
}

var admin = &domain.Session{ID: "s2", UserID: "a1", Role: domain.RoleAdmin}

func newCatalog() *stubProductService {
	return &stubProductService{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Vitamin C", Price: 12.5, Stock: 10, Category: domain.CategoryVitamins, AgeGroup: domain.AgeGroupAdult},
	}}
}

func TestAdminHandler_CreateProduct(t *testing.T) {
	catalog := newCatalog()
	h := NewAdminHandler(catalog, &stubOrderService{})

	c, rec := newContext(http.MethodPost, "/api/admin/products",
		`{"name":" Zinc ","price":8,"stock":3,"category":"supplements","ageGroup":"teen"}`, admin)
	if err := h.CreateProduct(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decode(t, rec.Body.Bytes())
	if resp["message"] != "Product created successfully" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if catalog.products["new"].Name != "Zinc" {
		t.Fatalf("expected trimmed name, got %q", catalog.products["new"].Name)
	}
}

func TestAdminHandler_CreateProduct_Validation(t *testing.T) {
	h := NewAdminHandler(newCatalog(), &stubOrderService{})
	c, _ := newContext(http.MethodPost, "/api/admin/products",
		`{"name":"Zinc","price":-1,"category":"herbs","ageGroup":"teen"}`, admin)

	var he *echo.HTTPError
	err := h.CreateProduct(c)
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if he.Message != "price must not be negative; category must be one of: vitamins, supplements, aromatherapy" {
		t.Fatalf("unexpected message %v", he.Message)
	}
}

func TestAdminHandler_UpdateAndDeleteProduct(t *testing.T) {
	catalog := newCatalog()
	h := NewAdminHandler(catalog, &stubOrderService{})

	c, rec := newContext(http.MethodPut, "/api/admin/products/p1",
		`{"name":"Vitamin C 1000","price":15,"stock":4,"category":"vitamins","ageGroup":"adult"}`, admin)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.UpdateProduct(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp := decode(t, rec.Body.Bytes()); resp["message"] != "Product updated successfully" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if catalog.products["p1"].Price != 15 {
		t.Fatalf("expected price 15, got %v", catalog.products["p1"].Price)
	}

	c, rec = newContext(http.MethodDelete, "/api/admin/products/p1", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.DeleteProduct(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if resp := decode(t, rec.Body.Bytes()); resp["message"] != "Product deleted successfully" {
		t.Fatalf("unexpected response: %v", resp)
	}

	c, _ = newContext(http.MethodDelete, "/api/admin/products/p1", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.DeleteProduct(c); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAdminHandler_UpdateOrderStatus(t *testing.T) {
	orders := &stubOrderService{
		statusFn: func(_ context.Context, id, status string) (*domain.Order, error) {
			if id != "o1" {
				return nil, domain.ErrOrderNotFound
			}
			return &domain.Order{ID: id, Status: domain.OrderStatus(status)}, nil
		},
	}
	h := NewAdminHandler(newCatalog(), orders)

	c, rec := newContext(http.MethodPut, "/api/admin/orders", `{"orderId":"o1","status":"shipped"}`, admin)
	if err := h.UpdateOrderStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec.Body.Bytes())
	if resp["message"] != "Order status updated" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if order := resp["order"].(map[string]any); order["status"] != "shipped" {
		t.Fatalf("unexpected order: %v", order)
	}

	c, _ = newContext(http.MethodPut, "/api/admin/orders", `{"orderId":"o9","status":"shipped"}`, admin)
	if err := h.UpdateOrderStatus(c); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestProductHandler(t *testing.T) {
	h := NewProductHandler(newCatalog())

	c, rec := newContext(http.MethodGet, "/api/products?category=aromatherapy", "", nil)
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}

	c, rec = newContext(http.MethodGet, "/api/products/p1", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp := decode(t, rec.Body.Bytes()); resp["ageGroup"] != "adult" {
		t.Fatalf("unexpected product: %v", resp)
	}
}

func multipartRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = fw.Write([]byte(content))
	}
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestImageHandler_Upload(t *testing.T) {
	images := &stubImageService{}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(multipartRequest(t, "image", "lavender.png", "png-bytes"), rec)

	if err := NewImageHandler(images, zerolog.Nop()).Upload(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec.Body.Bytes())
	if resp["imageUrl"] != "/api/images/abc.png" || resp["fileName"] != "abc.png" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if images.uploaded != "lavender.png" || images.content != "png-bytes" {
		t.Fatalf("unexpected upload: %q %q", images.uploaded, images.content)
	}
}

func TestImageHandler_Upload_Errors(t *testing.T) {
	e := echo.New()

	c := e.NewContext(multipartRequest(t, "", "", ""), httptest.NewRecorder())
	var he *echo.HTTPError
	if err := NewImageHandler(&stubImageService{}, zerolog.Nop()).Upload(c); !errors.As(err, &he) || he.Message != "No image file provided" {
		t.Fatalf("expected No image file provided, got %v", err)
	}

	c = e.NewContext(multipartRequest(t, "image", "notes.txt", "x"), httptest.NewRecorder())
	if err := NewImageHandler(&stubImageService{err: domain.ErrInvalidImage}, zerolog.Nop()).Upload(c); !errors.Is(err, domain.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}

	c = e.NewContext(multipartRequest(t, "image", "a.png", "x"), httptest.NewRecorder())
	var logs bytes.Buffer
	err := NewImageHandler(&stubImageService{err: errors.New("disk full")}, zerolog.New(&logs)).Upload(c)
	if !errors.As(err, &he) || he.Code != http.StatusInternalServerError || he.Message != "Failed to upload image: disk full" {
		t.Fatalf("expected 500 upload failure, got %v", err)
	}
	if !bytes.Contains(logs.Bytes(), []byte(`"message":"image upload failed"`)) || !bytes.Contains(logs.Bytes(), []byte(`"file":"a.png"`)) {
		t.Fatalf("upload failure not logged: %s", logs.String())
	}
}

func TestImageHandler_Serve(t *testing.T) {
	h := NewImageHandler(&stubImageService{}, zerolog.Nop())

	c, rec := newContext(http.MethodGet, "/api/images/abc.png", "", nil)
	c.SetParamNames("name")
	c.SetParamValues("abc.png")
	if err := h.Serve(c); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if rec.Body.String() != "png" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "public, max-age=86400" {
		t.Fatalf("unexpected Cache-Control %q", rec.Header().Get("Cache-Control"))
	}
	if rec.Header().Get(echo.HeaderContentType) != "image/png" {
		t.Fatalf("unexpected content type %q", rec.Header().Get(echo.HeaderContentType))
	}

	c, _ = newContext(http.MethodGet, "/api/images/x.png", "", nil)
	c.SetParamNames("name")
	c.SetParamValues("x.png")
	if err := h.Serve(c); !errors.Is(err, domain.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}
