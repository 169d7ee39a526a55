package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aivanahq/aivana-backend/api/middleware"
	"github.com/aivanahq/aivana-backend/internal/categories"
	productsvc "github.com/aivanahq/aivana-backend/internal/products"
	"github.com/aivanahq/aivana-backend/pkg/db/models"
	"github.com/aivanahq/aivana-backend/pkg/enums"
	"github.com/aivanahq/aivana-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func newProductStack(t *testing.T) (*productsvc.Service, *gorm.DB) {
	t.Helper()

	dsn := "file:controllers_" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return productsvc.NewService(productsvc.NewRepository(gdb), categories.NewRepository(gdb)), gdb
}

func seedCatalogProduct(t *testing.T, gdb *gorm.DB, sellerID uuid.UUID, name, price string) *models.Product {
	t.Helper()
	row := &models.Product{
		ID:            uuid.New(),
		SellerID:      sellerID,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Currency:      "USD",
		StockQuantity: 5,
		Status:        enums.ProductStatusActive,
	}
	if err := gdb.Create(row).Error; err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return row
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestListProductsSearch(t *testing.T) {
	svc, gdb := newProductStack(t)
	seedCatalogProduct(t, gdb, uuid.New(), "Studio Headphones", "79.99")
	seedCatalogProduct(t, gdb, uuid.New(), "Desk Lamp", "19.99")

	req := httptest.NewRequest(http.MethodGet, "/api/products?search=headphones", nil)
	rec := httptest.NewRecorder()
	ListProducts(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	rows, ok := body["data"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("unexpected data: %v", body)
	}
	first := rows[0].(map[string]any)
	if first["name"] != "Studio Headphones" {
		t.Fatalf("unexpected product: %v", first)
	}
}

func TestGetProductInvalidID(t *testing.T) {
	svc, _ := newProductStack(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil)
	req = withRouteParam(req, "productId", "not-a-uuid")
	rec := httptest.NewRecorder()
	GetProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newProductStack(t)

	missing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/products/"+missing, nil)
	req = withRouteParam(req, "productId", missing)
	rec := httptest.NewRecorder()
	GetProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newProductStack(t)
	sellerID := uuid.New()

	payload := `{"name":"Studio Headphones","price":"79.99","stock_quantity":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(payload))
	req = req.WithContext(middleware.WithUserID(req.Context(), sellerID.String()))
	rec := httptest.NewRecorder()
	CreateProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	if data["name"] != "Studio Headphones" || data["currency"] != "USD" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc, _ := newProductStack(t)

	payload := `{"name":"Studio Headphones","price":"-1.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(payload))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	CreateProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCreateProductRequiresUserContext(t *testing.T) {
	svc, _ := newProductStack(t)

	payload := `{"name":"Studio Headphones","price":"79.99"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	CreateProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateProductByOtherSellerForbidden(t *testing.T) {
	svc, gdb := newProductStack(t)
	product := seedCatalogProduct(t, gdb, uuid.New(), "Studio Headphones", "79.99")

	payload := `{"name":"Hijacked"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+product.ID.String(), strings.NewReader(payload))
	req = withRouteParam(req, "productId", product.ID.String())
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	UpdateProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteProduct(t *testing.T) {
	svc, gdb := newProductStack(t)
	sellerID := uuid.New()
	product := seedCatalogProduct(t, gdb, sellerID, "Studio Headphones", "79.99")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+product.ID.String(), nil)
	req = withRouteParam(req, "productId", product.ID.String())
	req = req.WithContext(middleware.WithUserID(req.Context(), sellerID.String()))
	rec := httptest.NewRecorder()
	DeleteProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var count int64
	if err := gdb.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("counting: %v", err)
	}
	if count != 0 {
		t.Fatalf("product still present")
	}
}
