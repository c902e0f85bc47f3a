package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inventory/internal/domain/model"
	"inventory/internal/handler"
	"inventory/internal/infra/jsonfile"
	repo "inventory/internal/repository"
	"inventory/internal/usecase"
	"inventory/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Quantity    int64  `json:"quantity"`
	Description string `json:"description"`
	StockStatus string `json:"stock_status"`
}

type validationJSON struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

type testAPI struct {
	e     *echo.Echo
	store *jsonfile.ProductStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := jsonfile.NewProductStore(filepath.Join(t.TempDir(), "db.json"))
	return newTestAPIWithRepo(t, store, store)
}

func newTestAPIWithRepo(t *testing.T, r repo.ProductRepository, store *jsonfile.ProductStore) *testAPI {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := usecase.NewProductUsecase(r, log)

	e := echo.New()
	handler.NewProductHandler(uc).RegisterRoutes(e)
	return &testAPI{e: e, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body=%s", rec.Body.String())
	return v
}

// 空の状態から作成 → 一覧に1件だけ
func TestProductAPI_EndToEnd(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/products", `{"name":"Mouse","sku":"abc-1","quantity":5,"description":"x"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[productJSON](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ABC-1", created.SKU)
	assert.Equal(t, "Mouse", created.Name)
	assert.Equal(t, int64(5), created.Quantity)
	assert.Equal(t, string(model.StockStatusLow), created.StockStatus)

	rec = api.do(t, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]productJSON](t, rec)
	assert.Equal(t, []productJSON{created}, list)

	rec = api.do(t, http.MethodGet, "/api/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[productJSON](t, rec))
}

func TestProductAPI_ListEmptyIsArray(t *testing.T) {
	rec := newTestAPI(t).do(t, http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProductAPI_ListSearch(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, http.MethodPost, "/api/products", `{"name":"USB-C Hub","sku":"TECH-HUB-001","quantity":75,"description":"7-in-1 hub"}`)
	api.do(t, http.MethodPost, "/api/products", `{"name":"Webcam HD","sku":"CAM-HD-200","quantity":0,"description":"1080p"}`)

	rec := api.do(t, http.MethodGet, "/api/products?q=cam", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]productJSON](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "CAM-HD-200", list[0].SKU)
	assert.Equal(t, string(model.StockStatusOutOfStock), list[0].StockStatus)
}

func TestProductAPI_CreateValidationFailed(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/products", `{"name":"  ","sku":"abc_1","quantity":-1,"description":""}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[validationJSON](t, rec)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Equal(t, map[string]string{
		"name":        validator.MsgNameRequired,
		"sku":         validator.MsgSKUFormat,
		"quantity":    validator.MsgQuantityNegative,
		"description": validator.MsgDescriptionRequired,
	}, body.Details)

	// 何も保存されない
	items, err := api.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProductAPI_CreateQuantityAsString(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/products", `{"name":"Keyboard","sku":"keys-mx","quantity":"12","description":"rgb"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(12), decode[productJSON](t, rec).Quantity)
}

func TestProductAPI_CreateQuantityNotInteger(t *testing.T) {
	api := newTestAPI(t)

	for _, q := range []string{`1.5`, `"abc"`, `true`} {
		rec := api.do(t, http.MethodPost, "/api/products", fmt.Sprintf(`{"name":"","sku":"K","quantity":%s,"description":"d"}`, q))

		require.Equal(t, http.StatusBadRequest, rec.Code, "quantity=%s", q)
		body := decode[validationJSON](t, rec)
		assert.Equal(t, map[string]string{
			"name":     validator.MsgNameRequired,
			"quantity": validator.MsgQuantityNotInteger,
		}, body.Details, "quantity=%s", q)
	}
}

func TestProductAPI_CreateInvalidBody(t *testing.T) {
	rec := newTestAPI(t).do(t, http.MethodPost, "/api/products", `{"name":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid body", decode[handler.ErrorResponse](t, rec).Error)
}

func TestProductAPI_Update(t *testing.T) {
	api := newTestAPI(t)
	created := decode[productJSON](t, api.do(t, http.MethodPost, "/api/products", `{"name":"Mouse","sku":"abc-1","quantity":5,"description":"x"}`))

	rec := api.do(t, http.MethodPut, "/api/products/"+created.ID, `{"name":"Mouse Pro","sku":"abc-2","quantity":50,"description":"y"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, productJSON{
		ID:          created.ID,
		Name:        "Mouse Pro",
		SKU:         "ABC-2",
		Quantity:    50,
		Description: "y",
		StockStatus: string(model.StockStatusInStock),
	}, decode[productJSON](t, rec))
}

func TestProductAPI_UpdateUnknownID(t *testing.T) {
	api := newTestAPI(t)
	created := decode[productJSON](t, api.do(t, http.MethodPost, "/api/products", `{"name":"Mouse","sku":"abc-1","quantity":5,"description":"x"}`))

	rec := api.do(t, http.MethodPut, "/api/products/nope", `{"name":"Other","sku":"o-1","quantity":1,"description":"o"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, usecase.MsgProductNotFound, decode[handler.ErrorResponse](t, rec).Error)

	list := decode[[]productJSON](t, api.do(t, http.MethodGet, "/api/products", ""))
	assert.Equal(t, []productJSON{created}, list)
}

func TestProductAPI_UpdateValidationBeforeLookup(t *testing.T) {
	rec := newTestAPI(t).do(t, http.MethodPut, "/api/products/nope", `{"name":"","sku":"o-1","quantity":1,"description":"o"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductAPI_Delete(t *testing.T) {
	api := newTestAPI(t)
	created := decode[productJSON](t, api.do(t, http.MethodPost, "/api/products", `{"name":"Mouse","sku":"abc-1","quantity":5,"description":"x"}`))

	rec := api.do(t, http.MethodDelete, "/api/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted successfully", decode[handler.SuccessResponse](t, rec).Message)

	rec = api.do(t, http.MethodDelete, "/api/products/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/products/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// strict モードで壊れたファイル → 500
func TestProductAPI_StorageFaultIs500(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	store := jsonfile.NewProductStore(path, jsonfile.WithStrict(true))
	api := newTestAPIWithRepo(t, store, store)

	rec := api.do(t, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch products", decode[handler.ErrorResponse](t, rec).Error)

	rec = api.do(t, http.MethodPost, "/api/products", `{"name":"Mouse","sku":"abc-1","quantity":5,"description":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to create product", decode[handler.ErrorResponse](t, rec).Error)

	rec = api.do(t, http.MethodPut, "/api/products/x", `{"name":"Mouse","sku":"abc-1","quantity":5,"description":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/products/x", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// 既定モードでは壊れたファイルは空として扱う
func TestProductAPI_CorruptFileDefaultsToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	store := jsonfile.NewProductStore(path)
	api := newTestAPIWithRepo(t, store, store)

	rec := api.do(t, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
