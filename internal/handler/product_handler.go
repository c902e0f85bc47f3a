package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"inventory/internal/domain/model"
	"inventory/internal/usecase"
	"inventory/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// 400（入力検証）用
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// SuccessResponse は { message: string } の形
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ve, ok := usecase.AsValidationError(err); ok {
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "Validation failed", Details: ve.Fields})
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 作成・更新の入力。quantity は数値でも数字の文字列でも受ける。
type ProductRequest struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Quantity    json.RawMessage `json:"quantity"`
	Description string          `json:"description"`
}

// 候補値に変換。quantity が整数にできなければ ok=false（quantity は0のまま）
func (r ProductRequest) candidate() (model.ProductCandidate, bool) {
	c := model.ProductCandidate{
		Name:        r.Name,
		SKU:         r.SKU,
		Description: r.Description,
	}
	q, ok := parseQuantity(r.Quantity)
	c.Quantity = q
	return c, ok
}

// 未指定 / null は 0
func parseQuantity(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, true
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// レスポンス。stock_status は保存しない派生値。
type ProductResponse struct {
	model.Product
	StockStatus model.StockStatus `json:"stock_status"`
}

func toResponse(p model.Product) ProductResponse {
	return ProductResponse{Product: p, StockStatus: p.StockStatus()}
}

func toResponses(items []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toResponse(p))
	}
	return out
}

// /api/products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// ルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/products", h.list)
	api.GET("/products/:id", h.detail)
	api.POST("/products", h.create)
	api.PUT("/products/:id", h.update)
	api.DELETE("/products/:id", h.delete)
}

func (h *ProductHandler) list(c echo.Context) error {
	items, err := h.uc.ListProducts(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResponses(items))
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResponse(p))
}

func (h *ProductHandler) create(c echo.Context) error {
	in, err := bindCandidate(c)
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toResponse(p))
}

func (h *ProductHandler) update(c echo.Context) error {
	in, err := bindCandidate(c)
	if err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.UpdateProduct(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toResponse(p))
}

func (h *ProductHandler) delete(c echo.Context) error {
	if err := h.uc.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Product deleted successfully"})
}

// body を読んで候補値にする。quantity が不正なら他のフィールドの検証結果とまとめて返す。
func bindCandidate(c echo.Context) (model.ProductCandidate, error) {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return model.ProductCandidate{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	in, ok := req.candidate()
	if ok {
		return in, nil
	}

	_, fieldErrs := validator.ValidateProduct(in)
	if fieldErrs == nil {
		fieldErrs = validator.FieldErrors{}
	}
	fieldErrs[validator.FieldQuantity] = validator.MsgQuantityNotInteger
	return model.ProductCandidate{}, &usecase.ValidationError{Fields: fieldErrs}
}
