package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"inventory/internal/domain/model"
	"inventory/internal/logger"
	repo "inventory/internal/repository"
	"inventory/internal/validator"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 入力検証の失敗（400）。フィールドごとのメッセージを持つ。
type ValidationError struct {
	Fields validator.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

const (
	MsgProductNotFound  = "Product not found"
	MsgInvalidProductID = "invalid product id"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	log         *slog.Logger
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, log *slog.Logger) *ProductUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &ProductUsecase{
		productRepo: productRepo,
		log:         log,
	}
}

// 一覧。q があれば name / sku / description の部分一致（大文字小文字を区別しない）
func (u *ProductUsecase) ListProducts(ctx context.Context, q string) ([]model.Product, error) {
	items, err := u.productRepo.List(ctx)
	if err != nil {
		return nil, u.storageFault(ctx, "list", err, "Failed to fetch products")
	}

	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items, nil
	}

	filtered := make([]model.Product, 0, len(items))
	for _, p := range items {
		if matches(p, q) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id string) (model.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, MsgInvalidProductID)
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, MsgProductNotFound)
	}
	if err != nil {
		return model.Product{}, u.storageFault(ctx, "find", err, "Failed to fetch product")
	}
	return p, nil
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in model.ProductCandidate) (model.Product, error) {
	c, fieldErrs := validator.ValidateProduct(in)
	if fieldErrs.HasErrors() {
		return model.Product{}, &ValidationError{Fields: fieldErrs}
	}

	p, err := u.productRepo.Create(ctx, c)
	if err != nil {
		return model.Product{}, u.storageFault(ctx, "create", err, "Failed to create product")
	}

	logger.FromContext(ctx, u.log).Info("product created", "id", p.ID, "sku", p.SKU)
	return p, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, id string, in model.ProductCandidate) (model.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, MsgInvalidProductID)
	}

	c, fieldErrs := validator.ValidateProduct(in)
	if fieldErrs.HasErrors() {
		return model.Product{}, &ValidationError{Fields: fieldErrs}
	}

	p, err := u.productRepo.Update(ctx, id, c)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, MsgProductNotFound)
	}
	if err != nil {
		return model.Product{}, u.storageFault(ctx, "update", err, "Failed to update product")
	}

	logger.FromContext(ctx, u.log).Info("product updated", "id", p.ID, "sku", p.SKU)
	return p, nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewHTTPError(http.StatusBadRequest, MsgInvalidProductID)
	}

	ok, err := u.productRepo.Delete(ctx, id)
	if err != nil {
		return u.storageFault(ctx, "delete", err, "Failed to delete product")
	}
	if !ok {
		return NewHTTPError(http.StatusNotFound, MsgProductNotFound)
	}

	logger.FromContext(ctx, u.log).Info("product deleted", "id", id)
	return nil
}

// ストレージ障害だけを error で記録し、500 にする
func (u *ProductUsecase) storageFault(ctx context.Context, op string, err error, message string) error {
	logger.FromContext(ctx, u.log).ErrorContext(ctx, "product store failed", "op", op, "error", err)
	return NewHTTPError(http.StatusInternalServerError, message)
}

func matches(p model.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.SKU), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}
