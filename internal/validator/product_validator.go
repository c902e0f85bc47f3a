package validator

import (
	"regexp"
	"strings"

	"inventory/internal/domain/model"
)

// エラーメッセージ（画面にそのまま出す）
const (
	MsgNameRequired        = "Product name is required"
	MsgSKURequired         = "SKU is required"
	MsgSKUFormat           = "SKU should contain only letters, numbers, and hyphens"
	MsgQuantityNegative    = "Quantity cannot be negative"
	MsgQuantityNotInteger  = "Quantity must be a whole number"
	MsgDescriptionRequired = "Description is required"
)

// フィールド名（JSONキー）
const (
	FieldName        = "name"
	FieldSKU         = "sku"
	FieldQuantity    = "quantity"
	FieldDescription = "description"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// FieldErrors はフィールド名→メッセージ。空なら有効。
type FieldErrors map[string]string

func (fe FieldErrors) HasErrors() bool { return len(fe) > 0 }

// ValidateProduct は候補値を検証し、正規化済みの候補を返す。
// 失敗したフィールドはすべてまとめて返す（最初の1件で止めない）。
// storeには依存しない。
func ValidateProduct(c model.ProductCandidate) (model.ProductCandidate, FieldErrors) {
	errs := FieldErrors{}

	name := strings.TrimSpace(c.Name)
	if name == "" {
		errs[FieldName] = MsgNameRequired
	}

	sku := strings.ToUpper(strings.TrimSpace(c.SKU))
	if sku == "" {
		errs[FieldSKU] = MsgSKURequired
	} else if !skuPattern.MatchString(sku) {
		errs[FieldSKU] = MsgSKUFormat
	}

	if c.Quantity < 0 {
		errs[FieldQuantity] = MsgQuantityNegative
	}

	desc := strings.TrimSpace(c.Description)
	if desc == "" {
		errs[FieldDescription] = MsgDescriptionRequired
	}

	if errs.HasErrors() {
		return model.ProductCandidate{}, errs
	}

	return model.ProductCandidate{
		Name:        name,
		SKU:         sku,
		Quantity:    c.Quantity,
		Description: desc,
	}, nil
}
