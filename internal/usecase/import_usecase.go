package usecase

import (
	"context"
	"strings"

	"inventory/internal/domain/model"
	"inventory/internal/validator"
)

// 取り込めなかった行（1始まり）
type RowError struct {
	Row    int                   `json:"row"`
	Fields validator.FieldErrors `json:"fields"`
}

type ImportResult struct {
	Created []model.Product `json:"created"`
	Skipped []string        `json:"skipped"` // 既存SKU
	Invalid []RowError      `json:"invalid"`
}

// ImportProducts は候補をまとめて作成する。
// 各行は通常の作成と同じ検証を通す。不正な行は飛ばして結果に残す。
// skipExisting のときは既にあるSKU（正規化後）を作らない。
// ストレージ障害が起きた時点で中断し、それまでの結果とエラーを返す。
func (u *ProductUsecase) ImportProducts(ctx context.Context, rows []model.ProductCandidate, skipExisting bool) (ImportResult, error) {
	res := ImportResult{
		Created: []model.Product{},
		Skipped: []string{},
		Invalid: []RowError{},
	}

	existing := map[string]bool{}
	if skipExisting {
		items, err := u.productRepo.List(ctx)
		if err != nil {
			return res, u.storageFault(ctx, "list", err, "Failed to fetch products")
		}
		for _, p := range items {
			existing[strings.ToUpper(p.SKU)] = true
		}
	}

	for i, row := range rows {
		c, fieldErrs := validator.ValidateProduct(row)
		if fieldErrs.HasErrors() {
			res.Invalid = append(res.Invalid, RowError{Row: i + 1, Fields: fieldErrs})
			continue
		}

		if skipExisting && existing[c.SKU] {
			res.Skipped = append(res.Skipped, c.SKU)
			continue
		}

		p, err := u.productRepo.Create(ctx, c)
		if err != nil {
			return res, u.storageFault(ctx, "create", err, "Failed to create product")
		}
		existing[p.SKU] = true
		res.Created = append(res.Created, p)
	}

	u.log.InfoContext(ctx, "products imported",
		"created", len(res.Created),
		"skipped", len(res.Skipped),
		"invalid", len(res.Invalid),
	)
	return res, nil
}
