package repository

import (
	"context"
	"errors"
	"fmt"

	"inventory/internal/domain/model"
	"inventory/internal/infra/idgen"
	repo "inventory/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db  *gorm.DB
	ids repo.IDGenerator
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db, ids: idgen.UUIDGenerator{}}
}

// テストで採番を差し替える
func (r *ProductGormRepository) WithIDGenerator(g repo.IDGenerator) *ProductGormRepository {
	r.ids = g
	return r
}

// productsテーブルを用意する
func (r *ProductGormRepository) AutoMigrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.Product{}); err != nil {
		return storageErr("migrate", err)
	}
	return nil
}

// 全件
func (r *ProductGormRepository) List(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, storageErr("list", err)
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, storageErr("find", err)
	}
	return p, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, c model.ProductCandidate) (model.Product, error) {
	p := model.Product{ID: r.ids.NewID()}
	p.Apply(c)

	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, storageErr("create", err)
	}
	return p, nil
}

// 商品の更新。0件なら ErrNotFound（作成はしない）
func (r *ProductGormRepository) Update(ctx context.Context, id string, c model.ProductCandidate) (model.Product, error) {
	// quantity=0 も書きたいので map で更新する
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":        c.Name,
		"sku":         c.SKU,
		"quantity":    c.Quantity,
		"description": c.Description,
	})
	if res.Error != nil {
		return model.Product{}, storageErr("update", res.Error)
	}
	if res.RowsAffected == 0 {
		// 値が同じでも RowsAffected が0になるDBがあるので存在を確認する
		if _, err := r.FindByID(ctx, id); err != nil {
			return model.Product{}, err
		}
	}

	p := model.Product{ID: id}
	p.Apply(c)
	return p, nil
}

// 商品削除（物理削除）
func (r *ProductGormRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return false, storageErr("delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", repo.ErrStorage, op, err)
}
