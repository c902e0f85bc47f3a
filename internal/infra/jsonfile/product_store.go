// Package jsonfile は商品一覧を1つのJSONドキュメントに保存する ProductRepository 実装。
//
// 操作ごとにファイル全体を読み直し、更新系はファイル全体を書き戻す。
// 同一プロセス内の読み込み〜書き戻しは mutex で直列化するが、
// 別プロセスが同じファイルを書く場合は後勝ちになる。
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"inventory/internal/domain/model"
	"inventory/internal/infra/idgen"
	repo "inventory/internal/repository"
)

// 保存形式 { "products": [...] }
type document struct {
	Products []model.Product `json:"products"`
}

type ProductStore struct {
	mu     sync.Mutex
	path   string
	strict bool
	ids    repo.IDGenerator
}

type Option func(*ProductStore)

// 壊れたファイルを空として扱わず ErrCorrupt を返す
func WithStrict(strict bool) Option {
	return func(s *ProductStore) { s.strict = strict }
}

func WithIDGenerator(g repo.IDGenerator) Option {
	return func(s *ProductStore) { s.ids = g }
}

// DI
func NewProductStore(path string, opts ...Option) *ProductStore {
	s := &ProductStore{
		path: path,
		ids:  idgen.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ProductStore) Path() string { return s.path }

func (s *ProductStore) List(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Products, nil
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return model.Product{}, err
	}

	i := indexOf(doc.Products, id)
	if i < 0 {
		return model.Product{}, repo.ErrNotFound
	}
	return doc.Products[i], nil
}

func (s *ProductStore) Create(ctx context.Context, c model.ProductCandidate) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return model.Product{}, err
	}

	p := model.Product{ID: s.ids.NewID()}
	p.Apply(c)

	doc.Products = append(doc.Products, p)
	if err := s.write(doc); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *ProductStore) Update(ctx context.Context, id string, c model.ProductCandidate) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return model.Product{}, err
	}

	i := indexOf(doc.Products, id)
	if i < 0 {
		return model.Product{}, repo.ErrNotFound
	}

	doc.Products[i].Apply(c)
	if err := s.write(doc); err != nil {
		return model.Product{}, err
	}
	return doc.Products[i], nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		return false, err
	}

	i := indexOf(doc.Products, id)
	if i < 0 {
		// 変更なしなので書き戻さない
		return false, nil
	}

	doc.Products = append(doc.Products[:i], doc.Products[i+1:]...)
	if err := s.write(doc); err != nil {
		return false, err
	}
	return true, nil
}

// ファイルが無い / 空 → 空の一覧。
// パースできない → strict なら ErrCorrupt、そうでなければ空の一覧。
func (s *ProductStore) read(ctx context.Context) (document, error) {
	if err := ctx.Err(); err != nil {
		return document{}, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return emptyDocument(), nil
	}
	if err != nil {
		return document{}, fmt.Errorf("%w: read %s: %v", repo.ErrStorage, s.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return emptyDocument(), nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		if s.strict {
			return document{}, fmt.Errorf("%w: %w: %s: %v", repo.ErrStorage, repo.ErrCorrupt, s.path, err)
		}
		return emptyDocument(), nil
	}
	if doc.Products == nil {
		doc.Products = []model.Product{}
	}
	return doc, nil
}

// 一時ファイルに書いてから rename する（途中までのファイルを残さない）
func (s *ProductStore) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", repo.ErrStorage, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", repo.ErrStorage, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", repo.ErrStorage, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", repo.ErrStorage, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: sync %s: %v", repo.ErrStorage, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", repo.ErrStorage, tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %v", repo.ErrStorage, s.path, err)
	}
	return nil
}

func emptyDocument() document {
	return document{Products: []model.Product{}}
}

func indexOf(products []model.Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
