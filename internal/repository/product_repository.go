package repository

import (
	"context"
	"errors"

	"inventory/internal/domain/model"
)

var (
	// 対象IDが存在しない
	ErrNotFound = errors.New("not found")

	// 読み書きの失敗。呼び出し側は500相当として扱う。
	ErrStorage = errors.New("storage unavailable")

	// 保存データが壊れている（strictモードのみ返る）
	ErrCorrupt = errors.New("corrupt storage")
)

// 商品の永続化だけを約束。検証・正規化済みの候補を受け取る前提。
// 実装（JSONファイル / GORM）に関わらず同じ振る舞いをする。
type ProductRepository interface {
	// 全件。順序に意味はない。
	List(ctx context.Context) ([]model.Product, error)

	// 見つからなければ ErrNotFound
	FindByID(ctx context.Context, id string) (model.Product, error)

	// 新しいIDを採番して追加
	Create(ctx context.Context, c model.ProductCandidate) (model.Product, error)

	// IDを保ったまま可変フィールドを上書き。無ければ ErrNotFound（作成はしない）
	Update(ctx context.Context, id string, c model.ProductCandidate) (model.Product, error)

	// 削除できたら true。無いIDは false でエラーにしない。
	Delete(ctx context.Context, id string) (bool, error)
}

// 採番
type IDGenerator interface {
	NewID() string
}
