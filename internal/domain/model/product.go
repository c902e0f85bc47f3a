package model

// 在庫数から決まる表示用ステータス。保存はしない。
type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusLow        StockStatus = "low_stock"
	StockStatusInStock    StockStatus = "in_stock"
)

// これ未満は low_stock
const LowStockThreshold int64 = 10

// 商品。IDはstoreが作成時に採番し、以後変更しない。
type Product struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	SKU         string `gorm:"type:varchar(100);not null;index" json:"sku"`
	Quantity    int64  `gorm:"not null;default:0" json:"quantity"`
	Description string `gorm:"type:text;not null" json:"description"`
}

// 検証前の入力（ID以外の可変フィールド）
type ProductCandidate struct {
	Name        string `json:"name" yaml:"name"`
	SKU         string `json:"sku" yaml:"sku"`
	Quantity    int64  `json:"quantity" yaml:"quantity"`
	Description string `json:"description" yaml:"description"`
}

// 候補値で可変フィールドをすべて上書きする。IDはそのまま。
func (p *Product) Apply(c ProductCandidate) {
	p.Name = c.Name
	p.SKU = c.SKU
	p.Quantity = c.Quantity
	p.Description = c.Description
}

// 可変フィールドを取り出す
func (p Product) Candidate() ProductCandidate {
	return ProductCandidate{
		Name:        p.Name,
		SKU:         p.SKU,
		Quantity:    p.Quantity,
		Description: p.Description,
	}
}

func (p Product) StockStatus() StockStatus {
	switch {
	case p.Quantity <= 0:
		return StockStatusOutOfStock
	case p.Quantity < LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusInStock
	}
}
