package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// is_activeにgormのdefault:trueは付けない（falseがゼロ値として無視されDBの既定値で上書きされるため）
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null;index" json:"name"`
	Description *string         `gorm:"type:text" json:"description"`
	SKU         string          `gorm:"column:sku;type:varchar(50);not null;uniqueIndex" json:"sku"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;index:idx_product_price" json:"price"`
	Cost        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost"`
	CategoryID  int64           `gorm:"not null;index:idx_product_category_active,priority:1" json:"category_id"`
	IsActive    bool            `gorm:"not null;index:idx_product_category_active,priority:2" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Category  *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Inventory *Inventory `gorm:"foreignKey:ProductID" json:"-"`
}
