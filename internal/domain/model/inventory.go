package model

import "time"

// 閾値の初期値
const DefaultLowStockThreshold int64 = 10

// 商品ごとの在庫（1商品につき1件）
type Inventory struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID         int64     `gorm:"not null;uniqueIndex" json:"product_id"`
	Quantity          int64     `gorm:"not null;check:chk_inventory_quantity_non_negative,quantity >= 0" json:"quantity"`
	LowStockThreshold int64     `gorm:"not null" json:"low_stock_threshold"`
	LastUpdated       time.Time `gorm:"not null;autoUpdateTime" json:"last_updated"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Inventory) TableName() string { return "inventory" }

// 数量が閾値以下なら在庫少
func (i Inventory) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}
