package model

import "time"

// 在庫変更の種類
type ChangeType string

const (
	ChangeTypeStockIn    ChangeType = "stock_in"
	ChangeTypeStockOut   ChangeType = "stock_out"
	ChangeTypeAdjustment ChangeType = "adjustment"
)

func (t ChangeType) Valid() bool {
	switch t {
	case ChangeTypeStockIn, ChangeTypeStockOut, ChangeTypeAdjustment:
		return true
	}
	return false
}

// 在庫変更の監査ログ。追記のみで更新・削除はしない。
type InventoryLog struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	InventoryID      int64      `gorm:"not null;index:idx_inventory_logs_inventory" json:"inventory_id"`
	ChangeType       ChangeType `gorm:"type:varchar(20);not null" json:"change_type"`
	QuantityChange   int64      `gorm:"not null" json:"quantity_change"`
	PreviousQuantity int64      `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int64      `gorm:"not null" json:"new_quantity"`
	Reason           *string    `gorm:"type:varchar(200)" json:"reason"`
	CreatedAt        time.Time  `gorm:"not null;autoCreateTime;index:idx_inventory_logs_date" json:"created_at"`

	Inventory *Inventory `gorm:"foreignKey:InventoryID" json:"-"`
}

// ApplyChange は変更種別ごとに新しい数量を計算する。
// stock_out と adjustment は0で下げ止まる。stock_in は delta をそのまま足す（符号は検証しない）。
func ApplyChange(changeType ChangeType, previous, delta int64) int64 {
	switch changeType {
	case ChangeTypeStockIn:
		return previous + delta
	case ChangeTypeStockOut:
		return floorZero(previous - delta)
	default:
		return floorZero(previous + delta)
	}
}

// 販売による減算（0で下げ止まる）
func DecrementStock(previous, qty int64) int64 {
	return floorZero(previous - qty)
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
