package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// total_amountは作成時に quantity × unit_price で確定する（後から再計算しない）
type Sale struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID     int64           `gorm:"not null;index:idx_sales_product_date,priority:1" json:"product_id"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CustomerEmail *string         `gorm:"type:varchar(100)" json:"customer_email"`
	Platform      *string         `gorm:"type:varchar(50);index:idx_sales_platform" json:"platform"`
	OrderID       *string         `gorm:"type:varchar(100);index" json:"order_id"`
	SaleDate      time.Time       `gorm:"not null;index:idx_sales_date;index:idx_sales_product_date,priority:2" json:"sale_date"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// 合計金額
func SaleTotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}
