package usecase

import (
	"time"

	"ecadmin/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 商品レスポンス。在庫が無ければ current_stock=0, is_low_stock=false
type ProductOutput struct {
	model.Product
	CurrentStock int64 `json:"current_stock"`
	IsLowStock   bool  `json:"is_low_stock"`
}

type InventoryOutput struct {
	ID                int64         `json:"id"`
	ProductID         int64         `json:"product_id"`
	Quantity          int64         `json:"quantity"`
	LowStockThreshold int64         `json:"low_stock_threshold"`
	IsLowStock        bool          `json:"is_low_stock"`
	LastUpdated       time.Time     `json:"last_updated"`
	Product           ProductOutput `json:"product"`
}

type SaleOutput struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CustomerEmail *string         `json:"customer_email"`
	Platform      *string         `json:"platform"`
	OrderID       *string         `json:"order_id"`
	SaleDate      time.Time       `json:"sale_date"`
	Product       ProductOutput   `json:"product"`
}

func toProductOutput(p model.Product) ProductOutput {
	out := ProductOutput{Product: p}
	if p.Inventory != nil {
		out.CurrentStock = p.Inventory.Quantity
		out.IsLowStock = p.Inventory.IsLowStock()
	}
	out.Product.Inventory = nil
	return out
}

func toInventoryOutput(inv model.Inventory) InventoryOutput {
	out := InventoryOutput{
		ID:                inv.ID,
		ProductID:         inv.ProductID,
		Quantity:          inv.Quantity,
		LowStockThreshold: inv.LowStockThreshold,
		IsLowStock:        inv.IsLowStock(),
		LastUpdated:       inv.LastUpdated,
	}
	if inv.Product != nil {
		p := *inv.Product
		//在庫行そのものを商品側の在庫として使う
		self := inv
		self.Product = nil
		p.Inventory = &self
		out.Product = toProductOutput(p)
	}
	return out
}

func toInventoryOutputs(items []model.Inventory) []InventoryOutput {
	outs := make([]InventoryOutput, 0, len(items))
	for _, inv := range items {
		outs = append(outs, toInventoryOutput(inv))
	}
	return outs
}

func toSaleOutput(s model.Sale) SaleOutput {
	out := SaleOutput{
		ID:            s.ID,
		ProductID:     s.ProductID,
		Quantity:      s.Quantity,
		UnitPrice:     s.UnitPrice,
		TotalAmount:   s.TotalAmount,
		CustomerEmail: s.CustomerEmail,
		Platform:      s.Platform,
		OrderID:       s.OrderID,
		SaleDate:      s.SaleDate,
	}
	if s.Product != nil {
		out.Product = toProductOutput(*s.Product)
	}
	return out
}
