package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecadmin/internal/domain/model"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	QueueDefault = "default"

	// 在庫がしきい値以下になったときの通知
	TaskLowStockAlert = "inventory:low_stock"
)

type LowStockPayload struct {
	InventoryID       int64     `json:"inventory_id"`
	ProductID         int64     `json:"product_id"`
	Quantity          int64     `json:"quantity"`
	LowStockThreshold int64     `json:"low_stock_threshold"`
	DetectedAt        time.Time `json:"detected_at"`
}

func NewLowStockTask(payload LowStockPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockAlert, body, asynq.Queue(QueueDefault)), nil
}

// LowStockHandler は通知を受けてログに残す。
type LowStockHandler struct {
	log *zap.Logger
}

func NewLowStockHandler(log *zap.Logger) *LowStockHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LowStockHandler{log: log}
}

func (h *LowStockHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var p LowStockPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		//壊れたpayloadはリトライしない
		return fmt.Errorf("decode low stock payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.InventoryID <= 0 {
		return fmt.Errorf("invalid inventory id: %w", asynq.SkipRetry)
	}

	h.log.Warn("low stock",
		zap.Int64("inventory_id", p.InventoryID),
		zap.Int64("product_id", p.ProductID),
		zap.Int64("quantity", p.Quantity),
		zap.Int64("low_stock_threshold", p.LowStockThreshold),
		zap.Time("detected_at", p.DetectedAt),
	)
	return nil
}

// Client はタスクをキューに積む
type Client struct {
	client *asynq.Client
	log    *zap.Logger
}

func NewClient(redisOpts asynq.RedisClientOpt, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{client: asynq.NewClient(redisOpts), log: log}
}

// NotifyLowStock は在庫ごとに未処理の通知を1件までにする。
func (c *Client) NotifyLowStock(ctx context.Context, inv model.Inventory) error {
	if c == nil || c.client == nil {
		return nil
	}
	task, err := NewLowStockTask(LowStockPayload{
		InventoryID:       inv.ID,
		ProductID:         inv.ProductID,
		Quantity:          inv.Quantity,
		LowStockThreshold: inv.LowStockThreshold,
		DetectedAt:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.TaskID(lowStockTaskID(inv.ID)),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		c.log.Debug("low stock alert already queued", zap.Int64("inventory_id", inv.ID))
		return nil
	}
	return err
}

func lowStockTaskID(inventoryID int64) string {
	return fmt.Sprintf("low_stock:%d", inventoryID)
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
