package repository

import (
	"context"

	"ecadmin/internal/domain/model"
)

// カテゴリの保存・取得の約束
type CategoryRepository interface {
	//作成。名前が重複していれば ErrDuplicate
	Create(ctx context.Context, c model.Category) (model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	List(ctx context.Context, page Page) ([]model.Category, error)
}
