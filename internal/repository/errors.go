package repository

import "errors"

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")
	// 一意制約違反（カテゴリ名・SKU）
	ErrDuplicate = errors.New("duplicate")
)

// offset/limit のページング。Limit<=0 は全件。
type Page struct {
	Skip  int
	Limit int
}
