package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "ecadmin/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// Tx内で既にHTTPErrorになっていればそのまま、それ以外はdb error
func dbError(err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

const (
	maxPageLimit     = 1000
	defaultPageLimit = 100
)

// skip/limit の範囲チェック
func checkPage(p repo.Page) error {
	if p.Skip < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid skip")
	}
	if p.Limit < 1 || p.Limit > maxPageLimit {
		return NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	return nil
}

// Limit=0 は件数制限なし
func checkOptionalPage(p repo.Page) error {
	if p.Skip < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid skip")
	}
	if p.Limit < 0 || p.Limit > maxPageLimit {
		return NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	return nil
}

// DefaultPage は skip=0, limit=100
func DefaultPage() repo.Page {
	return repo.Page{Skip: 0, Limit: defaultPageLimit}
}
