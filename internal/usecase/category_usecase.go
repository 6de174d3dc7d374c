package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
	validate   InputValidator
}

// DI
func NewCategoryUsecase(categories repo.CategoryRepository, validate InputValidator) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, validate: validate}
}

type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
}

func (u *CategoryUsecase) Create(ctx context.Context, in CreateCategoryInput) (model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := u.validate.Struct(in); err != nil {
		return model.Category{}, err
	}

	c, err := u.categories.Create(ctx, model.Category{
		Name:        in.Name,
		Description: in.Description,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Category{}, NewHTTPError(http.StatusConflict, "Category name already exists")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) List(ctx context.Context, page repo.Page) ([]model.Category, error) {
	if err := checkPage(page); err != nil {
		return []model.Category{}, err
	}

	items, err := u.categories.List(ctx, page)
	if err != nil {
		return []model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if items == nil {
		items = []model.Category{}
	}
	return items, nil
}
