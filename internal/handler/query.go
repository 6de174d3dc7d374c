package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	repo "ecadmin/internal/repository"
	"ecadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// skip（default 0）/ limit（default 100）
func parsePage(c echo.Context) (repo.Page, error) {
	return parsePageFrom(c, usecase.DefaultPage())
}

// limit未指定なら全件（Limit=0）
func parseOptionalPage(c echo.Context) (repo.Page, error) {
	page, err := parsePageFrom(c, repo.Page{})
	if err != nil {
		return repo.Page{}, err
	}
	if c.QueryParam("limit") != "" && page.Limit < 1 {
		return repo.Page{}, errors.New("invalid limit")
	}
	return page, nil
}

func parsePageFrom(c echo.Context, page repo.Page) (repo.Page, error) {
	if v := c.QueryParam("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return repo.Page{}, errors.New("invalid skip")
		}
		page.Skip = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return repo.Page{}, errors.New("invalid limit")
		}
		page.Limit = n
	}
	return page, nil
}

// 0や未指定は絞り込みなし
func queryID(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	if id == 0 {
		return nil, nil
	}
	return &id, nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	return &b, nil
}

func queryString(c echo.Context, name string) *string {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil
	}
	return &v
}

func queryDate(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(v)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	return &t, nil
}

// タイムゾーンなしはUTCとして扱う
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("invalid date")
}

// パスの :id
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
