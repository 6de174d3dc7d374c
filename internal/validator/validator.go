package validator

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"ecadmin/internal/usecase"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type inputValidator struct {
	v *playground.Validate
}

// Usecaseは interface を依存注入
func New() usecase.InputValidator {
	v := playground.New(playground.WithRequiredStructEnabled())

	//エラーのフィールド名はjsonの名前にする
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	//decimalはgt/gteで比べられるようにfloatとして扱う
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	//金額は小数2桁まで（DBのdecimal(10,2)で丸められないように）
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		panic(err)
	}

	return &inputValidator{v: v}
}

// 違反は400で返す（最初の1件だけ）
func (iv *inputValidator) Struct(s interface{}) error {
	err := iv.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return usecase.NewHTTPError(http.StatusBadRequest, message(verrs[0]))
	}
	return usecase.NewHTTPError(http.StatusBadRequest, "invalid input")
}

func validateMoney(fl playground.FieldLevel) bool {
	d, ok := rawDecimal(fl)
	if !ok {
		return false
	}
	return d.Equal(d.Round(2))
}

// custom type func でfloatになる前の値を親の構造体から取り出す
func rawDecimal(fl playground.FieldLevel) (decimal.Decimal, bool) {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return decimal.Decimal{}, false
	}
	field := reflect.Indirect(parent.FieldByName(fl.StructFieldName()))
	if !field.IsValid() || !field.CanInterface() {
		return decimal.Decimal{}, false
	}
	d, ok := field.Interface().(decimal.Decimal)
	return d, ok
}

func message(fe playground.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "money":
		return fmt.Sprintf("%s must have at most 2 decimal places", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
