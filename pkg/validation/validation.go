package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"GlobetrotterService/pkg/apperrors"

	"github.com/go-playground/validator/v10"
)

// Validator оборачивает go-playground validator с правилами сервиса
type Validator struct {
	validate *validator.Validate
}

// New создает валидатор, сообщающий имена полей так, как они приходят в JSON
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", validateNotBlank)

	return &Validator{validate: v}
}

// Struct проверяет структуру и возвращает apperrors.ErrInvalid с описанием первого нарушения
func (v *Validator) Struct(s any) error {
	return translate(v.validate.Struct(s), "")
}

// Slice проверяет каждый элемент; в сообщении указывается индекс элемента
func Slice[T any](v *Validator, items []T) error {
	for i := range items {
		if err := translate(v.validate.Struct(items[i]), fmt.Sprintf("[%d].", i)); err != nil {
			return err
		}
	}
	return nil
}

func translate(err error, prefix string) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Invalid("Invalid request body", err)
	}

	return apperrors.Invalid(prefix+describe(verrs[0]), err)
}

// describe формирует понятное сообщение для клиента
func describe(fe validator.FieldError) string {
	field := fieldPath(fe)

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s: field required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s: must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s: must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s: must contain at most %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s: must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %q validation", field, fe.Tag())
	}
}

// fieldPath отбрасывает имя корневой структуры: "UserCreate.username" -> "username"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
