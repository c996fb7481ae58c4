package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator называет поля ошибок по json тегам, как и ручные проверки сервисов
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct проверяет теги validate и переводит ошибки в errs.ValidationError
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &errs.ValidationError{}
	for _, fe := range fieldErrs {
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += " " + fe.Param()
		}
		out.Fields = append(out.Fields, errs.FieldError{
			Field:  fe.Field(),
			Reason: reason,
		})
	}
	return out
}
