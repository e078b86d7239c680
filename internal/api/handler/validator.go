package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/envios-ar/shipping-tracker/internal/core/domain"
)

// requestValidator backs echo.Echo.Validator. Field names in its messages are
// the json names the client sent.
type requestValidator struct {
	v *validator.Validate
}

func NewValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("tracking_code", func(fl validator.FieldLevel) bool {
		_, err := domain.ValidateTrackingCode(fl.Field().String())
		return err == nil
	})
	return &requestValidator{v: v}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Validate satisfies echo.Validator. Every violation is reported, joined by "; ".
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, len(ve))
	for i, fe := range ve {
		msgs[i] = violation(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func violation(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		// Param is "<Field> <value>".
		other, value, _ := strings.Cut(fe.Param(), " ")
		return fmt.Sprintf("%s is required when %s is %s", field, strings.ToLower(other), value)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "tracking_code":
		return fmt.Sprintf("%s must be %s followed by digits (e.g. %s001)", field, domain.TrackingCodePrefix, domain.TrackingCodePrefix)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
