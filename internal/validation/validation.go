// Package validation checks service inputs with go-playground/validator and
// reports the first failure as a domain.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Domenick1991/seatreserve/internal/domain"
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("seat", func(fl validator.FieldLevel) bool {
		_, _, err := domain.ParseSeat(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ValidationError{Msg: err.Error()}
	}

	fe := verrs[0]
	return domain.ValidationError{Field: fieldPath(fe), Msg: message(fe)}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s items", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s items", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "seat":
		return fmt.Sprintf("malformed seat %q", fe.Value())
	case "unique":
		return "must not contain duplicates"
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}
