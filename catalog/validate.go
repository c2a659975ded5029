package catalog

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"catalog-cart/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func (in UserInput) normalized() UserInput {
	return UserInput{Name: strings.TrimSpace(in.Name), Email: strings.TrimSpace(in.Email)}
}

func (in BookInput) normalized() BookInput {
	return BookInput{
		Title:  strings.TrimSpace(in.Title),
		Author: strings.TrimSpace(in.Author),
		Year:   in.Year,
		Genre:  strings.TrimSpace(in.Genre),
	}
}

// checkInput reports every violated rule at once.
func checkInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.ReasonInvalidInput, err, "validate input")
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperr.New(apperr.ReasonInvalidInput, "validation failed").WithDetails(msgs...)
}

func fieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Field() == "Year":
		return "Valid year is required"
	case fe.Tag() == "email":
		return "Invalid email format"
	case fe.Tag() == "required":
		return fe.Field() + " is required"
	default:
		return fe.Field() + " is invalid"
	}
}
