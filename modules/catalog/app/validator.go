package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// CreateProductValidator holds the declarative rules of CreateProductCommand.
// It is built once and shared; the rules are pure so concurrent use is safe.
type CreateProductValidator struct {
	v *validator.Validate
}

// NewCreateProductValidator builds the rule set.
func NewCreateProductValidator() *CreateProductValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &CreateProductValidator{v: v}
}

// Validate returns one message per violated rule, in field order. An empty
// slice means the command is valid.
func (cv *CreateProductValidator) Validate(ctx context.Context, cmd CreateProductCommand) []string {
	err := cv.v.StructCtx(ctx, cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(fe))
	}
	return messages
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return fmt.Sprintf("'%s' must not be empty.", fe.Field())
	case "max":
		return fmt.Sprintf("The length of '%s' must be %s characters or fewer. You entered %d characters.",
			fe.Field(), fe.Param(), utf8.RuneCountInString(fmt.Sprint(fe.Value())))
	case "gte":
		return fmt.Sprintf("'%s' must be greater than or equal to '%s'.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("'%s' is not valid.", fe.Field())
	}
}
