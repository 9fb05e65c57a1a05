package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultPageSize is used when a caller does not ask for a page size.
const DefaultPageSize = 20

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// ListParams selects a page of conversations.
type ListParams struct {
	Page     int    `json:"page" validate:"min=1"`
	PageSize int    `json:"page_size" validate:"min=1"`
	Ordering string `json:"ordering,omitempty"`
	// NoDefaultSort disables the implicit newest-first order when Ordering is empty.
	NoDefaultSort bool `json:"no_default_sort,omitempty"`
}

// DefaultListParams returns the first page at the default size.
func DefaultListParams() ListParams {
	return ListParams{Page: 1, PageSize: DefaultPageSize}
}

// Descending reports whether the caller wants newest-first order.
func (p ListParams) Descending() bool {
	if p.Ordering == "" {
		return !p.NoDefaultSort
	}
	return strings.Contains(p.Ordering, "-start_date_time") || strings.Contains(p.Ordering, "-id")
}

// Validate rejects non-positive pages and page sizes.
func (p ListParams) Validate() error {
	return validationError(validate.Struct(p))
}

// ValidateStruct runs struct-tag validation on any model value.
func ValidateStruct(v any) error {
	return validationError(validate.Struct(v))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param()))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return ValidationError{Problems: msgs}
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Problems []string
}

func (e ValidationError) Error() string {
	return "invalid parameters: " + strings.Join(e.Problems, "; ")
}
