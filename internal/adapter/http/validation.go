package http

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var (
	reDateYMD = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reTxnRef  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// calendar dates travel as YYYY-MM-DD strings
	_ = v.RegisterValidation("dateymd", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || reDateYMD.MatchString(s)
	})
	// transaction references are path/query-safe tokens
	_ = v.RegisterValidation("txnref", func(fl validator.FieldLevel) bool {
		return reTxnRef.MatchString(fl.Field().String())
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "dateymd":
			out = append(out, FieldError{Field: field, Message: "must be a YYYY-MM-DD date"})
		case "txnref":
			out = append(out, FieldError{Field: field, Message: "must be a valid transaction reference"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
