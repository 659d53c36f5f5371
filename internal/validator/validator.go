package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps struct validation plus the domain rules shared by
// handlers and services.
type Validator struct {
	validate *validator.Validate
}

// ValidationError is one failed field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerDomainRules()

	return v
}

// Validate checks a struct and returns nil when it passes.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var out ValidationErrors
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: v.errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func (v *Validator) registerDomainRules() {
	// Usernames are stored as free text on attempts: 2-100 chars
	// after trimming.
	v.validate.RegisterValidation("user_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 2 && len(name) <= 100
	})

	// Question images must point at a known asset type.
	v.validate.RegisterValidation("image_url", func(fl validator.FieldLevel) bool {
		return IsImageURL(fl.Field().String())
	})
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

// IsImageURL accepts URLs ending in a recognized image extension.
// An empty value is valid; presence is enforced separately.
func IsImageURL(url string) bool {
	url = strings.TrimSpace(strings.ToLower(url))
	if url == "" {
		return true
	}
	// Strip any query string before checking the extension.
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(url, ext) {
			return true
		}
	}
	return false
}

func (v *Validator) errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	case "user_name":
		return "must be 2-100 characters"
	case "image_url":
		return "must be an image URL (jpg, jpeg, png, gif, webp, svg)"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
