// Package validation holds the form schemas shared by the action layer and
// turns the first schema violation into a human-readable message. Checks are
// pure; nothing here touches the store.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations by json field name, not Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", validSlug)
	return v
}

// BlogForm is the payload accepted by blog create and update actions.
type BlogForm struct {
	Title         string `json:"title" validate:"required,max=255"`
	Slug          string `json:"slug" validate:"required,max=255,slug"`
	Author        string `json:"author" validate:"required,max=128"`
	Content       string `json:"content" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=draft published archived"`
	FeaturedImage string `json:"featured_image" validate:"omitempty,url"`
	PublishedAt   string `json:"published_at"`
	Featured      bool   `json:"featured"`
}

// Normalize trims the free-text fields before validation.
func (f *BlogForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Slug = strings.TrimSpace(f.Slug)
	f.Author = strings.TrimSpace(f.Author)
	f.PublishedAt = strings.TrimSpace(f.PublishedAt)
}

// RegisterForm is the payload accepted by the registration action.
type RegisterForm struct {
	Name         string `json:"name" validate:"required,max=128"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=64"`
	Confirm      string `json:"confirm" validate:"required,eqfield=Password"`
	StudentID    string `json:"student_id" validate:"omitempty,max=32"`
	ProfileImage string `json:"profile_image" validate:"omitempty,url"`
}

// PasswordChangeForm is the payload accepted by the change-password action.
// The subject is always the session principal, never a request parameter.
type PasswordChangeForm struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=64"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Struct validates v and returns the first violation as a readable error.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	return fmt.Errorf("%s", messageFor(verrs[0]))
}

func messageFor(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "eqfield":
		return field + " does not match"
	case "slug":
		return field + " may only contain lowercase letters, digits and hyphens"
	default:
		return field + " is invalid"
	}
}

// ParsePublishedAt converts the optional publish date field. An empty value
// normalizes to absent rather than a parse error.
func ParsePublishedAt(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("published_at must be an RFC 3339 timestamp")
	}
	return &t, nil
}

// EmailDomainAllowed reports whether the address ends with one of the
// configured institutional domains. Comparison is case-insensitive.
func EmailDomainAllowed(email string, domains []string) bool {
	lower := strings.ToLower(strings.TrimSpace(email))
	for _, d := range domains {
		if d == "" {
			continue
		}
		if strings.HasSuffix(lower, strings.ToLower(d)) {
			return true
		}
	}
	return false
}

func validSlug(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			continue
		}
		return false
	}
	return true
}
