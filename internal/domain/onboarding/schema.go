// Package onboarding validates the forms a new member fills in during onboarding.
//
// Validation is a pure function from an input to either normalized data or an
// entity.ValidationErrors value listing every failing field. Nothing is stored.
// The bounds are declared as validator tags on the normalized types.
package onboarding

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ressourcefy/internal/domain/entity"
)

// Field bounds, counted in characters (runes) after trimming.
const (
	NameMinLength = 2
	NameMaxLength = 50
	BioMaxLength  = 280

	InterestsMin      = 1
	InterestsMax      = 10
	InterestMaxLength = 50
)

// ProfileInput is the raw profile form.
type ProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio,omitempty"`
}

// Profile is a validated, trimmed profile.
type Profile struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Bio       string `json:"bio,omitempty" validate:"max=280"`
}

// InterestsInput is the raw interests form.
type InterestsInput struct {
	Interests []string `json:"interests"`
}

// Interests is a validated list of trimmed interests.
type Interests struct {
	Interests []string `json:"interests" validate:"min=1,max=10,dive,required,max=50"`
}

var schema = newSchema()

func newSchema() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateProfile checks the profile form.
// On failure the returned error is an entity.ValidationErrors.
func ValidateProfile(in ProfileInput) (Profile, error) {
	out := Profile{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Bio:       strings.TrimSpace(in.Bio),
	}
	if err := check(out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

// ValidateInterests checks the interests form.
// On failure the returned error is an entity.ValidationErrors.
func ValidateInterests(in InterestsInput) (Interests, error) {
	out := Interests{Interests: make([]string, 0, len(in.Interests))}
	for _, raw := range in.Interests {
		out.Interests = append(out.Interests, strings.TrimSpace(raw))
	}
	if err := check(out); err != nil {
		return Interests{}, err
	}
	return out, nil
}

// check runs the struct rules and maps failures to entity.ValidationErrors,
// keyed by JSON field name (interests[3] for list entries).
func check(v any) error {
	err := schema.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("onboarding: %w", err)
	}

	var errs entity.ValidationErrors
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs.Err()
}

func message(fe validator.FieldError) string {
	if fe.Kind() == reflect.Slice {
		unit := "interests"
		if fe.Param() == "1" {
			unit = "interest"
		}
		switch fe.Tag() {
		case "min":
			return fmt.Sprintf("select at least %s %s", fe.Param(), unit)
		case "max":
			return fmt.Sprintf("select at most %s %s", fe.Param(), unit)
		}
	}

	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
