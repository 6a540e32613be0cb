package contact

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// emailPattern is deliberately loose: something@something.something with no
// whitespace and a single @ on each side of the split.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var fieldLabels = map[Field]string{
	FieldName:    "Name",
	FieldEmail:   "Email",
	FieldSubject: "Subject",
	FieldMessage: "Message",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := RegisterValidators(v); err != nil {
		panic(fmt.Sprintf("contact: register validators: %v", err))
	}
	return v
}

// RegisterValidators registers the contact form rules on v.
//
//	present       non-blank after trimming
//	minrunes=N    at least N characters after trimming
//	maxrunes=N    at most N characters after trimming
//	contactemail  matches local@domain.tld
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"present":      validatePresent,
		"minrunes":     validateMinRunes,
		"maxrunes":     validateMaxRunes,
		"contactemail": validateEmail,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q: %w", tag, err)
		}
	}
	return nil
}

func validatePresent(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateMinRunes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

func validateMaxRunes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) <= n
}

func validateEmail(fl validator.FieldLevel) bool {
	return IsEmail(fl.Field().String())
}

// IsEmail reports whether s, once trimmed, has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Validate checks every field of s and returns one message per invalid field.
// It has no side effects; the same input always yields the same result.
func Validate(s FormState) ValidationResult {
	result := ValidationResult{}

	err := validate.Struct(s)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable if FormState stops being a struct.
		for _, f := range Fields() {
			result[f] = fieldLabels[f] + " is invalid"
		}
		return result
	}

	for _, fe := range fieldErrs {
		f := Field(fe.Field())
		if result.Has(f) {
			continue
		}
		result[f] = ruleMessage(f, fe.Tag(), fe.Param())
	}
	return result
}

func ruleMessage(f Field, tag, param string) string {
	label := fieldLabels[f]
	switch tag {
	case "present":
		return label + " is required"
	case "minrunes":
		return fmt.Sprintf("%s must be at least %s characters", label, param)
	case "maxrunes":
		return fmt.Sprintf("%s must be at most %s characters", label, param)
	case "contactemail":
		return "Please enter a valid email address"
	default:
		return label + " is invalid"
	}
}
