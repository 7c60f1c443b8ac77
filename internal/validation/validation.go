// Package validation checks the shape of incoming request bodies. Each
// Validate* function returns field-keyed messages and whether the payload
// passed.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Errors maps a JSON field name to a human readable message.
type Errors map[string]string

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// ParseDate accepts calendar dates (2006-01-02) and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("invalid date")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// messages holds the text per field and failed rule; "" is the fallback.
type messages map[string]map[string]string

func run(in any, msgs messages) (Errors, bool) {
	errs := Errors{}
	err := engine().Struct(in)
	if err == nil {
		return errs, true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["body"] = "Invalid request payload"
		return errs, false
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = messageFor(msgs, field, fe.Tag())
	}
	return errs, len(errs) == 0
}

func messageFor(msgs messages, field, tag string) string {
	if byTag, ok := msgs[field]; ok {
		if m, ok := byTag[tag]; ok {
			return m
		}
		if m, ok := byTag[""]; ok {
			return m
		}
	}
	switch tag {
	case "required":
		return field + " field is required"
	case "url":
		return "Not a valid URL"
	case "date":
		return "Not a valid date"
	default:
		return field + " is invalid"
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
