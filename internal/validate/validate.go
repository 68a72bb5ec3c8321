// Package validate wraps go-playground/validator with English messages and
// JSON field names, and converts failures into apperr.ValidationError.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/rpggio/teamportal/internal/apperr"
)

var (
	requiredTag  = "required"
	requiredText = "this field is required"

	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"

	dayTag  = "day"
	dayText = "{0} must be a date (YYYY-MM-DD or RFC 3339)"
)

var instance = sync.OnceValues(func() (*validator.Validate, ut.Translator) {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(v, translator)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(dayTag, func(fl validator.FieldLevel) bool {
		_, err := ParseDay(fl.Field().String())
		return err == nil
	})

	registerTranslation(v, translator, requiredTag, requiredText, true)
	registerTranslation(v, translator, notBlankTag, notBlankText, false)
	registerTranslation(v, translator, dayTag, dayText, false)
	return v, translator
})

func registerTranslation(v *validator.Validate, translator ut.Translator, tag, text string, override bool) {
	_ = v.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s and returns the first failure as an apperr.ValidationError.
func Struct(s any) error {
	v, translator := instance()
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperr.Invalid(fieldPath(fe), fe.Translate(translator))
	}
	return apperr.Invalid("", err.Error())
}

// fieldPath is the JSON path of the failing field without the root struct
// name, e.g. "milestones[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Var validates a single value against tag, reporting failures under field.
func Var(field string, value any, tag string) error {
	v, translator := instance()
	err := v.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msg := verrs[0].Translate(translator)
		return apperr.Invalid(field, strings.TrimSpace(strings.TrimPrefix(msg, verrs[0].Field())))
	}
	return apperr.Invalid(field, err.Error())
}

// ParseDay accepts YYYY-MM-DD or RFC 3339 and returns midnight UTC of that day.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
