// Package bind decodes JSON request bodies and validates them with validator/v10
// validation failures carry the json path of the first bad field
package bind

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "piiredact/internal/platform/errors"
	"piiredact/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// FieldLevel is handed to custom validation funcs
type FieldLevel = validator.FieldLevel

type checker struct {
	v  *validator.Validate
	tr ut.Translator
}

var shared = sync.OnceValue(func() *checker {
	loc := en.New()
	tr, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = entrans.RegisterDefaultTranslations(v, tr)

	c := &checker{v: v, tr: tr}
	c.message("min", "{0} must be at least {1}")
	c.message("max", "{0} must be at most {1}")
	c.message("gtefield", "{0} must not be less than {1}")
	return c
})

// jsonName reports fields by their json key so errors match the request body
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func (c *checker) message(tag, text string) {
	_ = c.v.RegisterTranslation(tag, c.tr,
		func(tr ut.Translator) error { return tr.Add(tag, text, true) },
		func(tr ut.Translator, fe validator.FieldError) string {
			s, _ := tr.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

// RegisterValidation adds a custom tag; message may use {0} for the field
func RegisterValidation(tag, message string, fn validator.Func) error {
	c := shared()
	if err := c.v.RegisterValidation(tag, fn); err != nil {
		return err
	}
	c.message(tag, message)
	return nil
}

// Validate checks v's struct tags and reports the first failure as a validation error
func Validate(v any) error {
	c := shared()
	err := c.v.Struct(v)
	if err == nil {
		return nil
	}
	var fails validator.ValidationErrors
	if !errors.As(err, &fails) || len(fails) == 0 {
		logger.Named("bind").Error().Err(err).Msg("validator rejected target")
		return perr.JSONErrf("validation error")
	}
	fe := fails[0]
	// drop the root struct name: payload.entities[0].label -> entities[0].label
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	return perr.WithField(perr.Validationf("%s", fe.Translate(c.tr)), path)
}
