// Package validation checks request payloads with go-playground/validator and
// renders failures as English sentences keyed by JSON field paths.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag = "notblank"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && strings.TrimSpace(s) != ""
	})
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " cannot be blank"
		},
	)
}

// FieldError is one failed rule.
type FieldError struct {
	Path    string // JSON path without the root, e.g. "lessons[0].content[1].video_url"
	Message string // e.g. "video_url must be a valid URL"
}

// Errors is the list of failed rules of one Struct call.
type Errors []FieldError

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns one human-readable line per failure, prefixed with its position.
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, describe(fe))
	}
	return out
}

// Struct validates v against its `validate` tags.
// POST: Returns nil, Errors, or a non-validation error for invalid input types
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.Index(path, "."); i >= 0 {
			path = path[i+1:]
		}
		out = append(out, FieldError{Path: path, Message: fe.Translate(translator)})
	}
	return out
}

// describe prefixes a message with its lesson and item position, numbered from 1.
func describe(fe FieldError) string {
	var parts []string
	for _, seg := range strings.Split(fe.Path, ".") {
		name, idx, ok := splitIndex(seg)
		if !ok {
			continue
		}
		switch name {
		case "lessons":
			parts = append(parts, "Lesson "+idx)
		case "content":
			parts = append(parts, "item "+idx)
		}
	}
	if len(parts) == 0 {
		return fe.Message
	}
	return strings.Join(parts, ", ") + ": " + fe.Message
}

// splitIndex turns "lessons[2]" into ("lessons", "3", true).
func splitIndex(seg string) (string, string, bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return "", "", false
	}
	n, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return "", "", false
	}
	return seg[:open], strconv.Itoa(n + 1), true
}
