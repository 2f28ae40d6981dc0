package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-catsform/pkg/model"
)

// ErrMissingTranslator is reported to MissingTranslationHandler when a key is
// resolved without a Translator configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// ErrMissingTranslation is returned by translators that have no entry for a key.
var ErrMissingTranslation = errors.New("render: missing translation")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. args carries a trailing map with the "default" text.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if meta, ok := args[len(args)-1].(map[string]any); ok {
			if fallback, ok := meta["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	meta := []any{map[string]any{"default": fallback}}

	if t == nil {
		return onMissing(locale, key, meta, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if err == nil {
		err = ErrMissingTranslation
	}
	return onMissing(locale, key, meta, err)
}

// LocalizeForm returns a copy of form with labels, placeholders,
// descriptions, and the submit label translated. Declared text is the
// fallback.
func LocalizeForm(form model.Form, msgs Messages) model.Form {
	out := form
	out.Fields = make([]model.FormField, len(form.Fields))
	for i, field := range form.Fields {
		field.Label = msgs.TextOr(FieldKey(field.Key, FieldLabel), field.Label)
		field.Placeholder = msgs.TextOr(FieldKey(field.Key, FieldPlaceholder), field.Placeholder)
		field.Description = msgs.TextOr(FieldKey(field.Key, FieldDescription), field.Description)
		out.Fields[i] = field
	}

	submit := strings.TrimSpace(form.SubmitLabel)
	if submit == "" {
		submit, _ = DefaultMessage(KeySubmitLabel)
	}
	out.SubmitLabel = msgs.TextOr(KeySubmitLabel, submit)
	return out
}
