package render

import (
	"fmt"
	"strings"
)

// Message keys. Field-scoped keys are built with FieldKey.
const (
	KeyNameRequired  = "name.required"
	KeyNameTooShort  = "name.too_short"
	KeyNameTooLong   = "name.too_long"
	KeyEmailRequired = "email.required"
	KeyEmailInvalid  = "email.invalid"
	KeySubmitSuccess = "submit.success"
	KeySubmitLabel   = "submit.label"
	KeyPageIntro     = "page.intro"
	KeyPageTitle     = "page.title"
)

// Field-scoped key suffixes.
const (
	FieldLabel       = "label"
	FieldPlaceholder = "placeholder"
	FieldDescription = "description"
)

// DefaultLocale is used when no locale is requested or matched.
const DefaultLocale = "en"

var defaultMessages = map[string]string{
	KeyNameRequired:  "The cat's name is required.",
	KeyNameTooShort:  "The cat's name must be at least %d characters long.",
	KeyNameTooLong:   "The cat's name must not exceed %d characters.",
	KeyEmailRequired: "The email is required.",
	KeyEmailInvalid:  "The email is not valid. Example of the correct email: example@example.com",
	KeySubmitSuccess: "Your cat has been successfully added.",
	KeySubmitLabel:   "Add cat",
	KeyPageIntro:     "Hello! You can add here a photo of your cat.",
	KeyPageTitle:     "Cats",
}

// FieldKey builds the key for a per-field string, e.g. "cat_name.label".
func FieldKey(fieldKey, suffix string) string {
	return fieldKey + "." + suffix
}

// DefaultMessage returns the English text for key, formatted with args.
func DefaultMessage(key string, args ...any) (string, bool) {
	msg, ok := defaultMessages[key]
	if !ok {
		return "", false
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return msg, true
}

// Messages resolves keys for one locale.
type Messages struct {
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// NewMessages builds a resolver for locale using t, which may be nil.
func NewMessages(locale string, t Translator) Messages {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = DefaultLocale
	}
	return Messages{Locale: locale, Translator: t}
}

// Text resolves key, falling back to the English default.
func (m Messages) Text(key string, args ...any) string {
	fallback, _ := DefaultMessage(key, args...)
	return m.TextOr(key, fallback, args...)
}

// TextOr resolves key, falling back to the supplied text.
func (m Messages) TextOr(key, fallback string, args ...any) string {
	onMissing := m.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	return translate(m.Locale, key, fallback, m.Translator, onMissing, args...)
}
