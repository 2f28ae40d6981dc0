package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/goliatone/go-catsform/pkg/model"
	"github.com/goliatone/go-catsform/pkg/render"
)

// Validator evaluates declared fields.
type Validator struct {
	email    EmailValidator
	messages render.Messages
}

// Option configures a Validator.
type Option func(*Validator)

// WithEmailValidator swaps the mailbox syntax check.
func WithEmailValidator(v EmailValidator) Option {
	return func(val *Validator) {
		if v != nil {
			val.email = v
		}
	}
}

// WithMessages sets the message resolver used for error text.
func WithMessages(msgs render.Messages) Option {
	return func(val *Validator) {
		val.messages = msgs
	}
}

// New builds a Validator. Without WithEmailValidator the schema-backed
// validator is used.
func New(options ...Option) *Validator {
	v := &Validator{messages: render.NewMessages(render.DefaultLocale, nil)}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	if v.email == nil {
		v.email = MustEmailValidator()
	}
	return v
}

// WithLocale returns a copy of v resolving messages through msgs.
func (v *Validator) WithLocale(msgs render.Messages) *Validator {
	clone := *v
	clone.messages = msgs
	return &clone
}

// ValidateField checks value against the rules of field.
func (v *Validator) ValidateField(field model.FormField, value string) model.ValidationOutcome {
	outcome := model.ValidationOutcome{FieldKey: field.Key}

	switch field.Kind {
	case model.FieldKindEmail:
		outcome.Errors = v.emailErrors(field, value)
	case model.FieldKindText:
		outcome.Errors = v.textErrors(field, value)
	default:
		panic(fmt.Sprintf("validation: field %q has unsupported kind %q", field.Key, field.Kind))
	}
	return outcome
}

// ValidateAll checks every declared field, in declaration order. Values for
// undeclared keys are a programming error.
func (v *Validator) ValidateAll(form model.Form, values []model.FieldValue) []model.ValidationOutcome {
	byKey := make(map[string]string, len(values))
	for _, fv := range values {
		if !form.Has(fv.Key) {
			panic(fmt.Sprintf("validation: field %q is not declared", fv.Key))
		}
		byKey[fv.Key] = fv.Value
	}

	out := make([]model.ValidationOutcome, 0, len(form.Fields))
	for _, field := range form.Fields {
		out = append(out, v.ValidateField(field, byKey[field.Key]))
	}
	return out
}

// CharLength counts Unicode code points.
func CharLength(value string) int {
	return utf8.RuneCountInString(value)
}

func (v *Validator) textErrors(field model.FormField, value string) []string {
	var errs []string
	length := CharLength(value)

	if field.Required && length == 0 {
		errs = append(errs, v.messages.Text(render.KeyNameRequired))
	}
	if field.MinLength > 0 && length < field.MinLength {
		errs = append(errs, v.messages.Text(render.KeyNameTooShort, field.MinLength))
	}
	if field.MaxLength > 0 && length > field.MaxLength {
		errs = append(errs, v.messages.Text(render.KeyNameTooLong, field.MaxLength))
	}
	return errs
}

func (v *Validator) emailErrors(field model.FormField, value string) []string {
	if value == "" {
		if field.Required {
			return []string{v.messages.Text(render.KeyEmailRequired)}
		}
		return nil
	}
	if !v.email.IsValid(value) {
		return []string{v.messages.Text(render.KeyEmailInvalid)}
	}
	return nil
}
