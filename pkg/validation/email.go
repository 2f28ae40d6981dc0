package validation

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// EmailValidator reports whether a value is a syntactically valid mailbox.
type EmailValidator interface {
	IsValid(email string) bool
}

// EmailValidatorFunc adapts a function to EmailValidator.
type EmailValidatorFunc func(string) bool

// IsValid implements EmailValidator.
func (f EmailValidatorFunc) IsValid(email string) bool { return f(email) }

// SchemaEmailValidator asserts the JSON Schema "email" format and additionally
// requires a dotted domain (local@domain.tld).
type SchemaEmailValidator struct {
	schema *jsonschema.Schema
}

var _ EmailValidator = (*SchemaEmailValidator)(nil)

// NewEmailValidator compiles the email format schema.
func NewEmailValidator() (*SchemaEmailValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()

	doc := map[string]any{
		"type":   "string",
		"format": "email",
	}
	if err := compiler.AddResource("email.json", doc); err != nil {
		return nil, fmt.Errorf("validation: add email schema: %w", err)
	}
	compiled, err := compiler.Compile("email.json")
	if err != nil {
		return nil, fmt.Errorf("validation: compile email schema: %w", err)
	}
	return &SchemaEmailValidator{schema: compiled}, nil
}

// MustEmailValidator panics when the schema cannot be compiled.
func MustEmailValidator() *SchemaEmailValidator {
	v, err := NewEmailValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// IsValid implements EmailValidator.
func (v *SchemaEmailValidator) IsValid(email string) bool {
	if v == nil || v.schema == nil {
		return false
	}
	if email == "" || strings.TrimSpace(email) != email {
		return false
	}
	if !hasDottedDomain(email) {
		return false
	}
	return v.schema.Validate(email) == nil
}

func hasDottedDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.HasPrefix(domain, "[") {
		return false
	}
	dot := strings.Index(domain, ".")
	if dot <= 0 || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
		return false
	}
	// An all-numeric top-level label is an IPv4 literal, not a domain.
	tld := domain[strings.LastIndex(domain, ".")+1:]
	return strings.TrimFunc(tld, isASCIIDigit) != ""
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
