package validation

import "testing"

func TestSchemaEmailValidator(t *testing.T) {
	v := MustEmailValidator()

	valid := []string{
		"a@b.com",
		"example@example.com",
		"first.last@sub.example.org",
		"cat_owner-1@mail.example.ua",
		"owner@1cats.example.io",
	}
	for _, email := range valid {
		if !v.IsValid(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"a@b",
		"@example.com",
		"user@",
		"user@.com",
		"user@example.",
		"user@exa..mple.com",
		" user@example.com",
		"user@example.com ",
		"us er@example.com",
		"user@[127.0.0.1]",
		"a@127.0.0.1",
		"user@example.123",
	}
	for _, email := range invalid {
		if v.IsValid(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestSchemaEmailValidator_NilIsInvalid(t *testing.T) {
	var v *SchemaEmailValidator
	if v.IsValid("a@b.com") {
		t.Fatalf("nil validator must reject everything")
	}
}
