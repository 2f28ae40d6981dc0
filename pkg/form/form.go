// Package form declares the cats form: the two inputs, their display
// metadata, and which browser event triggers which dispatcher operation.
package form

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-catsform/pkg/model"
	"github.com/goliatone/go-catsform/pkg/openapi"
)

const (
	// OperationID names the submit operation in the embedded document.
	OperationID = "addCat"

	NameKey  = "cat_name"
	EmailKey = "cat_email"
	// SubmitKey identifies the submit control in the trigger map.
	SubmitKey = "submit"
)

// Operation identifies a dispatcher entry point.
type Operation string

const (
	OperationValidate Operation = "validate"
	OperationSubmit   Operation = "submit"
)

// Trigger binds a DOM event on a control to a dispatcher operation.
type Trigger struct {
	Control   string    `json:"control"`
	Event     string    `json:"event"`
	Operation Operation `json:"operation"`
}

var (
	declareOnce sync.Once
	declared    model.Form
	declareErr  error
)

// Declare returns the cats form parsed from the embedded OpenAPI document.
func Declare() (model.Form, error) {
	declareOnce.Do(func() {
		doc, err := openapi.DefaultDocument()
		if err != nil {
			declareErr = err
			return
		}
		form, err := openapi.FormFromDocument(context.Background(), doc, OperationID, openapi.ParserOptions{})
		if err != nil {
			declareErr = err
			return
		}
		if err := checkDeclared(form); err != nil {
			declareErr = err
			return
		}
		declared = form
	})
	if declareErr != nil {
		return model.Form{}, declareErr
	}
	return clone(declared), nil
}

// MustDeclare panics when the embedded declaration is unusable.
func MustDeclare() model.Form {
	form, err := Declare()
	if err != nil {
		panic(err)
	}
	return form
}

// Triggers maps every control to the dispatcher operation it fires.
func Triggers(form model.Form) []Trigger {
	out := make([]Trigger, 0, len(form.Fields)+1)
	for _, field := range form.Fields {
		out = append(out, Trigger{Control: field.Key, Event: "change", Operation: OperationValidate})
	}
	out = append(out, Trigger{Control: SubmitKey, Event: "click", Operation: OperationSubmit})
	return out
}

func checkDeclared(form model.Form) error {
	if len(form.Fields) != 2 {
		return fmt.Errorf("form: expected 2 fields, got %d", len(form.Fields))
	}
	name, ok := form.Field(NameKey)
	if !ok {
		return fmt.Errorf("form: field %q not declared", NameKey)
	}
	if name.Kind != model.FieldKindText || !name.Required || name.MinLength != 2 || name.MaxLength != 32 {
		return fmt.Errorf("form: field %q has unexpected constraints", NameKey)
	}
	email, ok := form.Field(EmailKey)
	if !ok {
		return fmt.Errorf("form: field %q not declared", EmailKey)
	}
	if email.Kind != model.FieldKindEmail || !email.Required {
		return fmt.Errorf("form: field %q has unexpected constraints", EmailKey)
	}
	return nil
}

func clone(form model.Form) model.Form {
	out := form
	out.Fields = append([]model.FormField(nil), form.Fields...)
	return out
}
