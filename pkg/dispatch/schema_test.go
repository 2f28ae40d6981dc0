package dispatch

import (
	"bytes"
	"encoding/json"
	"testing"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/goliatone/go-catsform/pkg/form"
	"github.com/goliatone/go-catsform/pkg/model"
)

func compileResponseSchema(t *testing.T) *sjsonschema.Schema {
	t.Helper()
	raw, err := json.Marshal(ResponseSchema())
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource(SchemaID, doc); err != nil {
		t.Fatalf("add resource: %v", err)
	}
	schema, err := c.Compile(SchemaID)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return schema
}

func validateResponse(t *testing.T, schema *sjsonschema.Schema, resp Response) error {
	t.Helper()
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	inst, err := sjsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return schema.Validate(inst)
}

func TestResponseSchema_AcceptsDispatcherOutput(t *testing.T) {
	schema := compileResponseSchema(t)
	d, err := New(Config{Form: form.MustDeclare()})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	responses := []Response{
		{Commands: d.OnFieldChanged(form.NameKey, "")},
		{Commands: d.OnFieldChanged(form.EmailKey, "owner@example.com")},
		{Commands: d.OnSubmit([]model.FieldValue{{Key: form.NameKey, Value: "T"}})},
		{Commands: d.OnSubmit([]model.FieldValue{
			{Key: form.NameKey, Value: "Tom"},
			{Key: form.EmailKey, Value: "owner@example.com"},
		})},
	}
	for i, resp := range responses {
		if err := validateResponse(t, schema, resp); err != nil {
			t.Fatalf("response %d rejected: %v", i, err)
		}
	}
}

func TestResponseSchema_RejectsMalformed(t *testing.T) {
	schema := compileResponseSchema(t)
	for _, raw := range []string{
		`{}`,
		`{"commands":[{"command":"toggle","selector":".x"}]}`,
		`{"commands":[{"command":"html"}]}`,
		`{"commands":[{"command":"val","selector":""}]}`,
	} {
		inst, err := sjsonschema.UnmarshalJSON(bytes.NewReader([]byte(raw)))
		if err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if err := schema.Validate(inst); err == nil {
			t.Fatalf("expected %s to be rejected", raw)
		}
	}
}
