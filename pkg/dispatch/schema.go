package dispatch

import (
	"github.com/invopop/jsonschema"
)

// SchemaID identifies the published instruction list schema.
const SchemaID = "https://github.com/goliatone/go-catsform/instructions.schema.json"

// ResponseSchema describes the JSON envelope returned by the validation and
// submission endpoints.
func ResponseSchema() *jsonschema.Schema {
	instruction := &jsonschema.Schema{
		Type:       "object",
		Title:      "Instruction",
		Properties: jsonschema.NewProperties(),
		Required:   []string{"command", "selector"},
	}
	instruction.Properties.Set("command", &jsonschema.Schema{
		Type: "string",
		Enum: []any{
			string(CommandSetRegionHTML),
			string(CommandAddClass),
			string(CommandRemoveClass),
			string(CommandSetInputValue),
		},
	})
	instruction.Properties.Set("selector", &jsonschema.Schema{Type: "string", MinLength: uint64Ptr(1)})
	instruction.Properties.Set("html", &jsonschema.Schema{Type: "string", Description: "Region markup, html only."})
	instruction.Properties.Set("class", &jsonschema.Schema{Type: "string", Description: "Class name, addClass and removeClass only."})
	instruction.Properties.Set("value", &jsonschema.Schema{Type: "string", Description: "Input value, val only."})

	response := &jsonschema.Schema{
		Version:    jsonschema.Version,
		ID:         jsonschema.ID(SchemaID),
		Type:       "object",
		Title:      "InstructionList",
		Properties: jsonschema.NewProperties(),
		Required:   []string{"commands"},
	}
	response.Properties.Set("commands", &jsonschema.Schema{
		Type:  "array",
		Items: instruction,
	})
	return response
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}
