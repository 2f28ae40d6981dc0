package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-catsform/pkg/model"
)

const (
	extOrder       = "x-order"
	extPlaceholder = "x-placeholder"
	extSubmitLabel = "x-submit-label"

	formContentType = "application/x-www-form-urlencoded"
)

// ParserOptions configures document parsing.
type ParserOptions struct {
	// SkipValidation disables openapi3.T.Validate. Only useful for fixtures.
	SkipValidation bool
}

// Parse loads doc with kin-openapi and validates it.
func Parse(ctx context.Context, doc Document, opts ParserOptions) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(doc.raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	spec, err := loader.LoadFromData(doc.raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if !opts.SkipValidation {
		if err := spec.Validate(ctx); err != nil {
			return nil, fmt.Errorf("openapi parser: validate document: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}
	return spec, nil
}

// FormFromDocument builds the form declared by the request body of the
// operation identified by operationID.
func FormFromDocument(ctx context.Context, doc Document, operationID string, opts ParserOptions) (model.Form, error) {
	spec, err := Parse(ctx, doc, opts)
	if err != nil {
		return model.Form{}, err
	}

	path, method, op := findOperation(spec, operationID)
	if op == nil {
		return model.Form{}, fmt.Errorf("openapi parser: operation %q not found", operationID)
	}

	body, err := requestSchema(op)
	if err != nil {
		return model.Form{}, fmt.Errorf("openapi parser: operation %q: %w", operationID, err)
	}

	fields, err := fieldsFromSchema(body)
	if err != nil {
		return model.Form{}, fmt.Errorf("openapi parser: operation %q: %w", operationID, err)
	}

	return model.Form{
		ID:          operationID,
		Endpoint:    path,
		Method:      method,
		Summary:     strings.TrimSpace(op.Summary),
		Description: strings.TrimSpace(op.Description),
		SubmitLabel: extensionString(op.Extensions, extSubmitLabel),
		Fields:      fields,
	}, nil
}

func findOperation(spec *openapi3.T, operationID string) (string, string, *openapi3.Operation) {
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return path, strings.ToUpper(method), op
			}
		}
	}
	return "", "", nil
}

func requestSchema(op *openapi3.Operation) (*openapi3.Schema, error) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, errors.New("request body missing")
	}
	media := op.RequestBody.Value.Content.Get(formContentType)
	if media == nil {
		return nil, fmt.Errorf("request body has no %s content", formContentType)
	}
	if media.Schema == nil || media.Schema.Value == nil {
		return nil, errors.New("request body schema missing")
	}
	return media.Schema.Value, nil
}

type orderedField struct {
	order int
	field model.FormField
}

func fieldsFromSchema(schema *openapi3.Schema) ([]model.FormField, error) {
	if len(schema.Properties) == 0 {
		return nil, errors.New("request body declares no properties")
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	collected := make([]orderedField, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("property %q has no schema", name)
		}
		prop := ref.Value
		if prop.Type != nil && !prop.Type.Is(openapi3.TypeString) {
			return nil, fmt.Errorf("property %q: only string inputs are supported", name)
		}

		field := model.FormField{
			Key:         name,
			Kind:        model.FieldKindText,
			MinLength:   clampLength(prop.MinLength),
			Label:       strings.TrimSpace(prop.Title),
			Description: strings.TrimSpace(prop.Description),
			Placeholder: extensionString(prop.Extensions, extPlaceholder),
		}
		if prop.MaxLength != nil {
			field.MaxLength = clampLength(*prop.MaxLength)
		}
		if strings.EqualFold(prop.Format, "email") {
			field.Kind = model.FieldKindEmail
		}
		if _, ok := required[name]; ok {
			field.Required = true
		}

		order, ok := extensionInt(prop.Extensions, extOrder)
		if !ok {
			order = math.MaxInt
		}
		collected = append(collected, orderedField{order: order, field: field})
	}

	sort.SliceStable(collected, func(i, j int) bool {
		if collected[i].order != collected[j].order {
			return collected[i].order < collected[j].order
		}
		return collected[i].field.Key < collected[j].field.Key
	})

	fields := make([]model.FormField, 0, len(collected))
	for _, entry := range collected {
		fields = append(fields, entry.field)
	}
	return fields, nil
}

func clampLength(v uint64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

func extensionString(ext map[string]any, key string) string {
	raw, ok := ext[key]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.RawMessage:
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}

func extensionInt(ext map[string]any, key string) (int, bool) {
	raw, ok := ext[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case json.RawMessage:
		var n int
		if err := json.Unmarshal(v, &n); err == nil {
			return n, true
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}
