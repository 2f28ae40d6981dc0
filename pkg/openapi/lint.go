package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Violation is one misuse of the form extensions in a document.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// Lint reports misplaced or mistyped x-order, x-placeholder, and
// x-submit-label extensions, and form properties the form cannot render.
func Lint(ctx context.Context, doc Document) ([]Violation, error) {
	spec, err := Parse(ctx, doc, ParserOptions{})
	if err != nil {
		return nil, err
	}

	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	var result []Violation
	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for method := range ops {
			methods = append(methods, method)
		}
		sort.Strings(methods)

		for _, method := range methods {
			op := ops[method]
			if op == nil {
				continue
			}
			base := []string{"paths", path, strings.ToLower(method)}
			result = append(result, lintOperation(base, op)...)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Location == result[j].Location {
			return result[i].Message < result[j].Message
		}
		return result[i].Location < result[j].Location
	})
	return result, nil
}

func lintOperation(base []string, op *openapi3.Operation) []Violation {
	var result []Violation
	for _, key := range sortedKeys(op.Extensions) {
		value := op.Extensions[key]
		switch key {
		case extSubmitLabel:
			if !isString(value) {
				result = append(result, violation(base, "%s must be a string", key))
			}
		case extOrder, extPlaceholder:
			result = append(result, violation(base, "%s belongs on a request body property", key))
		}
	}

	schema, err := requestSchema(op)
	if err != nil {
		return result
	}

	body := appendPath(base, "requestBody")
	orders := make(map[int]string)
	for _, name := range sortedKeys(schema.Properties) {
		ref := schema.Properties[name]
		location := appendPath(body, "properties."+name)
		if ref == nil || ref.Value == nil {
			result = append(result, violation(location, "property has no schema"))
			continue
		}
		prop := ref.Value
		if prop.Type != nil && !prop.Type.Is(openapi3.TypeString) {
			result = append(result, violation(location, "only string inputs are supported"))
		}

		for _, key := range sortedKeys(prop.Extensions) {
			value := prop.Extensions[key]
			switch key {
			case extPlaceholder:
				if !isString(value) {
					result = append(result, violation(location, "%s must be a string", key))
				}
			case extOrder:
				order, ok := extensionInt(prop.Extensions, key)
				if !ok || !isNumber(value) {
					result = append(result, violation(location, "%s must be a number", key))
					continue
				}
				if other, dup := orders[order]; dup {
					result = append(result, violation(location, "%s %d already used by %q", key, order, other))
					continue
				}
				orders[order] = name
			case extSubmitLabel:
				result = append(result, violation(location, "%s belongs on the operation", key))
			}
		}
	}
	return result
}

func violation(path []string, format string, args ...any) Violation {
	return Violation{Location: strings.Join(path, " > "), Message: fmt.Sprintf(format, args...)}
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isString(v any) bool {
	switch raw := v.(type) {
	case string:
		return true
	case json.RawMessage:
		var s string
		return json.Unmarshal(raw, &s) == nil
	}
	return false
}

func isNumber(v any) bool {
	switch raw := v.(type) {
	case int, int64, float64, json.Number:
		return true
	case json.RawMessage:
		var n float64
		return json.Unmarshal(raw, &n) == nil
	}
	return false
}
