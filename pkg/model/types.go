package model

// FieldKind is the simplified enum for the supported input kinds.
type FieldKind string

const (
	FieldKindText  FieldKind = "text"
	FieldKindEmail FieldKind = "email"
)

// FieldState tracks the validation state of a single input between checks.
type FieldState int

const (
	FieldStatePristine FieldState = iota
	FieldStateValid
	FieldStateInvalid
)

func (s FieldState) String() string {
	switch s {
	case FieldStateValid:
		return "valid"
	case FieldStateInvalid:
		return "invalid"
	default:
		return "pristine"
	}
}

// FormField models an individual input inside the form. MinLength and
// MaxLength count characters, not bytes; a zero MaxLength means unbounded.
type FormField struct {
	Key         string    `json:"key"`
	Kind        FieldKind `json:"kind"`
	Required    bool      `json:"required"`
	MinLength   int       `json:"minLength,omitempty"`
	MaxLength   int       `json:"maxLength,omitempty"`
	Label       string    `json:"label,omitempty"`
	Description string    `json:"description,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// ShortName returns the CSS-facing name for the field.
func (f FormField) ShortName() string {
	return ShortName(f.Key)
}

// InputType maps the field kind onto an HTML input type.
func (f FormField) InputType() string {
	if f.Kind == FieldKindEmail {
		return "email"
	}
	return "text"
}

// FieldValue carries the submitted value for one field.
type FieldValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ValidationOutcome lists the messages produced for one field. An empty
// Errors slice means the field is valid.
type ValidationOutcome struct {
	FieldKey string   `json:"field"`
	Errors   []string `json:"errors,omitempty"`
}

// Valid reports whether the outcome carries no errors.
func (o ValidationOutcome) Valid() bool {
	return len(o.Errors) == 0
}

// State maps the outcome onto the field state machine.
func (o ValidationOutcome) State() FieldState {
	if o.Valid() {
		return FieldStateValid
	}
	return FieldStateInvalid
}

// Form is the declared, ordered field set plus submit metadata.
type Form struct {
	ID          string      `json:"id"`
	Endpoint    string      `json:"endpoint,omitempty"`
	Method      string      `json:"method,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Description string      `json:"description,omitempty"`
	SubmitLabel string      `json:"submitLabel,omitempty"`
	Fields      []FormField `json:"fields"`
}

// Field returns the declared field for key.
func (f Form) Field(key string) (FormField, bool) {
	for _, field := range f.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FormField{}, false
}

// Has reports whether key names a declared field.
func (f Form) Has(key string) bool {
	_, ok := f.Field(key)
	return ok
}

// Keys returns the declared field keys in declaration order.
func (f Form) Keys() []string {
	keys := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		keys = append(keys, field.Key)
	}
	return keys
}

// Values converts a key/value map into declaration-ordered FieldValues.
// Declared keys missing from raw get an empty value; undeclared keys are
// dropped.
func (f Form) Values(raw map[string]string) []FieldValue {
	out := make([]FieldValue, 0, len(f.Fields))
	for _, field := range f.Fields {
		out = append(out, FieldValue{Key: field.Key, Value: raw[field.Key]})
	}
	return out
}
