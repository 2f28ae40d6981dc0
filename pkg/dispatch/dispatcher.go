package dispatch

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-catsform/pkg/model"
	"github.com/goliatone/go-catsform/pkg/render"
	"github.com/goliatone/go-catsform/pkg/validation"
)

// State markers toggled on field inputs.
const (
	ClassError   = "error"
	ClassWarning = "warning"
)

// SubmitHook observes a successful submission after the flash message was
// recorded.
type SubmitHook func(values []model.FieldValue)

// Config carries the dispatcher's collaborators. Form is required; the rest
// default to the schema email validator, English messages, and a messenger
// that discards everything.
type Config struct {
	Form      model.Form
	Validator *validation.Validator
	Messenger Messenger
	Messages  render.Messages
	OnSubmit  SubmitHook
}

// Dispatcher evaluates fields and produces instruction lists.
type Dispatcher struct {
	form      model.Form
	validator *validation.Validator
	messenger Messenger
	messages  render.Messages
	onSubmit  SubmitHook
}

// New validates cfg and builds a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if len(cfg.Form.Fields) == 0 {
		return nil, errors.New("dispatch: form declares no fields")
	}
	seen := make(map[string]struct{}, len(cfg.Form.Fields))
	for _, field := range cfg.Form.Fields {
		if field.Key == "" {
			return nil, errors.New("dispatch: field key is required")
		}
		if _, dup := seen[field.Key]; dup {
			return nil, fmt.Errorf("dispatch: field %q declared twice", field.Key)
		}
		seen[field.Key] = struct{}{}
	}

	msgs := cfg.Messages
	if msgs.Locale == "" {
		msgs = render.NewMessages(render.DefaultLocale, msgs.Translator)
	}
	v := cfg.Validator
	if v == nil {
		v = validation.New()
	}
	messenger := cfg.Messenger
	if messenger == nil {
		messenger = discardMessenger{}
	}

	return &Dispatcher{
		form:      cfg.Form,
		validator: v.WithLocale(msgs),
		messenger: messenger,
		messages:  msgs,
		onSubmit:  cfg.OnSubmit,
	}, nil
}

// Form returns the declared form.
func (d *Dispatcher) Form() model.Form {
	return d.form
}

// Messages returns the resolver used for instruction text.
func (d *Dispatcher) Messages() render.Messages {
	return d.messages
}

// WithLocale returns a copy whose messages resolve through msgs.
func (d *Dispatcher) WithLocale(msgs render.Messages) *Dispatcher {
	clone := *d
	clone.messages = msgs
	clone.validator = d.validator.WithLocale(msgs)
	return &clone
}

// WithMessenger returns a copy recording flash messages into m.
func (d *Dispatcher) WithMessenger(m Messenger) *Dispatcher {
	clone := *d
	if m == nil {
		m = discardMessenger{}
	}
	clone.messenger = m
	return &clone
}

// ValidateField evaluates one declared field. Unknown keys panic.
func (d *Dispatcher) ValidateField(key, value string) model.ValidationOutcome {
	return d.validator.ValidateField(d.mustField(key), value)
}

// OnFieldChanged handles inline validation of a single field. The error
// marker is always cleared first, then the message region and the warning
// marker are set or cleared together.
func (d *Dispatcher) OnFieldChanged(key, value string) []Instruction {
	field := d.mustField(key)
	outcome := d.validator.ValidateField(field, value)

	fieldSelector := model.FieldSelector(field.Key)
	region := model.MessageSelector(field.Key)

	out := make([]Instruction, 0, 3)
	out = append(out, RemoveClass(fieldSelector, ClassError))
	if !outcome.Valid() {
		out = append(out,
			SetRegionHTML(region, render.Block(render.BlockWarning, outcome.Errors)),
			AddClass(fieldSelector, ClassWarning),
		)
		return out
	}
	return append(out,
		SetRegionHTML(region, ""),
		RemoveClass(fieldSelector, ClassWarning),
	)
}

// OnSubmit validates every declared field. Failing fields get an error block
// and the error marker; the submission effect only runs when all fields pass.
func (d *Dispatcher) OnSubmit(values []model.FieldValue) []Instruction {
	outcomes := d.validator.ValidateAll(d.form, values)

	var out []Instruction
	for _, outcome := range outcomes {
		if outcome.Valid() {
			continue
		}
		fieldSelector := model.FieldSelector(outcome.FieldKey)
		out = append(out,
			SetRegionHTML(model.MessageSelector(outcome.FieldKey), render.Block(render.BlockError, outcome.Errors)),
			RemoveClass(fieldSelector, ClassWarning),
			AddClass(fieldSelector, ClassError),
		)
	}
	if len(out) > 0 {
		return out
	}

	success := d.messages.Text(render.KeySubmitSuccess)
	d.submit(values, success)

	return []Instruction{
		SetInputValue(model.TextInputsSelector, ""),
		SetRegionHTML(model.SuccessRegionSelector, render.Block(render.BlockStatus, []string{success})),
	}
}

// submit is the submission effect. Cats are not persisted; the effect only
// records the confirmation.
func (d *Dispatcher) submit(values []model.FieldValue, confirmation string) {
	d.messenger.Add(Message{Type: MessageStatus, Text: confirmation})
	if d.onSubmit != nil {
		d.onSubmit(append([]model.FieldValue(nil), values...))
	}
}

func (d *Dispatcher) mustField(key string) model.FormField {
	field, ok := d.form.Field(key)
	if !ok {
		panic(fmt.Sprintf("dispatch: field %q is not declared", key))
	}
	return field
}
