// Package tui drives the cats form from a terminal. Each answer goes through
// the same dispatcher as the browser: inline validation after every prompt,
// then one submission once every field is valid.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-catsform/pkg/dispatch"
	"github.com/goliatone/go-catsform/pkg/model"
	"github.com/goliatone/go-catsform/pkg/render"
)

// Renderer runs an interactive session against a dispatcher.
type Renderer struct {
	dispatcher   *dispatch.Dispatcher
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	maxAttempts  int
	theme        Theme
}

// Result is the outcome of one session.
type Result struct {
	Values    []model.FieldValue
	Commands  []dispatch.Instruction
	Messages  []dispatch.Message
	Submitted bool
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(d *dispatch.Dispatcher, options ...Option) (*Renderer, error) {
	if d == nil {
		return nil, errors.New("tui: dispatcher is required")
	}
	r := &Renderer{
		dispatcher:   d,
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render runs a session and serializes the submitted values.
func (r *Renderer) Render(ctx context.Context) ([]byte, error) {
	result, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	return r.serialize(result.Values)
}

// Run prompts for every field until it validates, then submits.
func (r *Renderer) Run(ctx context.Context) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	form := r.dispatcher.Form()
	localized := render.LocalizeForm(form, r.dispatcher.Messages())
	state := NewState(form)

	for _, field := range localized.Fields {
		if err := r.promptField(ctx, field, state); err != nil {
			return Result{}, err
		}
	}

	values := state.Values()
	flash := &dispatch.FlashMessenger{}
	commands := r.dispatcher.WithMessenger(flash).OnSubmit(values)
	if err := r.apply(ctx, state, commands); err != nil {
		return Result{}, err
	}

	submitted := true
	for _, key := range form.Keys() {
		if state.HasClass(model.FieldSelector(key), dispatch.ClassError) {
			submitted = false
		}
	}
	return Result{
		Values:    values,
		Commands:  commands,
		Messages:  flash.Drain(),
		Submitted: submitted,
	}, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.FormField, state *State) error {
	for attempt := 1; ; attempt++ {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(field),
			Default: state.Value(field.Key),
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		state.SetValue(field.Key, response)

		if err := r.apply(ctx, state, r.dispatcher.OnFieldChanged(field.Key, response)); err != nil {
			return err
		}
		outcome := r.dispatcher.ValidateField(field.Key, response)
		state.Mark(outcome)
		if outcome.Valid() {
			return nil
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Key)
		}
	}
}

func (r *Renderer) apply(ctx context.Context, state *State, commands []dispatch.Instruction) error {
	for _, selector := range state.Apply(commands) {
		prefix := r.theme.ErrorPrefix
		if selector == model.SuccessRegionSelector {
			prefix = r.theme.InfoPrefix
		}
		for _, line := range strings.Split(blockText(state.Region(selector)), "\n") {
			if err := r.driver.Info(ctx, prefix+line); err != nil {
				return err
			}
		}
	}
	return nil
}

var textPolicy = bluemonday.StrictPolicy()

// blockText turns a message block into plain lines.
func blockText(fragment string) string {
	fragment = strings.ReplaceAll(fragment, "<br>", "\n")
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(fragment)))
}

func (r *Renderer) serialize(values []model.FieldValue) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for _, v := range values {
			form.Set(v.Key, v.Value)
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, v := range values {
			fmt.Fprintf(&b, "%s=%s\n", v.Key, v.Value)
		}
		return []byte(b.String()), nil
	default:
		payload := make(map[string]string, len(values))
		for _, v := range values {
			payload[v.Key] = v.Value
		}
		return json.Marshal(payload)
	}
}

func displayLabel(field model.FormField) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Key
}
