package tui

import (
	"strings"

	"github.com/goliatone/go-catsform/pkg/dispatch"
	"github.com/goliatone/go-catsform/pkg/model"
)

// State is the terminal stand-in for the page: it holds input values, the
// classes on each field, and the HTML of each message region, and applies
// dispatcher instructions to them in order.
type State struct {
	keys    []string
	values  map[string]string
	states  map[string]model.FieldState
	classes map[string]map[string]struct{}
	regions map[string]string
}

// NewState creates an empty state for the declared fields of form.
func NewState(form model.Form) *State {
	s := &State{
		keys:    form.Keys(),
		values:  make(map[string]string),
		states:  make(map[string]model.FieldState),
		classes: make(map[string]map[string]struct{}),
		regions: make(map[string]string),
	}
	for _, key := range s.keys {
		s.states[key] = model.FieldStatePristine
	}
	return s
}

// SetValue records the current input for key.
func (s *State) SetValue(key, value string) {
	s.values[key] = value
}

// Value returns the current input for key.
func (s *State) Value(key string) string {
	return s.values[key]
}

// Values returns the inputs in declaration order.
func (s *State) Values() []model.FieldValue {
	out := make([]model.FieldValue, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, model.FieldValue{Key: key, Value: s.values[key]})
	}
	return out
}

// Mark stores the latest outcome for its field.
func (s *State) Mark(outcome model.ValidationOutcome) {
	s.states[outcome.FieldKey] = outcome.State()
}

// FieldState reports the last evaluated state of key.
func (s *State) FieldState(key string) model.FieldState {
	if st, ok := s.states[key]; ok {
		return st
	}
	return model.FieldStatePristine
}

// HasClass reports whether selector currently carries className.
func (s *State) HasClass(selector, className string) bool {
	_, ok := s.classes[selector][className]
	return ok
}

// Region returns the HTML last written to selector.
func (s *State) Region(selector string) string {
	return s.regions[selector]
}

// Apply executes instructions in order and returns the selectors of regions
// that received non-empty content.
func (s *State) Apply(instructions []dispatch.Instruction) []string {
	var filled []string
	for _, in := range instructions {
		switch in.Command {
		case dispatch.CommandSetRegionHTML:
			s.regions[in.Selector] = in.HTML
			if strings.TrimSpace(in.HTML) != "" {
				filled = append(filled, in.Selector)
			}
		case dispatch.CommandAddClass:
			set, ok := s.classes[in.Selector]
			if !ok {
				set = make(map[string]struct{})
				s.classes[in.Selector] = set
			}
			set[in.Class] = struct{}{}
		case dispatch.CommandRemoveClass:
			delete(s.classes[in.Selector], in.Class)
		case dispatch.CommandSetInputValue:
			if in.Selector == model.TextInputsSelector {
				for _, key := range s.keys {
					s.values[key] = in.Value
				}
			}
		}
	}
	return filled
}
