package dispatch

import (
	"encoding/json"
	"fmt"
)

// Command names the instruction variant on the wire.
type Command string

const (
	CommandSetRegionHTML Command = "html"
	CommandAddClass      Command = "addClass"
	CommandRemoveClass   Command = "removeClass"
	CommandSetInputValue Command = "val"
)

// Instruction is one UI update. Exactly one payload field is meaningful per
// command: HTML for html, Class for addClass/removeClass, Value for val.
type Instruction struct {
	Command  Command `json:"command"`
	Selector string  `json:"selector"`
	HTML     string  `json:"-"`
	Class    string  `json:"-"`
	Value    string  `json:"-"`
}

// SetRegionHTML replaces the content of the region matched by selector.
func SetRegionHTML(selector, html string) Instruction {
	return Instruction{Command: CommandSetRegionHTML, Selector: selector, HTML: html}
}

// AddClass adds className to the elements matched by selector.
func AddClass(selector, className string) Instruction {
	return Instruction{Command: CommandAddClass, Selector: selector, Class: className}
}

// RemoveClass removes className from the elements matched by selector.
func RemoveClass(selector, className string) Instruction {
	return Instruction{Command: CommandRemoveClass, Selector: selector, Class: className}
}

// SetInputValue sets the value of the inputs matched by selector.
func SetInputValue(selector, value string) Instruction {
	return Instruction{Command: CommandSetInputValue, Selector: selector, Value: value}
}

type wireInstruction struct {
	Command  Command `json:"command"`
	Selector string  `json:"selector"`
	HTML     *string `json:"html,omitempty"`
	Class    *string `json:"class,omitempty"`
	Value    *string `json:"value,omitempty"`
}

// MarshalJSON emits only the payload field that belongs to the command.
func (i Instruction) MarshalJSON() ([]byte, error) {
	wire := wireInstruction{Command: i.Command, Selector: i.Selector}
	switch i.Command {
	case CommandSetRegionHTML:
		wire.HTML = &i.HTML
	case CommandAddClass, CommandRemoveClass:
		wire.Class = &i.Class
	case CommandSetInputValue:
		wire.Value = &i.Value
	default:
		return nil, fmt.Errorf("dispatch: unknown command %q", i.Command)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON accepts the wire form produced by MarshalJSON.
func (i *Instruction) UnmarshalJSON(data []byte) error {
	var wire wireInstruction
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*i = Instruction{Command: wire.Command, Selector: wire.Selector}
	switch wire.Command {
	case CommandSetRegionHTML:
		i.HTML = deref(wire.HTML)
	case CommandAddClass, CommandRemoveClass:
		i.Class = deref(wire.Class)
	case CommandSetInputValue:
		i.Value = deref(wire.Value)
	default:
		return fmt.Errorf("dispatch: unknown command %q", wire.Command)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Response is the JSON envelope returned to the page.
type Response struct {
	Commands []Instruction `json:"commands"`
}
