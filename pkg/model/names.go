package model

import "strings"

const (
	// SuccessRegionSelector addresses the shared status region.
	SuccessRegionSelector = ".cats-form__messages"
	// TextInputsSelector matches every user-editable input on the form.
	TextInputsSelector = `input[type="text"], input[type="email"]`

	fieldSelectorPrefix   = ".cats-form__"
	fieldSelectorSuffix   = "-field"
	messageSelectorPrefix = ".validation-message__"
)

// ShortName strips everything up to and including the first underscore.
// Keys without an underscore are returned unchanged.
func ShortName(key string) string {
	if _, rest, ok := strings.Cut(key, "_"); ok {
		return rest
	}
	return key
}

// FieldClass returns the class attached to the field's input element.
func FieldClass(key string) string {
	return strings.TrimPrefix(FieldSelector(key), ".")
}

// FieldSelector returns the selector addressing the field's input element.
func FieldSelector(key string) string {
	return fieldSelectorPrefix + ShortName(key) + fieldSelectorSuffix
}

// MessageClass returns the class of the field's message region.
func MessageClass(key string) string {
	return strings.TrimPrefix(MessageSelector(key), ".")
}

// MessageSelector returns the selector addressing the field's message region.
func MessageSelector(key string) string {
	return messageSelectorPrefix + key
}
