// Package validation implements the field rules of the cats form. Rules turn
// a value into zero or more user-facing messages; they never return errors
// for invalid input. Length limits count Unicode code points so multi-byte
// text is measured the way users perceive it.
package validation
