// Package model defines the typed form description shared by the form
// declaration, the validators, and the dispatcher. Fields are immutable once
// declared; values and validation outcomes are transient and live only for
// the duration of a single interaction (a field change or a submission).
//
// Field keys double as DOM identifiers: the message region for a field is
// addressed by its full key while the input itself is addressed by the short
// name, i.e. the key with its leading segment (up to and including the first
// underscore) removed. See ShortName.
package model
