// Package render holds the user-facing text of the cats form and the HTML
// fragments the dispatcher writes into message regions.
//
// Every string is addressed by a message key with an English default. A
// Translator may override any key per locale; missing translations fall back
// to the English default through a MissingTranslationHandler. Fragments are
// passed through a bluemonday policy that only admits the markup the page
// styles expect (div blocks with classes and line breaks).
package render
