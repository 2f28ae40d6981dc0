// Package catspage serves the cats form over net/http: the rendered page,
// inline validation per field, submission, the OpenAPI document the form is
// declared in, and the page's static assets.
//
// Validation and submission endpoints accept form-encoded POST bodies and
// answer with a JSON instruction list the page runtime applies in order.
// Rendered pages are cached per locale and theme.
package catspage
