// Package template defines the seam between page renderers and the template
// engine. The pongo2-backed implementation lives in the gotemplate
// subpackage; tests and alternative front-ends can supply their own.
package template
