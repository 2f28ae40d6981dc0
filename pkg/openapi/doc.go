// Package openapi loads the OpenAPI document that declares the cats form and
// converts the request body of a named operation into a model.Form. The
// default document is embedded (spec/cats.yaml) and is also served verbatim
// so clients can discover the validation endpoints.
package openapi
