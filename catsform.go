// Package catsform is the convenience surface over the cats form packages:
// declaring the form, building a dispatcher for a locale, rendering the page,
// and mounting the HTTP component.
package catsform

import (
	"context"
	"net/http"

	"github.com/goliatone/go-catsform/components/catspage"
	"github.com/goliatone/go-catsform/pkg/dispatch"
	"github.com/goliatone/go-catsform/pkg/form"
	"github.com/goliatone/go-catsform/pkg/model"
	"github.com/goliatone/go-catsform/pkg/openapi"
	"github.com/goliatone/go-catsform/pkg/render"
	"github.com/goliatone/go-catsform/pkg/renderers/vanilla"
)

// Declare returns the cats form from the embedded document.
func Declare() (model.Form, error) {
	return form.Declare()
}

// LoadForm reads the form declared by operationID in the OpenAPI document at
// path.
func LoadForm(ctx context.Context, path, operationID string) (model.Form, error) {
	doc, err := openapi.DocumentFromFile(path)
	if err != nil {
		return model.Form{}, err
	}
	return openapi.FormFromDocument(ctx, doc, operationID, openapi.ParserOptions{})
}

// Messages returns a resolver for the best bundled match of locale.
func Messages(locale string) render.Messages {
	translator := render.NewCatalogTranslator()
	return render.NewMessages(translator.Match(locale), translator)
}

// NewDispatcher builds a dispatcher for the embedded form speaking locale.
func NewDispatcher(locale string, messenger dispatch.Messenger) (*dispatch.Dispatcher, error) {
	declared, err := form.Declare()
	if err != nil {
		return nil, err
	}
	return dispatch.New(dispatch.Config{
		Form:      declared,
		Messenger: messenger,
		Messages:  Messages(locale),
	})
}

// GenerateHTML renders the full page for locale under basePath.
func GenerateHTML(ctx context.Context, locale, basePath string, options ...vanilla.Option) ([]byte, error) {
	declared, err := form.Declare()
	if err != nil {
		return nil, err
	}
	renderer, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, vanilla.Page{
		Form:     declared,
		Messages:    Messages(locale),
		BasePath:    basePath,
		LocaleParam: catspage.DefaultOptions().LocaleParam,
	})
}

// Handler serves the page and its endpoints. See catspage for options.
func Handler(fns ...catspage.OptionFn) http.Handler {
	return catspage.NewHandler(fns...)
}
