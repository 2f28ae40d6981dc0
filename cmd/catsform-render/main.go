package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	catsform "github.com/goliatone/go-catsform"
	"github.com/goliatone/go-catsform/pkg/form"
	"github.com/goliatone/go-catsform/pkg/model"
	"github.com/goliatone/go-catsform/pkg/openapi"
	"github.com/goliatone/go-catsform/pkg/render"
	"github.com/goliatone/go-catsform/pkg/renderers/vanilla"
)

func main() {
	source := flag.String("source", "", "OpenAPI document path (embedded document if empty)")
	opID := flag.String("operation", form.OperationID, "operation ID declaring the form")
	locale := flag.String("locale", render.DefaultLocale, "page locale")
	variant := flag.String("variant", "", "theme variant")
	basePath := flag.String("base", "/cats", "path the page is served under")
	localeParam := flag.String("locale-param", "lang", "form field carrying the page locale to the endpoints")
	templates := flag.String("templates", "", "template directory overriding the embedded templates")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	declared, err := loadForm(ctx, *source, *opID)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	renderer, err := vanilla.New(vanilla.WithTemplatesDir(*templates))
	if err != nil {
		log.Fatalf("Failed to build renderer: %v", err)
	}

	translator := render.NewCatalogTranslator()
	page, err := renderer.Render(ctx, vanilla.Page{
		Form:         declared,
		Messages:     render.NewMessages(translator.Match(*locale), translator),
		BasePath:     *basePath,
		ThemeVariant: *variant,
		LocaleParam:  *localeParam,
	})
	if err != nil {
		log.Fatalf("Failed to render page: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, page, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Page written to %s\n", *output)
		return
	}
	fmt.Println(string(page))
}

func loadForm(ctx context.Context, source, operationID string) (model.Form, error) {
	if source != "" {
		return catsform.LoadForm(ctx, source, operationID)
	}
	if operationID == form.OperationID {
		return catsform.Declare()
	}
	doc, err := openapi.DefaultDocument()
	if err != nil {
		return model.Form{}, err
	}
	return openapi.FormFromDocument(ctx, doc, operationID, openapi.ParserOptions{})
}
