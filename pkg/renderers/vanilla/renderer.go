// Package vanilla renders the cats page as plain HTML with a small inline
// runtime that posts field changes and submissions and applies the returned
// instruction lists. No client-side framework is involved.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-catsform/pkg/form"
	"github.com/goliatone/go-catsform/pkg/model"
	"github.com/goliatone/go-catsform/pkg/render"
	rendertemplate "github.com/goliatone/go-catsform/pkg/render/template"
	"github.com/goliatone/go-catsform/pkg/render/template/gotemplate"
)

const pageTemplate = "templates/page"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	selector         theme.ThemeSelector
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/page.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		if dir == "" {
			return
		}
		cfg.templateFS = os.DirFS(dir)
	}
}

// WithTemplateRenderer injects a custom template renderer.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector overrides the bundled theme selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		if selector != nil {
			cfg.selector = selector
		}
	}
}

// Renderer renders the cats page.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	selector  theme.ThemeSelector
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	selector := cfg.selector
	if selector == nil {
		s, err := NewThemeSelector("", DefaultManifest())
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure theme: %w", err)
		}
		selector = s
	}
	return &Renderer{templates: renderer, selector: selector}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Page describes one page render.
type Page struct {
	Form         model.Form
	Messages     render.Messages
	BasePath     string
	ThemeName    string
	ThemeVariant string
	// LocaleParam names a hidden form field carrying the page locale, so
	// feedback requests are answered in the language the page was rendered in.
	LocaleParam string
}

// Render produces the full HTML document for page.
func (r *Renderer) Render(ctx context.Context, page Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	selection, err := r.selector.Select(page.ThemeName, page.ThemeVariant)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: select theme: %w", err)
	}
	if selection == nil {
		return nil, fmt.Errorf("vanilla renderer: theme selector returned no selection")
	}
	if strings.TrimSpace(page.Messages.Locale) == "" {
		page.Messages = render.NewMessages(render.DefaultLocale, page.Messages.Translator)
	}

	result, err := r.templates.RenderTemplate(pageTemplate, pageData(page, selection))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func pageData(page Page, selection *theme.Selection) map[string]any {
	localized := render.LocalizeForm(page.Form, page.Messages)
	events := make(map[string]string)
	for _, trigger := range form.Triggers(page.Form) {
		events[trigger.Control] = trigger.Event
	}

	fields := make([]map[string]any, 0, len(localized.Fields))
	for _, field := range localized.Fields {
		fields = append(fields, map[string]any{
			"key":           field.Key,
			"short_name":    field.ShortName(),
			"label":         field.Label,
			"description":   field.Description,
			"placeholder":   field.Placeholder,
			"input_type":    field.InputType(),
			"required":      field.Required,
			"max_length":    field.MaxLength,
			"class":         model.FieldClass(field.Key),
			"message_class": model.MessageClass(field.Key),
			"event":         events[field.Key],
		})
	}

	base := "/" + strings.Trim(page.BasePath, "/")
	return map[string]any{
		"locale":       page.Messages.Locale,
		"locale_param": page.LocaleParam,
		"title":        page.Messages.Text(render.KeyPageTitle),
		"intro":        page.Messages.TextOr(render.KeyPageIntro, introFallback(page.Form)),
		"form": map[string]any{
			"id": page.Form.ID,
		},
		"fields": fields,
		"submit": map[string]any{
			"key":   form.SubmitKey,
			"label": localized.SubmitLabel,
			"event": events[form.SubmitKey],
		},
		"endpoints": map[string]any{
			"submit":   path.Join(base, "submit"),
			"validate": path.Join(base, "validate"),
		},
		"theme": map[string]any{
			"name":    selection.Theme,
			"variant": selection.Variant,
		},
		"stylesheet": stylesheetURL(selection, page.BasePath),
		"css_vars":   cssVars(selection),
	}
}

func introFallback(f model.Form) string {
	if strings.TrimSpace(f.Description) != "" {
		return f.Description
	}
	msg, _ := render.DefaultMessage(render.KeyPageIntro)
	return msg
}
