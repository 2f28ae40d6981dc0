package catspage

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-catsform/pkg/dispatch"
	"github.com/goliatone/go-catsform/pkg/render"
	"github.com/goliatone/go-catsform/pkg/renderers/vanilla"
	"github.com/goliatone/go-catsform/pkg/validation"
)

// GuardFunc authorizes a request before it reaches any endpoint. Returning an
// HTTPError selects the response status; any other error yields 403.
type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath     string
	LocaleParam   string
	DefaultLocale string
	ThemeName     string
	ThemeVariant  string
	PageCacheSize int
	MaxBodyBytes  int64
	Guard         GuardFunc
	OnSubmit      dispatch.SubmitHook
	Logger        *slog.Logger

	Translator *render.CatalogTranslator
	Renderer   *vanilla.Renderer
	Validator  *validation.Validator
}

type OptionFn func(*Options)

const (
	defaultRoutePath    = "/cats"
	defaultLocaleParam  = "lang"
	defaultCacheSize    = 16
	defaultMaxBodyBytes = 64 << 10
)

func DefaultOptions() Options {
	return Options{
		RoutePath:     defaultRoutePath,
		LocaleParam:   defaultLocaleParam,
		DefaultLocale: render.DefaultLocale,
		PageCacheSize: defaultCacheSize,
		MaxBodyBytes:  defaultMaxBodyBytes,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if strings.TrimSpace(opts.RoutePath) == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.LocaleParam == "" {
		opts.LocaleParam = defaultLocaleParam
	}
	if strings.TrimSpace(opts.DefaultLocale) == "" {
		opts.DefaultLocale = render.DefaultLocale
	}
	if opts.PageCacheSize <= 0 {
		opts.PageCacheSize = defaultCacheSize
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithLocaleParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LocaleParam = name
	}
}

func WithDefaultLocale(locale string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLocale = locale
	}
}

func WithTheme(name, variant string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ThemeName = name
		o.ThemeVariant = variant
	}
}

func WithPageCacheSize(size int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PageCacheSize = size
	}
}

func WithMaxBodyBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = n
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithSubmitHook observes every accepted submission.
func WithSubmitHook(hook dispatch.SubmitHook) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OnSubmit = hook
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

func WithTranslator(t *render.CatalogTranslator) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Translator = t
	}
}

func WithRenderer(r *vanilla.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = r
	}
}

func WithValidator(v *validation.Validator) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Validator = v
	}
}
