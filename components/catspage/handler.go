package catspage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-catsform/pkg/dispatch"
	"github.com/goliatone/go-catsform/pkg/form"
	"github.com/goliatone/go-catsform/pkg/model"
	"github.com/goliatone/go-catsform/pkg/openapi"
	"github.com/goliatone/go-catsform/pkg/render"
	"github.com/goliatone/go-catsform/pkg/renderers/vanilla"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

const (
	routeSubmit   = "/submit"
	routeValidate = "/validate/"
	routeSpec     = "/openapi.yaml"
	routeSchema   = "/instructions.schema.json"
	routeAssets   = "/assets/"
)

// Handler builds a net/http handler with default options plus any overrides.
// It is an alias of NewHandler to match the recommended component API surface.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options value.
// When the form or its collaborators cannot be built, every request gets 500.
func HandlerWithOptions(opts Options) http.Handler {
	s, err := newServer(opts)
	if err != nil {
		logger := opts.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("cats page unavailable", "error", err)
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		})
	}
	return s
}

type server struct {
	opts       Options
	base       string
	form       model.Form
	dispatcher *dispatch.Dispatcher
	renderer   *vanilla.Renderer
	translator *render.CatalogTranslator
	spec       []byte
	schema     []byte
	assets     http.Handler
	pages      *lru.Cache[string, []byte]
	group      singleflight.Group
	logger     *slog.Logger
}

func newServer(opts Options) (*server, error) {
	opts = NewOptions(func(o *Options) { *o = opts })

	declared, err := form.Declare()
	if err != nil {
		return nil, fmt.Errorf("catspage: declare form: %w", err)
	}
	doc, err := openapi.DefaultDocument()
	if err != nil {
		return nil, fmt.Errorf("catspage: load document: %w", err)
	}

	translator := opts.Translator
	if translator == nil {
		translator = render.NewCatalogTranslator()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer, err = vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("catspage: %w", err)
		}
	}
	d, err := dispatch.New(dispatch.Config{
		Form:      declared,
		Validator: opts.Validator,
		Messages:  render.NewMessages(opts.DefaultLocale, translator),
		OnSubmit:  opts.OnSubmit,
	})
	if err != nil {
		return nil, fmt.Errorf("catspage: %w", err)
	}
	schema, err := json.MarshalIndent(dispatch.ResponseSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("catspage: instruction schema: %w", err)
	}
	pages, err := lru.New[string, []byte](opts.PageCacheSize)
	if err != nil {
		return nil, fmt.Errorf("catspage: page cache: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := normalizeBase(opts.RoutePath)
	return &server{
		opts:       opts,
		base:       base,
		form:       declared,
		dispatcher: d,
		renderer:   renderer,
		translator: translator,
		spec:       doc.Raw(),
		schema:     schema,
		assets:     http.StripPrefix(strings.TrimRight(base, "/")+"/assets", http.FileServer(http.FS(vanilla.AssetsFS()))),
		pages:      pages,
		logger:     logger.With("component", "catspage"),
	}, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	}()

	rel, ok := s.relative(r.URL.Path)
	if !ok {
		http.NotFound(rec, r)
		return
	}

	if s.opts.Guard != nil {
		if err := s.opts.Guard(r); err != nil {
			writeGuardError(rec, err)
			return
		}
	}

	switch {
	case rel == "/":
		if !allowMethods(rec, r, http.MethodGet, http.MethodHead) {
			return
		}
		s.servePage(rec, r)
	case rel == routeSubmit:
		if !allowMethods(rec, r, http.MethodPost) {
			return
		}
		s.serveSubmit(rec, r)
	case strings.HasPrefix(rel, routeValidate):
		if !allowMethods(rec, r, http.MethodPost) {
			return
		}
		s.serveValidate(rec, r, strings.TrimPrefix(rel, routeValidate))
	case rel == routeSpec:
		if !allowMethods(rec, r, http.MethodGet, http.MethodHead) {
			return
		}
		s.serveStatic(rec, r, "application/yaml; charset=utf-8", s.spec)
	case rel == routeSchema:
		if !allowMethods(rec, r, http.MethodGet, http.MethodHead) {
			return
		}
		s.serveStatic(rec, r, "application/schema+json", s.schema)
	case strings.HasPrefix(rel, routeAssets):
		if !allowMethods(rec, r, http.MethodGet, http.MethodHead) {
			return
		}
		s.assets.ServeHTTP(rec, r)
	default:
		http.NotFound(rec, r)
	}
}

func (s *server) servePage(w http.ResponseWriter, r *http.Request) {
	locale := s.locale(r)
	page, err := s.page(r.Context(), locale)
	if err != nil {
		s.logger.Error("render page", "locale", locale, "error", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Content-Language", locale)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(page)
}

// page returns the rendered page for locale, rendering at most once per key
// while it stays in the cache.
func (s *server) page(ctx context.Context, locale string) ([]byte, error) {
	key := strings.Join([]string{locale, s.opts.ThemeName, s.opts.ThemeVariant}, "|")
	if cached, ok := s.pages.Get(key); ok {
		return cached, nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		if cached, ok := s.pages.Get(key); ok {
			return cached, nil
		}
		out, err := s.renderer.Render(context.WithoutCancel(ctx), vanilla.Page{
			Form:         s.form,
			Messages:     render.NewMessages(locale, s.translator),
			BasePath:     s.base,
			ThemeName:    s.opts.ThemeName,
			ThemeVariant: s.opts.ThemeVariant,
			LocaleParam:  s.opts.LocaleParam,
		})
		if err != nil {
			return nil, err
		}
		s.pages.Add(key, out)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *server) serveValidate(w http.ResponseWriter, r *http.Request, key string) {
	if !s.form.Has(key) {
		http.NotFound(w, r)
		return
	}
	if err := s.parseForm(w, r); err != nil {
		writeError(w, err)
		return
	}

	locale := s.locale(r)
	d := s.dispatcher.WithLocale(render.NewMessages(locale, s.translator))
	value := r.PostForm.Get(key)
	commands := d.OnFieldChanged(key, value)

	s.logger.Debug("field validated",
		"field", key,
		"locale", locale,
		"state", d.ValidateField(key, value).State().String(),
	)
	writeJSON(w, dispatch.Response{Commands: commands})
}

func (s *server) serveSubmit(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		writeError(w, err)
		return
	}

	raw := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		raw[key] = r.PostForm.Get(key)
	}
	values := s.form.Values(raw)

	locale := s.locale(r)
	flash := &dispatch.FlashMessenger{}
	commands := s.dispatcher.
		WithLocale(render.NewMessages(locale, s.translator)).
		WithMessenger(flash).
		OnSubmit(values)

	messages := flash.Drain()
	for _, msg := range messages {
		s.logger.Info("flash message", "type", string(msg.Type), "text", msg.Text)
	}
	s.logger.Debug("form submitted", "locale", locale, "accepted", len(messages) > 0)
	writeJSON(w, dispatch.Response{Commands: commands})
}

func (s *server) serveStatic(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func (s *server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("catspage: parse form: %w", err)}
	}
	return nil
}

// locale resolves the locale field posted by the page first, then the query
// parameter, then Accept-Language, then the configured default.
func (s *server) locale(r *http.Request) string {
	requested := strings.TrimSpace(r.PostForm.Get(s.opts.LocaleParam))
	if requested == "" {
		requested = strings.TrimSpace(r.URL.Query().Get(s.opts.LocaleParam))
	}
	if requested != "" {
		return s.translator.Match(requested)
	}
	if header := strings.TrimSpace(r.Header.Get("Accept-Language")); header != "" {
		return s.translator.Match(header)
	}
	return s.translator.Match(s.opts.DefaultLocale)
}

func (s *server) relative(p string) (string, bool) {
	if s.base == "/" {
		return p, strings.HasPrefix(p, "/")
	}
	if p == s.base {
		return "/", true
	}
	if !strings.HasPrefix(p, s.base+"/") {
		return "", false
	}
	return strings.TrimPrefix(p, s.base), true
}

func normalizeBase(routePath string) string {
	routePath = "/" + strings.Trim(strings.TrimSpace(routePath), "/")
	return routePath
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
