package catspage

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-catsform/pkg/dispatch"
	"github.com/goliatone/go-catsform/pkg/form"
	"github.com/goliatone/go-catsform/pkg/model"
	"github.com/goliatone/go-catsform/pkg/render"
	"github.com/goliatone/go-catsform/pkg/renderers/vanilla"
	"github.com/goliatone/go-catsform/pkg/validation"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(fns ...OptionFn) http.Handler {
	return NewHandler(append([]OptionFn{WithLogger(quietLogger())}, fns...)...)
}

func postForm(h http.Handler, target string, values url.Values, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, vals := range header {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeCommands(t *testing.T, rec *httptest.ResponseRecorder) []dispatch.Instruction {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	var payload dispatch.Response
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload.Commands
}

func TestHandler_Page(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/cats", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content-type, got %q", ct)
	}
	if lang := rec.Header().Get("Content-Language"); lang != "en" {
		t.Fatalf("expected en, got %q", lang)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Hello! You can add here a photo of your cat.",
		`class="cats-form__messages"`,
		`action="/cats/submit"`,
		`href="/cats/assets/cats.css"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
}

func TestHandler_PageLocale(t *testing.T) {
	h := newTestHandler()

	byParam := httptest.NewRecorder()
	h.ServeHTTP(byParam, httptest.NewRequest(http.MethodGet, "/cats?lang=uk", nil))
	if !strings.Contains(byParam.Body.String(), "Додати кота") {
		t.Fatalf("expected ukrainian page for lang=uk")
	}

	req := httptest.NewRequest(http.MethodGet, "/cats/", nil)
	req.Header.Set("Accept-Language", "uk-UA,uk;q=0.9,en;q=0.5")
	byHeader := httptest.NewRecorder()
	h.ServeHTTP(byHeader, req)
	if got := byHeader.Header().Get("Content-Language"); got != "uk" {
		t.Fatalf("expected uk from Accept-Language, got %q", got)
	}

	fallback := httptest.NewRecorder()
	h.ServeHTTP(fallback, httptest.NewRequest(http.MethodGet, "/cats?lang=fr", nil))
	if got := fallback.Header().Get("Content-Language"); got != "en" {
		t.Fatalf("expected en fallback, got %q", got)
	}
}

var (
	actionAttr   = regexp.MustCompile(`action="([^"]+)"`)
	validateAttr = regexp.MustCompile(`data-validate-url="([^"]+)"`)
	hiddenInput  = regexp.MustCompile(`<input type="hidden" name="([^"]+)" value="([^"]*)">`)
)

func submatch(t *testing.T, re *regexp.Regexp, body string) []string {
	t.Helper()
	m := re.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("page has no match for %s", re)
	}
	return m
}

func TestHandler_PageLocaleCarriesToFeedback(t *testing.T) {
	h := newTestHandler()
	english := http.Header{"Accept-Language": {"en"}}

	req := httptest.NewRequest(http.MethodGet, "/cats?lang=uk", nil)
	req.Header.Set("Accept-Language", "en")
	page := httptest.NewRecorder()
	h.ServeHTTP(page, req)
	if got := page.Header().Get("Content-Language"); got != "uk" {
		t.Fatalf("expected uk page, got %q", got)
	}
	body := page.Body.String()
	action := submatch(t, actionAttr, body)[1]
	validateURL := submatch(t, validateAttr, body)[1]
	hidden := submatch(t, hiddenInput, body)
	if hidden[1] != "lang" || hidden[2] != "uk" {
		t.Fatalf("unexpected locale field: %v", hidden[1:])
	}

	rec := postForm(h, validateURL+"/cat_name", url.Values{
		"cat_name": {"a"},
		hidden[1]:  {hidden[2]},
	}, english)
	got := decodeCommands(t, rec)
	if len(got) != 3 || !strings.Contains(got[1].HTML, "Ім&#39;я кота має містити щонайменше 2 символи.") {
		t.Fatalf("expected ukrainian warning, got %#v", got)
	}

	rec = postForm(h, action, url.Values{
		"cat_name":  {"Tom"},
		"cat_email": {"owner@example.com"},
		hidden[1]:   {hidden[2]},
	}, english)
	got = decodeCommands(t, rec)
	if len(got) != 2 || !strings.Contains(got[1].HTML, "Вашого кота успішно додано.") {
		t.Fatalf("expected ukrainian status, got %#v", got)
	}
}

func TestHandler_CustomLocaleParam(t *testing.T) {
	h := newTestHandler(WithLocaleParam("locale"))

	page := httptest.NewRecorder()
	h.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/cats?locale=uk", nil))
	if got := page.Header().Get("Content-Language"); got != "uk" {
		t.Fatalf("expected uk page, got %q", got)
	}
	if !strings.Contains(page.Body.String(), `<input type="hidden" name="locale" value="uk">`) {
		t.Fatalf("expected locale field named after the parameter")
	}

	ignored := httptest.NewRecorder()
	h.ServeHTTP(ignored, httptest.NewRequest(http.MethodGet, "/cats?lang=uk", nil))
	if got := ignored.Header().Get("Content-Language"); got != "en" {
		t.Fatalf("expected default parameter to be ignored, got %q", got)
	}

	rec := postForm(h, "/cats/validate/cat_email", url.Values{"cat_email": {""}, "locale": {"uk"}}, nil)
	got := decodeCommands(t, rec)
	if len(got) != 3 || !strings.Contains(got[1].HTML, "Електронна пошта є обов&#39;язковою.") {
		t.Fatalf("expected ukrainian warning, got %#v", got)
	}
}

func TestHandler_CustomTranslator(t *testing.T) {
	translator := render.NewCatalogTranslator()
	if err := translator.Set("es", render.KeySubmitSuccess, "Gato añadido."); err != nil {
		t.Fatalf("set: %v", err)
	}
	h := newTestHandler(WithTranslator(translator))

	rec := postForm(h, "/cats/submit?lang=es", url.Values{
		"cat_name":  {"Tom"},
		"cat_email": {"owner@example.com"},
	}, nil)
	got := decodeCommands(t, rec)
	want := dispatch.SetRegionHTML(model.SuccessRegionSelector, render.Block(render.BlockStatus, []string{"Gato añadido."}))
	if len(got) != 2 {
		t.Fatalf("expected two commands, got %#v", got)
	}
	if diff := cmp.Diff(want, got[1]); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_CustomValidator(t *testing.T) {
	catsOnly := validation.EmailValidatorFunc(func(email string) bool {
		return strings.HasSuffix(email, "@cats.test")
	})
	h := newTestHandler(WithValidator(validation.New(validation.WithEmailValidator(catsOnly))))

	rejected := decodeCommands(t, postForm(h, "/cats/validate/cat_email", url.Values{"cat_email": {"owner@example.com"}}, nil))
	if len(rejected) != 3 || rejected[2] != dispatch.AddClass(model.FieldSelector(form.EmailKey), "warning") {
		t.Fatalf("expected custom validator to reject, got %#v", rejected)
	}

	accepted := decodeCommands(t, postForm(h, "/cats/validate/cat_email", url.Values{"cat_email": {"tom@cats.test"}}, nil))
	if len(accepted) != 3 || accepted[2] != dispatch.RemoveClass(model.FieldSelector(form.EmailKey), "warning") {
		t.Fatalf("expected custom validator to accept, got %#v", accepted)
	}
}

func TestHandler_PageHead(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/cats", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 200 for HEAD, got %d with %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestHandler_ValidateField(t *testing.T) {
	h := newTestHandler()
	msgs := render.NewMessages("en", nil)

	rec := postForm(h, "/cats/validate/cat_name", url.Values{"cat_name": {""}}, nil)
	got := decodeCommands(t, rec)

	field := model.FieldSelector(form.NameKey)
	want := []dispatch.Instruction{
		dispatch.RemoveClass(field, dispatch.ClassError),
		dispatch.SetRegionHTML(model.MessageSelector(form.NameKey), render.Block(render.BlockWarning, []string{
			msgs.Text(render.KeyNameRequired),
			msgs.Text(render.KeyNameTooShort, 2),
		})),
		dispatch.AddClass(field, dispatch.ClassWarning),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}

	rec = postForm(h, "/cats/validate/cat_email", url.Values{"cat_email": {"owner@example.com"}}, nil)
	got = decodeCommands(t, rec)
	emailField := model.FieldSelector(form.EmailKey)
	want = []dispatch.Instruction{
		dispatch.RemoveClass(emailField, dispatch.ClassError),
		dispatch.SetRegionHTML(model.MessageSelector(form.EmailKey), ""),
		dispatch.RemoveClass(emailField, dispatch.ClassWarning),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_ValidateLocalized(t *testing.T) {
	h := newTestHandler()
	rec := postForm(h, "/cats/validate/cat_email?lang=uk", url.Values{"cat_email": {""}}, nil)
	got := decodeCommands(t, rec)
	if len(got) != 3 || !strings.Contains(got[1].HTML, "Електронна пошта є обов&#39;язковою.") {
		t.Fatalf("expected ukrainian warning, got %#v", got)
	}
}

func TestHandler_ValidateUnknownField(t *testing.T) {
	h := newTestHandler()
	rec := postForm(h, "/cats/validate/cat_age", url.Values{"cat_age": {"3"}}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	cases := []struct {
		method string
		target string
		allow  string
	}{
		{http.MethodGet, "/cats/validate/cat_name", http.MethodPost},
		{http.MethodGet, "/cats/submit", http.MethodPost},
		{http.MethodPost, "/cats", "GET, HEAD"},
		{http.MethodDelete, "/cats/openapi.yaml", "GET, HEAD"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tc.method, tc.target, rec.Code)
		}
		if got := rec.Header().Get("Allow"); got != tc.allow {
			t.Fatalf("%s %s: expected Allow %q, got %q", tc.method, tc.target, tc.allow, got)
		}
	}
}

func TestHandler_SubmitValid(t *testing.T) {
	var (
		mu        sync.Mutex
		submitted []model.FieldValue
	)
	h := newTestHandler(WithSubmitHook(func(values []model.FieldValue) {
		mu.Lock()
		defer mu.Unlock()
		submitted = values
	}))

	rec := postForm(h, "/cats/submit", url.Values{
		"cat_name":  {"Tom"},
		"cat_email": {"owner@example.com"},
		"extra":     {"ignored"},
	}, nil)
	got := decodeCommands(t, rec)

	want := []dispatch.Instruction{
		dispatch.SetInputValue(model.TextInputsSelector, ""),
		dispatch.SetRegionHTML(model.SuccessRegionSelector, render.Block(render.BlockStatus, []string{
			"Your cat has been successfully added.",
		})),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}

	mu.Lock()
	defer mu.Unlock()
	wantValues := []model.FieldValue{
		{Key: form.NameKey, Value: "Tom"},
		{Key: form.EmailKey, Value: "owner@example.com"},
	}
	if diff := cmp.Diff(wantValues, submitted); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_SubmitInvalid(t *testing.T) {
	var calls atomic.Int32
	h := newTestHandler(WithSubmitHook(func([]model.FieldValue) { calls.Add(1) }))

	rec := postForm(h, "/cats/submit", url.Values{
		"cat_name":  {"Tom"},
		"cat_email": {"not-an-email"},
	}, nil)
	got := decodeCommands(t, rec)

	emailField := model.FieldSelector(form.EmailKey)
	want := []dispatch.Instruction{
		dispatch.SetRegionHTML(model.MessageSelector(form.EmailKey), render.Block(render.BlockError, []string{
			"The email is not valid. Example of the correct email: example@example.com",
		})),
		dispatch.RemoveClass(emailField, dispatch.ClassWarning),
		dispatch.AddClass(emailField, dispatch.ClassError),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
	if calls.Load() != 0 {
		t.Fatalf("submission effect must not run for invalid input")
	}
}

func TestHandler_SubmitBodyTooLarge(t *testing.T) {
	h := newTestHandler(WithMaxBodyBytes(16))
	rec := postForm(h, "/cats/submit", url.Values{"cat_name": {strings.Repeat("x", 64)}}, nil)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestHandler_DocumentsAndAssets(t *testing.T) {
	h := newTestHandler()

	spec := httptest.NewRecorder()
	h.ServeHTTP(spec, httptest.NewRequest(http.MethodGet, "/cats/openapi.yaml", nil))
	if spec.Code != http.StatusOK || !strings.Contains(spec.Body.String(), "addCat") {
		t.Fatalf("expected openapi document, got %d", spec.Code)
	}

	schema := httptest.NewRecorder()
	h.ServeHTTP(schema, httptest.NewRequest(http.MethodGet, "/cats/instructions.schema.json", nil))
	if schema.Code != http.StatusOK || !strings.Contains(schema.Body.String(), `"InstructionList"`) {
		t.Fatalf("expected instruction schema, got %d", schema.Code)
	}

	css := httptest.NewRecorder()
	h.ServeHTTP(css, httptest.NewRequest(http.MethodGet, "/cats/assets/cats.css", nil))
	if css.Code != http.StatusOK || !strings.Contains(css.Body.String(), ".cats-form__item") {
		t.Fatalf("expected stylesheet, got %d", css.Code)
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := newTestHandler()
	for _, target := range []string{"/dogs", "/catsx", "/cats/unknown"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, rec.Code)
		}
	}
}

func TestHandler_Guard(t *testing.T) {
	h := newTestHandler(WithGuard(func(r *http.Request) error {
		if r.Header.Get("X-Token") == "ok" {
			return nil
		}
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("missing token")}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = postForm(h, "/cats/validate/cat_name", url.Values{"cat_name": {"Tom"}}, http.Header{"X-Token": {"ok"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	plain := newTestHandler(WithGuard(func(*http.Request) error { return errors.New("nope") }))
	rec = httptest.NewRecorder()
	plain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cats", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

type countingTemplates struct {
	renders atomic.Int32
}

func (c *countingTemplates) RenderTemplate(_ string, data any, _ ...io.Writer) (string, error) {
	c.renders.Add(1)
	m, _ := data.(map[string]any)
	return "page:" + m["locale"].(string), nil
}

func (c *countingTemplates) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (c *countingTemplates) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (c *countingTemplates) GlobalContext(any) error {
	return nil
}

func TestHandler_PageCache(t *testing.T) {
	templates := &countingTemplates{}
	renderer, err := vanilla.New(vanilla.WithTemplateRenderer(templates))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	h := newTestHandler(WithRenderer(renderer), WithPageCacheSize(1))

	get := func(target string) string {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec.Body.String()
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			get("/cats")
		}()
	}
	wg.Wait()
	if got := get("/cats"); got != "page:en" {
		t.Fatalf("unexpected page body %q", got)
	}
	if n := templates.renders.Load(); n != 1 {
		t.Fatalf("expected one render for a cached locale, got %d", n)
	}

	if got := get("/cats?lang=uk"); got != "page:uk" {
		t.Fatalf("unexpected page body %q", got)
	}
	// Cache holds one page, so English is rendered again.
	get("/cats")
	if n := templates.renders.Load(); n != 3 {
		t.Fatalf("expected eviction to force a re-render, got %d renders", n)
	}
}
