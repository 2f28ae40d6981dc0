package catsform

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-catsform/pkg/dispatch"
	"github.com/goliatone/go-catsform/pkg/model"
)

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/page.tpl"); err != nil {
		t.Fatalf("expected page template to be readable: %v", err)
	}
	data, err := fs.ReadFile(AssetsFS(), "cats.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".cats-form__item") {
		t.Fatalf("expected stylesheet to style form items")
	}
}

func TestNewDispatcher_Localized(t *testing.T) {
	flash := &dispatch.FlashMessenger{}
	d, err := NewDispatcher("uk-UA", flash)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	d.OnSubmit([]model.FieldValue{{Key: "cat_name", Value: "Tom"}, {Key: "cat_email", Value: "a@b.co"}})
	msgs := flash.Drain()
	if len(msgs) != 1 || msgs[0].Text != "Вашого кота успішно додано." {
		t.Fatalf("unexpected flash messages: %#v", msgs)
	}
}

func TestGenerateHTML(t *testing.T) {
	page, err := GenerateHTML(context.Background(), "en", "/pets/cats")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(page), `action="/pets/cats/submit"`) {
		t.Fatalf("expected submit endpoint under base path")
	}
	if !strings.Contains(string(page), `<input type="hidden" name="lang" value="en">`) {
		t.Fatalf("expected locale field for the handler's default parameter")
	}
}

func TestLoadForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.yaml")
	doc := `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /dogs:
    post:
      operationId: addDog
      requestBody:
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              required: [dog_name]
              properties:
                dog_name: {type: string, maxLength: 10}
      responses:
        '200': {description: ok}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := LoadForm(context.Background(), path, "addDog")
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	if len(f.Fields) != 1 || f.Fields[0].Key != "dog_name" || f.Fields[0].MaxLength != 10 {
		t.Fatalf("unexpected form: %#v", f)
	}
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
