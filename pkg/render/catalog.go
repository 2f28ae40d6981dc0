package render

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// CatalogTranslator is a Translator backed by an x/text message catalog.
// English is always the first supported locale and the match fallback.
type CatalogTranslator struct {
	mu        sync.RWMutex
	builder   *catalog.Builder
	known     map[language.Tag]map[string]struct{}
	supported []language.Tag
	matcher   language.Matcher
}

// NewCatalogTranslator returns a catalog seeded with the English defaults
// and the bundled Ukrainian translations.
func NewCatalogTranslator() *CatalogTranslator {
	c := &CatalogTranslator{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		known:   make(map[language.Tag]map[string]struct{}),
	}
	for key, msg := range defaultMessages {
		_ = c.set(language.English, key, msg)
	}
	for key, msg := range ukrainianMessages {
		_ = c.set(language.Ukrainian, key, msg)
	}
	return c
}

// Set registers msg for key under locale. msg may contain fmt verbs.
func (c *CatalogTranslator) Set(locale, key, msg string) error {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return fmt.Errorf("render: parse locale %q: %w", locale, err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("render: message key is required")
	}
	return c.set(tag, key, msg)
}

func (c *CatalogTranslator) set(tag language.Tag, key, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.builder.SetString(tag, key, msg); err != nil {
		return fmt.Errorf("render: set %s/%s: %w", tag, key, err)
	}
	keys, ok := c.known[tag]
	if !ok {
		keys = make(map[string]struct{})
		c.known[tag] = keys
		c.addSupported(tag)
	}
	keys[key] = struct{}{}
	return nil
}

func (c *CatalogTranslator) addSupported(tag language.Tag) {
	if tag == language.English {
		c.supported = append([]language.Tag{tag}, c.supported...)
	} else {
		c.supported = append(c.supported, tag)
	}
	c.matcher = language.NewMatcher(c.supported)
}

// Translate implements Translator.
func (c *CatalogTranslator) Translate(locale, key string, args ...any) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tag := c.matchLocked(locale)
	if _, ok := c.known[tag][key]; !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, tag, key)
	}
	printer := message.NewPrinter(tag, message.Catalog(c.builder))
	return printer.Sprintf(key, args...), nil
}

// Match picks the best supported locale for an Accept-Language style list.
func (c *CatalogTranslator) Match(preferences ...string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.matchLocked(strings.Join(preferences, ",")).String()
}

// Locales lists the supported locales, English first.
func (c *CatalogTranslator) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.supported))
	for _, tag := range c.supported {
		out = append(out, tag.String())
	}
	return out
}

func (c *CatalogTranslator) matchLocked(raw string) language.Tag {
	if len(c.supported) == 0 {
		return language.English
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return c.supported[0]
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return c.supported[0]
	}
	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(c.supported) {
		return c.supported[0]
	}
	return c.supported[index]
}

var ukrainianMessages = map[string]string{
	KeyNameRequired:  "Ім'я кота є обов'язковим.",
	KeyNameTooShort:  "Ім'я кота має містити щонайменше %d символи.",
	KeyNameTooLong:   "Ім'я кота не повинно перевищувати %d символи.",
	KeyEmailRequired: "Електронна пошта є обов'язковою.",
	KeyEmailInvalid:  "Електронна пошта недійсна. Приклад правильної адреси: example@example.com",
	KeySubmitSuccess: "Вашого кота успішно додано.",
	KeySubmitLabel:   "Додати кота",
	KeyPageIntro:     "Привіт! Тут ви можете додати фото свого кота.",
	KeyPageTitle:     "Коти",

	"cat_name.label":        "Ім'я вашого кота:",
	"cat_name.placeholder":  "Введіть ім'я вашого кота",
	"cat_name.description":  "Мінімальна довжина 2 символи, максимальна 32.",
	"cat_email.label":       "Ваша електронна пошта:",
	"cat_email.placeholder": "Введіть вашу електронну пошту",
	"cat_email.description": "Електронна пошта може містити лише латинські літери, підкреслення або дефіси.",
}
