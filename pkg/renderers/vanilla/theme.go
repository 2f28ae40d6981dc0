package vanilla

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// StylesheetAsset is the manifest asset key for the page stylesheet.
const StylesheetAsset = "stylesheet"

// DefaultThemeName names the bundled manifest.
const DefaultThemeName = "cats"

// DefaultManifest is the bundled theme: brand and state colours as tokens,
// with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#2f6f4e",
			"text":       "#1d1d1f",
			"muted":      "#6b6b6b",
			"border":     "#c8c8c8",
			"warning":    "#e09f3e",
			"warning-bg": "#fff6e5",
			"error":      "#d62828",
			"error-bg":   "#fdecec",
			"status":     "#2a9d8f",
			"status-bg":  "#e8f6f4",
		},
		Assets: theme.Assets{
			Prefix: "assets",
			Files: map[string]string{
				StylesheetAsset: StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"text":       "#f2f2f2",
					"muted":      "#a8a8a8",
					"border":     "#3a3a3a",
					"warning-bg": "#3b2f1a",
					"error-bg":   "#3b1a1a",
					"status-bg":  "#16332f",
				},
			},
		},
	}
}

// variantSelector rejects variants the selected manifest does not declare.
type variantSelector struct {
	theme.Selector
}

// NewThemeSelector registers manifests in a go-theme registry and returns a
// selector over it. The first manifest is the default theme.
func NewThemeSelector(defaultVariant string, manifests ...*theme.Manifest) (theme.ThemeSelector, error) {
	if len(manifests) == 0 {
		return nil, fmt.Errorf("vanilla: at least one theme manifest is required")
	}
	registry := theme.NewRegistry()
	for _, m := range manifests {
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("vanilla: register theme: %w", err)
		}
	}
	return variantSelector{theme.Selector{
		Registry:       registry,
		DefaultTheme:   manifests[0].Name,
		DefaultVariant: strings.TrimSpace(defaultVariant),
	}}, nil
}

func (s variantSelector) Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error) {
	sel, err := s.Selector.Select(name, strings.TrimSpace(variant), opts...)
	if err != nil {
		return nil, err
	}
	if sel.Variant != "" && sel.Manifest != nil {
		if _, ok := sel.Manifest.Variants[sel.Variant]; !ok {
			return nil, fmt.Errorf("vanilla: theme %q has no variant %q", sel.Manifest.Name, sel.Variant)
		}
	}
	return sel, nil
}

// stylesheetURL resolves the stylesheet asset under basePath. Absolute and
// remote asset paths are returned as is.
func stylesheetURL(sel *theme.Selection, basePath string) string {
	if sel == nil {
		return ""
	}
	asset, ok := sel.Asset(StylesheetAsset)
	if !ok {
		return ""
	}
	if strings.HasPrefix(asset, "/") || strings.Contains(asset, "://") {
		return asset
	}
	return path.Join("/", basePath, asset)
}

// cssVars renders the selection's CSS variables as sorted declarations.
func cssVars(sel *theme.Selection) string {
	if sel == nil {
		return ""
	}
	vars := sel.CSSVariables("")
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(vars[name])
		b.WriteByte(';')
	}
	return b.String()
}
