// Package theme renders per-tenant CSS custom properties.
package theme

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/amoylab/tenantly/internal/apiserver/database"
	"github.com/amoylab/tenantly/internal/common/config"

	"github.com/Masterminds/sprig/v3"
)

// ContentType and CacheControl are the headers the stylesheet is served with
const (
	ContentType  = "text/css; charset=utf-8"
	CacheControl = "no-cache, no-store, must-revalidate"
)

const cssTemplate = `:root{` +
	`--color-primary:{{ .Theme.Primary | clean | default .Defaults.Primary }};` +
	`--color-bg:{{ .Theme.Background | clean | default .Defaults.Background }};` +
	`--color-text:{{ .Theme.Text | clean | default .Defaults.Text }};` +
	`}`

// Renderer produces the stylesheet of a tenant
type Renderer struct {
	defaults database.Theme
	tmpl     *template.Template
}

// NewRenderer builds a Renderer whose fallbacks come from cfg
func NewRenderer(cfg config.ThemeConfig) (*Renderer, error) {
	funcs := sprig.TxtFuncMap()
	funcs["clean"] = Sanitize

	tmpl, err := template.New("theme").Funcs(funcs).Parse(cssTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse theme template: %w", err)
	}
	return &Renderer{
		defaults: database.Theme{
			Primary:    fallback(Sanitize(cfg.Primary), config.DefaultThemePrimary),
			Background: fallback(Sanitize(cfg.Background), config.DefaultThemeBackground),
			Text:       fallback(Sanitize(cfg.Text), config.DefaultThemeText),
		},
		tmpl: tmpl,
	}, nil
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Defaults returns the theme used for fields a tenant leaves empty
func (r *Renderer) Defaults() database.Theme {
	return r.defaults
}

// Render returns the stylesheet for tenant. A nil tenant gets the defaults.
func (r *Renderer) Render(tenant *database.Tenant) ([]byte, error) {
	data := struct {
		Theme    database.Theme
		Defaults database.Theme
	}{Defaults: r.defaults}
	if tenant != nil {
		data.Theme = tenant.Theme
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render theme: %w", err)
	}
	return buf.Bytes(), nil
}

// Sanitize strips characters that could end a declaration or open markup
func Sanitize(v string) string {
	v = strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '\n', '\r':
			return -1
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}
