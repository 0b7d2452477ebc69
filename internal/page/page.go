// Package page renders the registration page.
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"award-registration/internal/catalog"
	"award-registration/internal/models"
	"award-registration/internal/utils"
)

//go:embed templates/register.html
var templates embed.FS

const CacheControl = "public, max-age=300"

type Renderer struct {
	tmpl *template.Template
	data pageData
}

type pageData struct {
	Title          string
	Intro          string
	Host           catalog.HostInfo
	Featured       []models.Tier
	Grid           []models.Tier
	Individual     models.IndividualSeats
	PublishableKey string
}

func NewRenderer(cat *catalog.Catalog, eventName, publishableKey string) (*Renderer, error) {
	tmpl, err := template.New("register.html").
		Funcs(template.FuncMap{"money": utils.FormatDollars}).
		ParseFS(templates, "templates/register.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	title := cat.Title
	if title == "" {
		title = eventName
	}
	return &Renderer{
		tmpl: tmpl,
		data: pageData{
			Title:          title,
			Intro:          cat.Intro,
			Host:           cat.Host,
			Featured:       cat.Featured(),
			Grid:           cat.Grid(),
			Individual:     cat.Individual(),
			PublishableKey: publishableKey,
		},
	}, nil
}

// ServeHTTP renders into a buffer first so a template failure never leaves
// a half-written page.
func (p *Renderer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, p.data); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	w.Header().Set("Cache-Control", CacheControl)
	_, _ = buf.WriteTo(w)
}
