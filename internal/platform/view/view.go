// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package view renders the server-side HTML pages.
//
// Templates are embedded into the binary and parsed once at startup; each page
// is cloned from the shared layout so pages cannot overwrite each other's blocks.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/taibuivan/sessiongate/internal/platform/constants"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageLogin = "login"
	PageHome  = "home"
)

// LoginData is the model for the login page.
type LoginData struct {
	Title string
	Error string
}

// HomeData is the model for the protected home page.
type HomeData struct {
	Title string
	User  string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page against the shared layout.
func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("view: failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{PageLogin, PageHome} {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("view: failed to clone layout: %w", err)
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("view: failed to parse page %s: %w", name, err)
		}
		pages[name] = page
	}

	return &Renderer{pages: pages}, nil
}

// Render writes page with status. Rendering happens into a buffer first so a
// template error never leaves a half-written 200 response.
func (renderer *Renderer) Render(writer http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := renderer.pages[page]
	if !ok {
		return fmt.Errorf("view: unknown page %q", page)
	}

	var buffer bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buffer, "layout", data); err != nil {
		return fmt.Errorf("view: failed to render %s: %w", page, err)
	}

	header := writer.Header()
	header.Set(constants.HeaderContentType, "text/html; charset=utf-8")
	header.Set(constants.HeaderCacheControl, "no-store")
	writer.WriteHeader(status)
	_, err := buffer.WriteTo(writer)
	return err
}
