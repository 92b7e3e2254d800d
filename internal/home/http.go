// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package home serves the protected landing page.
package home

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sessiongate/internal/platform/apperr"
	"github.com/taibuivan/sessiongate/internal/platform/constants"
	"github.com/taibuivan/sessiongate/internal/platform/ctxutil"
	"github.com/taibuivan/sessiongate/internal/platform/respond"
	"github.com/taibuivan/sessiongate/internal/platform/view"
)

// Handler renders pages that require a session.
type Handler struct {
	renderer *view.Renderer
}

// NewHandler constructs a new [Handler].
func NewHandler(renderer *view.Renderer) *Handler {
	return &Handler{renderer: renderer}
}

// RegisterRoutes attaches the protected pages to router. The caller is
// expected to have applied [middleware.RequireAuth] to router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get(constants.PathHome, handler.index)
}

// index handles GET /.
func (handler *Handler) index(writer http.ResponseWriter, request *http.Request) {
	subject, ok := ctxutil.GetSubject(request.Context())
	if !ok {
		http.Redirect(writer, request, constants.PathLogin, http.StatusSeeOther)
		return
	}

	data := view.HomeData{Title: "Home", User: subject}
	if err := handler.renderer.Render(writer, http.StatusOK, view.PageHome, data); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
	}
}
