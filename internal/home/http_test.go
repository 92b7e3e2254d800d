// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sessiongate/internal/home"
	"github.com/taibuivan/sessiongate/internal/platform/ctxutil"
	"github.com/taibuivan/sessiongate/internal/platform/view"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	router := chi.NewRouter()
	home.NewHandler(renderer).RegisterRoutes(router)
	return router
}

/*
TestHandler_Index greets the subject and escapes it.
*/
func TestHandler_Index(t *testing.T) {
	router := newRouter(t)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithSubject(request.Context(), "<b>admin</b>"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "&lt;b&gt;admin&lt;/b&gt;")
	assert.Contains(t, recorder.Body.String(), `action="/logout"`)
	assert.Equal(t, "no-store", recorder.Header().Get("Cache-Control"))
}

/*
TestHandler_IndexAnonymous falls back to the login redirect.
*/
func TestHandler_IndexAnonymous(t *testing.T) {
	router := newRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}
