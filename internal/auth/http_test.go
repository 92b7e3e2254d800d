// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sessiongate/internal/auth"
	"github.com/taibuivan/sessiongate/internal/platform/constants"
	"github.com/taibuivan/sessiongate/internal/platform/middleware"
	"github.com/taibuivan/sessiongate/internal/platform/sec"
	"github.com/taibuivan/sessiongate/internal/platform/view"
	"github.com/taibuivan/sessiongate/internal/session"
)

// stubLimiter returns a fixed decision.
type stubLimiter struct {
	allowed bool
	err     error
}

func (s stubLimiter) Allow(context.Context, string) (bool, error) { return s.allowed, s.err }

type handlerFixture struct {
	router    http.Handler
	calls     atomic.Int32
	backendUp atomic.Bool
}

func newHandlerFixture(t *testing.T, limiter auth.AttemptLimiter) *handlerFixture {
	t.Helper()

	f := &handlerFixture{}
	f.backendUp.Store(true)

	secret, err := sec.NewSecret("Zx8Qw2Er4Ty6Ui8Op0As2Df4Gh6Jk8Lz")
	require.NoError(t, err)
	codec, err := sec.NewTokenCodec(secret, sec.TokenOptions{Label: "sessiongate.test", MaxAge: time.Hour, MaxLength: 4096})
	require.NoError(t, err)

	authenticator := session.AuthenticatorFunc(func(_ context.Context, username, password string) (bool, error) {
		f.calls.Add(1)
		if !f.backendUp.Load() {
			return false, errors.New("connection refused")
		}
		return username == "admin" && password == "admin", nil
	})

	gate, err := session.NewGate(authenticator, codec, session.Options{
		Cookie: session.CookieOptions{Name: "session"},
	})
	require.NoError(t, err)

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(gate))
	auth.NewHandler(gate, limiter, renderer).RegisterRoutes(router)
	f.router = router

	return f
}

func (f *handlerFixture) postLogin(username, password string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	request := httptest.NewRequest(http.MethodPost, constants.PathLogin, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func (f *handlerFixture) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == "session" {
			return cookie
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

/*
TestHandler_LoginSuccess sets the session cookie and redirects home.
*/
func TestHandler_LoginSuccess(t *testing.T) {
	f := newHandlerFixture(t, nil)

	recorder := f.postLogin("admin", "admin")

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.PathHome, recorder.Header().Get("Location"))

	cookie := sessionCookie(t, recorder)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)
}

/*
TestHandler_LoginRejected verifies that unknown users and wrong passwords are
indistinguishable in the response.
*/
func TestHandler_LoginRejected(t *testing.T) {
	f := newHandlerFixture(t, nil)

	wrongPassword := f.postLogin("admin", "nope")
	unknownUser := f.postLogin("ghost", "admin")

	for _, recorder := range []*httptest.ResponseRecorder{wrongPassword, unknownUser} {
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, "/login?error=invalid_credentials", recorder.Header().Get("Location"))
		assert.Empty(t, recorder.Result().Cookies())
	}
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

/*
TestHandler_LoginInvalidForm rejects out-of-bounds input before the gate.
*/
func TestHandler_LoginInvalidForm(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty_username", "", "admin"},
		{"empty_password", "admin", ""},
		{"oversized_username", strings.Repeat("a", auth.MaxUsernameLength+1), "admin"},
		{"oversized_password", "admin", strings.Repeat("p", auth.MaxPasswordLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t, nil)

			recorder := f.postLogin(tt.username, tt.password)

			assert.Equal(t, http.StatusSeeOther, recorder.Code)
			assert.Equal(t, "/login?error=invalid_credentials", recorder.Header().Get("Location"))
			assert.Zero(t, f.calls.Load())
		})
	}
}

/*
TestHandler_LoginBackendFailure reports a generic outage.
*/
func TestHandler_LoginBackendFailure(t *testing.T) {
	f := newHandlerFixture(t, nil)
	f.backendUp.Store(false)

	recorder := f.postLogin("admin", "admin")

	assert.Equal(t, "/login?error=unavailable", recorder.Header().Get("Location"))
	assert.Empty(t, recorder.Result().Cookies())
}

/*
TestHandler_LoginThrottled stops before the credential check.
*/
func TestHandler_LoginThrottled(t *testing.T) {
	f := newHandlerFixture(t, stubLimiter{allowed: false})

	recorder := f.postLogin("admin", "admin")

	assert.Equal(t, "/login?error=too_many_attempts", recorder.Header().Get("Location"))
	assert.Zero(t, f.calls.Load())
}

/*
TestHandler_LoginLimiterFailsOpen keeps sign-in working when the limiter errors.
*/
func TestHandler_LoginLimiterFailsOpen(t *testing.T) {
	f := newHandlerFixture(t, stubLimiter{err: errors.New("redis down")})

	recorder := f.postLogin("admin", "admin")

	assert.Equal(t, constants.PathHome, recorder.Header().Get("Location"))
	assert.NotEmpty(t, sessionCookie(t, recorder).Value)
}

/*
TestHandler_LoginPage renders fixed messages only for known codes.
*/
func TestHandler_LoginPage(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		message string
	}{
		{"no_error", "/login", ""},
		{"invalid_credentials", "/login?error=invalid_credentials", "Invalid username or password."},
		{"too_many_attempts", "/login?error=too_many_attempts", "Too many sign-in attempts"},
		{"unknown_code_ignored", "/login?error=%3Cscript%3E", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t, nil)

			recorder := f.get(tt.path)

			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `action="/login"`)
			assert.NotContains(t, recorder.Body.String(), "<script>")
			if tt.message != "" {
				assert.Contains(t, recorder.Body.String(), tt.message)
			} else {
				assert.NotContains(t, recorder.Body.String(), `class="error"`)
			}
		})
	}
}

/*
TestHandler_LoginPageWhenAuthenticated sends a signed-in user home.
*/
func TestHandler_LoginPageWhenAuthenticated(t *testing.T) {
	f := newHandlerFixture(t, nil)
	cookie := sessionCookie(t, f.postLogin("admin", "admin"))

	recorder := f.get(constants.PathLogin, cookie)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, constants.PathHome, recorder.Header().Get("Location"))
}

/*
TestHandler_Logout clears the cookie with or without a session.
*/
func TestHandler_Logout(t *testing.T) {
	f := newHandlerFixture(t, nil)
	cookie := sessionCookie(t, f.postLogin("admin", "admin"))

	for _, recorder := range []*httptest.ResponseRecorder{f.get(constants.PathLogout, cookie), f.get(constants.PathLogout)} {
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.PathLogin, recorder.Header().Get("Location"))

		cleared := sessionCookie(t, recorder)
		assert.Empty(t, cleared.Value)
		assert.Equal(t, -1, cleared.MaxAge)
	}
}
