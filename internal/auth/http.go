// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sessiongate/internal/platform/apperr"
	"github.com/taibuivan/sessiongate/internal/platform/constants"
	"github.com/taibuivan/sessiongate/internal/platform/ctxutil"
	"github.com/taibuivan/sessiongate/internal/platform/middleware"
	"github.com/taibuivan/sessiongate/internal/platform/respond"
	"github.com/taibuivan/sessiongate/internal/platform/validate"
	"github.com/taibuivan/sessiongate/internal/platform/view"
	"github.com/taibuivan/sessiongate/internal/session"
)

// maxFormBytes bounds the login form body.
const maxFormBytes = 8 << 10

// loginMessages maps the ?error= code to the only texts the login page shows.
// None of them says whether the username exists.
var loginMessages = map[string]string{
	constants.LoginErrorInvalidCredentials: "Invalid username or password.",
	constants.LoginErrorTooManyAttempts:    "Too many sign-in attempts. Please wait and try again.",
	constants.LoginErrorUnavailable:        "Sign-in is temporarily unavailable. Please try again later.",
}

// Handler implements the login and logout HTTP endpoints.
//
// # Scope
//
// It parses forms, applies the attempt budget and turns gate outcomes into
// cookies and redirects. Credential checks live behind the gate.
type Handler struct {
	gate     *session.Gate
	limiter  AttemptLimiter
	renderer *view.Renderer
}

// NewHandler constructs a new [Handler]. A nil limiter disables throttling.
func NewHandler(gate *session.Gate, limiter AttemptLimiter, renderer *view.Renderer) *Handler {
	if limiter == nil {
		limiter = NopAttemptLimiter{}
	}
	return &Handler{gate: gate, limiter: limiter, renderer: renderer}
}

// RegisterRoutes attaches the sign-in routes to router. They share the root
// with the protected pages, so they are registered rather than mounted.
//
// # Endpoints
//   - GET  /login  : Login form.
//   - POST /login  : Credential submission.
//   - GET  /logout : Clears the session cookie.
//   - POST /logout : Same as GET, used by the home page form.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get(constants.PathLogin, handler.loginPage)
	router.Post(constants.PathLogin, handler.login)
	router.Get(constants.PathLogout, handler.logout)
	router.Post(constants.PathLogout, handler.logout)
}

// loginPage handles GET /login.
//
// An already authenticated caller is sent home instead of seeing the form.
func (handler *Handler) loginPage(writer http.ResponseWriter, request *http.Request) {
	if _, ok := ctxutil.GetSubject(request.Context()); ok {
		http.Redirect(writer, request, constants.PathHome, http.StatusSeeOther)
		return
	}

	data := view.LoginData{
		Title: "Sign in",
		Error: loginMessages[request.URL.Query().Get(constants.FieldError)],
	}

	if err := handler.renderer.Render(writer, http.StatusOK, view.PageLogin, data); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
	}
}

// login handles POST /login.
//
// # Returns
//   - 303 to / with the session cookie on success.
//   - 303 to /login?error=<code> otherwise; the code never distinguishes an
//     unknown user from a wrong password.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	// ── 1. Attempt Budget ─────────────────────────────────────────────────

	allowed, err := handler.limiter.Allow(ctx, middleware.RealIP(request))
	if err != nil {
		// Fail open: a Redis outage must not lock everyone out.
		logger.WarnContext(ctx, "login_limiter_unavailable", slog.Any("error", err))
		allowed = true
	}
	if !allowed {
		logger.WarnContext(ctx, "login_throttled")
		redirectLoginError(writer, request, constants.LoginErrorTooManyAttempts)
		return
	}

	// ── 2. Form Extraction ────────────────────────────────────────────────

	request.Body = http.MaxBytesReader(writer, request.Body, maxFormBytes)
	if err := request.ParseForm(); err != nil {
		redirectLoginError(writer, request, constants.LoginErrorInvalidCredentials)
		return
	}

	username := request.PostForm.Get(FieldUsername)
	password := request.PostForm.Get(FieldPassword)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Required(FieldPassword, password).
		MaxBytes(FieldPassword, password, MaxPasswordLength)

	if validator.HasErrors() {
		logger.InfoContext(ctx, "login_rejected", slog.String("reason", "invalid_form"))
		redirectLoginError(writer, request, constants.LoginErrorInvalidCredentials)
		return
	}

	// ── 3. Gate ───────────────────────────────────────────────────────────

	outcome, err := handler.gate.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, session.ErrCredentialRejected) {
			logger.InfoContext(ctx, "login_rejected", slog.String("reason", "credentials"))
			redirectLoginError(writer, request, constants.LoginErrorInvalidCredentials)
			return
		}
		logger.ErrorContext(ctx, "login_failed", slog.Any("error", err))
		redirectLoginError(writer, request, constants.LoginErrorUnavailable)
		return
	}

	// ── 4. Session Cookie ─────────────────────────────────────────────────

	http.SetCookie(writer, outcome.Cookie)
	logger.InfoContext(ctx, "login_succeeded", slog.String("subject", outcome.Subject))
	http.Redirect(writer, request, constants.PathHome, http.StatusSeeOther)
}

// logout handles GET and POST /logout. It needs no active session.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, handler.gate.Logout())

	if subject, ok := ctxutil.GetSubject(request.Context()); ok {
		ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "logout", slog.String("subject", subject))
	}

	http.Redirect(writer, request, constants.PathLogin, http.StatusSeeOther)
}

// redirectLoginError sends the browser back to the form with a fixed error code.
func redirectLoginError(writer http.ResponseWriter, request *http.Request, code string) {
	target := constants.PathLogin + "?" + url.Values{constants.FieldError: {code}}.Encode()
	http.Redirect(writer, request, target, http.StatusSeeOther)
}
