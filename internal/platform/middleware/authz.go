// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/sessiongate/internal/platform/ctxutil"
)

// IdentityResolver maps a request to its session subject.
//
// Defining it here keeps the middleware independent of the session package
// and lets tests supply a stub.
type IdentityResolver interface {
	IdentityOf(request *http.Request) (string, bool)
}

// Authenticate resolves the session cookie and, when valid, stores the subject
// in the request context. Requests without a valid session proceed anonymously.
//
// # Flow
//  1. Ask the [IdentityResolver] for the subject.
//  2. If absent or invalid, the request continues as anonymous.
//  3. Otherwise inject the subject via [ctxutil.WithSubject].
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			subject, ok := resolver.IdentityOf(request)
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithSubject(request.Context(), subject)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous requests to loginPath with 303 See Other.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if _, ok := ctxutil.GetSubject(request.Context()); !ok {
				http.Redirect(writer, request, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
