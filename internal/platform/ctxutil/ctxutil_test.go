// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sessiongate/internal/platform/ctxutil"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Subject verifies that the session subject can be stored in context.
*/
func TestContext_Subject(t *testing.T) {
	ctx := context.Background()

	// 1. Initially anonymous
	_, ok := ctxutil.GetSubject(ctx)
	assert.False(t, ok)

	// 2. Inject and retrieve
	ctx = ctxutil.WithSubject(ctx, "admin")
	subject, ok := ctxutil.GetSubject(ctx)
	assert.True(t, ok)
	assert.Equal(t, "admin", subject)

	// 3. An empty subject is treated as anonymous
	_, ok = ctxutil.GetSubject(ctxutil.WithSubject(context.Background(), ""))
	assert.False(t, ok)
}

/*
TestContext_ClientIP verifies the resolved client address round-trips.
*/
func TestContext_ClientIP(t *testing.T) {
	_, ok := ctxutil.GetClientIP(context.Background())
	assert.False(t, ok)

	ip, ok := ctxutil.GetClientIP(ctxutil.WithClientIP(context.Background(), "203.0.113.9"))
	assert.True(t, ok)
	assert.Equal(t, "203.0.113.9", ip)
}
