package sentry_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/phrazzld/task-manager-api/internal/platform/sentry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledWithoutDSN(t *testing.T) {
	r, err := sentry.New(config.SentryConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, r.Enabled())
	assert.True(t, r.Flush(0))

	var sawHub bool
	h := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sawHub = sentrygo.GetHubFromContext(req.Context()) != nil
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, sawHub)
}

func TestNew_InvalidDSN(t *testing.T) {
	_, err := sentry.New(config.SentryConfig{DSN: "not a dsn"}, nil)
	assert.Error(t, err)
}

func TestNew_EnabledAttachesHub(t *testing.T) {
	r, err := sentry.New(config.SentryConfig{DSN: "https://public@o0.ingest.sentry.io/0"}, nil)
	require.NoError(t, err)
	assert.True(t, r.Enabled())

	var sawHub bool
	h := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		sawHub = sentrygo.GetHubFromContext(req.Context()) != nil
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, sawHub)
}

func TestCaptureRequestError_NoHubIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		sentry.CaptureRequestError(context.Background(), errors.New("boom"), map[string]string{"path": "/"})
		sentry.CaptureRequestError(context.Background(), nil, nil)
	})
}

func TestNilReporterIsDisabled(t *testing.T) {
	var r *sentry.Reporter
	assert.False(t, r.Enabled())
}
