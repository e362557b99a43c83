package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	httptransport "github.com/spec-kit/expense-tracker/internal/api/http"
	"github.com/spec-kit/expense-tracker/internal/observability"
	apperrors "github.com/spec-kit/expense-tracker/pkg/util"
)

func newObservedApp(t *testing.T) (*fiber.App, *observer.ObservedLogs, *observability.Metrics) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.New(core), metrics, 0)
	return app, logs, metrics
}

func TestFailedRequestLoggedWithFinalStatus(t *testing.T) {
	app, logs, metrics := newObservedApp(t)
	app.Get("/denied", func(c *fiber.Ctx) error {
		return apperrors.NewForbidden("authentication required")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/denied", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	// The logged status is the one the client saw, not the pre-rejection one.
	assert.EqualValues(t, http.StatusForbidden, entries[0].ContextMap()["status"])

	requests, errCounts := metrics.Snapshot()
	assert.Equal(t, int64(1), requests["/denied|GET|403"])
	assert.Zero(t, requests["/denied|GET|200"])
	assert.Equal(t, int64(1), errCounts["/denied|GET|FORBIDDEN"])
}

func TestSuccessfulRequestLoggedWithStatus(t *testing.T) {
	app, logs, metrics := newObservedApp(t)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])

	requests, _ := metrics.Snapshot()
	assert.Equal(t, int64(1), requests["/ok|GET|200"])
}
