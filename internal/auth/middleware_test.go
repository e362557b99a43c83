package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/expense-tracker/internal/api/http"
	"github.com/spec-kit/expense-tracker/internal/auth"
	"github.com/spec-kit/expense-tracker/internal/observability"
)

type gateHarness struct {
	app      *fiber.App
	tokens   *auth.TokenManager
	calls    int
	lastUser int64
}

func newGateHarness(t *testing.T) *gateHarness {
	t.Helper()
	h := &gateHarness{tokens: auth.NewTokenManager("gate-secret", 60)}

	h.app = fiber.New()
	httptransport.RegisterMiddlewares(h.app, zap.NewNop(), observability.NewMetrics(), 0)

	middleware := auth.NewMiddleware(h.tokens)
	h.app.Get("/protected", middleware.Handle, func(c *fiber.Ctx) error {
		h.calls++
		userID, ok := auth.UserIDFromContext(c)
		require.True(t, ok)
		h.lastUser = userID
		return c.JSON(fiber.Map{"ok": true})
	})
	return h
}

func (h *gateHarness) request(t *testing.T, authHeader string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)
	return resp, body
}

func TestGateMissingHeader(t *testing.T) {
	h := newGateHarness(t)

	resp, body := h.request(t, "")

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Authorization token must be provided", body["message"])
	assert.Zero(t, h.calls)
}

func TestGateWrongScheme(t *testing.T) {
	h := newGateHarness(t)
	token, _, err := h.tokens.Issue(123)
	require.NoError(t, err)

	resp, body := h.request(t, "Basic "+token)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Authorization token must be Bearer [token]", body["message"])
	assert.Zero(t, h.calls)
}

func TestGateInvalidToken(t *testing.T) {
	h := newGateHarness(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "invalidtoken"},
		{name: "wrong secret", token: mustIssue(t, auth.NewTokenManager("other-secret", 60), 123)},
		{name: "expired", token: issueExpired(t, "gate-secret", 123)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := h.request(t, "Bearer "+tt.token)

			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, "invalid/expired token", body["message"])
		})
	}
	assert.Zero(t, h.calls)
}

func TestGateValidToken(t *testing.T) {
	h := newGateHarness(t)
	token, _, err := h.tokens.Issue(456)
	require.NoError(t, err)

	resp, _ := h.request(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, h.calls)
	assert.Equal(t, int64(456), h.lastUser)
}

func mustIssue(t *testing.T, tm *auth.TokenManager, userID int64) string {
	t.Helper()
	token, _, err := tm.Issue(userID)
	require.NoError(t, err)
	return token
}
