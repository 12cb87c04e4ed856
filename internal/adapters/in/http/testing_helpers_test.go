package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestVerifier(t *testing.T) *TokenVerifier {
	t.Helper()
	v, err := NewTokenVerifier(testSecret, "fulfillment-tests")
	require.NoError(t, err)
	return v
}

func newTestRouter(t *testing.T, h Handlers) (*echo.Echo, *TokenVerifier) {
	t.Helper()
	verifier := newTestVerifier(t)
	e, err := NewRouter(context.Background(), RouterConfig{Handlers: h, Verifier: verifier})
	require.NoError(t, err)
	return e, verifier
}

func newTestActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func tokenFor(t *testing.T, v *TokenVerifier, actor kernel.Actor) string {
	t.Helper()
	token, err := v.Mint(actor, time.Now(), time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, e *echo.Echo, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// pendingSnapshot builds a Pending COD order of 2 x 100 + 1 x 50.
func pendingSnapshot(t *testing.T, customerID kernel.UUID) order.Snapshot {
	t.Helper()
	first, err := order.NewLineItem(kernel.NewUUID(), 2, kernel.MustMoney("100"))
	require.NoError(t, err)
	second, err := order.NewLineItem(kernel.NewUUID(), 1, kernel.MustMoney("50"))
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.NewTrackingID(), customerID,
		[]order.LineItem{first, second}, order.PaymentCOD)
	require.NoError(t, err)
	return o.Snapshot()
}
