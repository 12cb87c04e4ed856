package http

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter_RejectsBrokenDocument(t *testing.T) {
	_, err := NewRouter(context.Background(), RouterConfig{
		Verifier: newTestVerifier(t),
		OpenAPI:  []byte("openapi: [not valid"),
	})
	assert.Error(t, err)
}

func TestNewRouter_RejectsDocumentMissingRoutes(t *testing.T) {
	doc := []byte(`openapi: 3.0.3
info:
  title: fulfillment
  version: "1"
paths:
  /api/v1/drivers:
    get:
      responses:
        "200":
          description: drivers
`)

	_, err := NewRouter(context.Background(), RouterConfig{Verifier: newTestVerifier(t), OpenAPI: doc})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "undocumented route POST /api/v1/orders")
	assert.Contains(t, err.Error(), "undocumented route PUT /api/v1/orders/{id}/cancel")
}

func TestCheckRoutesDocumented(t *testing.T) {
	doc, err := loadOpenAPI(context.Background(), []byte(`openapi: 3.0.3
info:
  title: fulfillment
  version: "1"
paths:
  /api/v1/orders/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: order
    put:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: order
`))
	require.NoError(t, err)

	t.Run("should accept matching routes and ignore routes outside the prefix", func(t *testing.T) {
		routes := []*echo.Route{
			{Method: http.MethodGet, Path: "/api/v1/orders/:id"},
			{Method: http.MethodPut, Path: "/api/v1/orders/:id"},
			{Method: http.MethodGet, Path: "/health"},
			{Method: echo.RouteNotFound, Path: "/api/v1/*"},
		}

		require.NoError(t, checkRoutesDocumented(doc, routes, APIPrefix))
	})

	t.Run("should report operations without a route", func(t *testing.T) {
		routes := []*echo.Route{{Method: http.MethodGet, Path: "/api/v1/orders/:id"}}

		err := checkRoutesDocumented(doc, routes, APIPrefix)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "documented operation without route PUT /api/v1/orders/{id}")
	})

	t.Run("should report routes without an operation", func(t *testing.T) {
		routes := []*echo.Route{
			{Method: http.MethodGet, Path: "/api/v1/orders/:id"},
			{Method: http.MethodPut, Path: "/api/v1/orders/:id"},
			{Method: http.MethodDelete, Path: "/api/v1/orders/:id"},
		}

		err := checkRoutesDocumented(doc, routes, APIPrefix)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "undocumented route DELETE /api/v1/orders/{id}")
	})
}

func TestNewRouter_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	verifier := newTestVerifier(t)
	e, err := NewRouter(context.Background(), RouterConfig{
		Verifier: verifier,
		Metrics:  metrics.NewHTTP(reg),
		Gatherer: reg,
	})
	require.NoError(t, err)

	doRequest(t, e, http.MethodGet, "/api/v1/drivers", "", nil)
	doRequest(t, e, http.MethodGet, "/health", "", nil)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "fulfillment_http_requests_total"))
	rec := doRequest(t, e, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `route="/api/v1/drivers"`), body)
	assert.True(t, strings.Contains(body, `code="401"`), body)
}

func TestNewRouter_ServesSwaggerDocument(t *testing.T) {
	e, _ := newTestRouter(t, Handlers{})

	rec := doRequest(t, e, http.MethodGet, "/swagger/doc.json", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/orders")
}

func TestNewRouter_OpenAPIRejectsUnknownEnum(t *testing.T) {
	e, verifier := newTestRouter(t, Handlers{})

	rec := doRequest(t, e, http.MethodPut, "/api/v1/orders/"+kernel.NewUUID().String(),
		tokenFor(t, verifier, newTestActor(t, kernel.RoleAdmin)), map[string]any{"status": "Teleported"})

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestNewRouter_LimitsDeliveryProofAttemptsPerActor(t *testing.T) {
	calls := 0
	verifier := newTestVerifier(t)
	e, err := NewRouter(context.Background(), RouterConfig{
		Verifier:    verifier,
		OTPAttempts: RateLimit{Rate: 0.001, Burst: 2, ExpiresIn: time.Minute},
		Handlers: Handlers{
			ConfirmDelivery: HandlerFunc[commands.ConfirmDeliveryCommand, order.Snapshot](
				func(context.Context, commands.ConfirmDeliveryCommand) (order.Snapshot, error) {
					calls++
					return order.Snapshot{}, errs.NewValueIsInvalidError("delivery proof")
				}),
		},
	})
	require.NoError(t, err)

	customer := tokenFor(t, verifier, newTestActor(t, kernel.RoleCustomer))
	body := map[string]any{"orderId": kernel.NewUUID().String(), "proof": "0000"}

	for range 2 {
		rec := doRequest(t, e, http.MethodPost, "/api/v1/orders/confirm-delivery", customer, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	rec := doRequest(t, e, http.MethodPost, "/api/v1/orders/confirm-delivery", customer, body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RateLimitError", decodeBody[ErrorResponse](t, rec).Kind)
	assert.Equal(t, 2, calls)

	other := tokenFor(t, verifier, newTestActor(t, kernel.RoleCustomer))
	rec = doRequest(t, e, http.MethodPost, "/api/v1/orders/confirm-delivery", other, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
