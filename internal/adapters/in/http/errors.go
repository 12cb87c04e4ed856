package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// kindAuthentication is reported for missing or invalid credentials, which
// happen before any actor exists to authorize.
const kindAuthentication errs.Kind = "AuthenticationError"

const kindRateLimited errs.Kind = "RateLimitError"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindAuthorization:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func kindFor(status int) errs.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusUnsupportedMediaType:
		return errs.KindValidation
	case http.StatusUnauthorized:
		return kindAuthentication
	case http.StatusForbidden:
		return errs.KindAuthorization
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errs.KindNotFound
	case http.StatusConflict:
		return errs.KindConflict
	case http.StatusTooManyRequests:
		return kindRateLimited
	default:
		return errs.KindInternal
	}
}

// toErrorResponse classifies err. Internal errors never leak their message.
func toErrorResponse(err error) ErrorResponse {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		kind := kindFor(httpErr.Code)
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && kind != errs.KindInternal {
			message = m
		}
		return ErrorResponse{Code: httpErr.Code, Kind: string(kind), Message: message}
	}

	kind := errs.KindOf(err)
	status := statusFor(kind)
	message := err.Error()
	if kind == errs.KindInternal {
		message = "internal error"
	}
	return ErrorResponse{Code: status, Kind: string(kind), Message: message}
}

// NewErrorHandler renders every handler error as an ErrorResponse.
func NewErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := toErrorResponse(err)
		ctx := c.Request().Context()
		if resp.Code >= http.StatusInternalServerError {
			log.Error(ctx, "request failed", err)
		} else {
			log.Event(ctx, zerolog.WarnLevel).Err(err).Str("kind", resp.Kind).Msg("request rejected")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(resp.Code)
		} else {
			writeErr = c.JSON(resp.Code, resp)
		}
		if writeErr != nil {
			log.Error(ctx, "write error response", writeErr)
		}
	}
}
