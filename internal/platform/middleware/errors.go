package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/docbook/docbook/internal/platform/validation"
)

// statusOf maps a handler error to the status the error handler will send.
func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var ve *validation.Error
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Code  string `json:"code,omitempty"`
}

// ErrorHandler renders every error as {"error": "..."}. Validation errors
// also carry the offending field and rule code. Internal errors are logged
// and never leak their message to the client.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := statusOf(err)
		body := errorBody{Error: http.StatusText(status)}

		var ve *validation.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ve):
			body = errorBody{Error: ve.Message, Field: ve.Field, Code: ve.Code}
		case errors.As(err, &he):
			if msg, ok := he.Message.(string); ok && msg != "" {
				body.Error = msg
			}
		}

		if status >= 500 {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
			if he == nil {
				body.Error = "internal server error"
			}
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
