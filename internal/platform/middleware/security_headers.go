package middleware

import (
	"github.com/labstack/echo/v4"
)

// apiHeaders go on every response, error responses included. Bodies carry
// patient names and contacts, so nothing may be cached.
var apiHeaders = [...]struct{ name, value string }{
	{echo.HeaderXContentTypeOptions, "nosniff"},
	{echo.HeaderXFrameOptions, "DENY"},
	{echo.HeaderContentSecurityPolicy, "default-src 'none'; frame-ancestors 'none'"},
	{echo.HeaderStrictTransportSecurity, "max-age=31536000; includeSubDomains"},
	{echo.HeaderReferrerPolicy, "no-referrer"},
	{echo.HeaderCacheControl, "no-store"},
}

// SecurityHeaders must run before the handler so the error handler's
// response inherits the headers.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for _, kv := range apiHeaders {
				h.Set(kv.name, kv.value)
			}
			return next(c)
		}
	}
}
