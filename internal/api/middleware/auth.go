package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dailynotes/notes-api/internal/api/handler"
	"github.com/dailynotes/notes-api/internal/api/metrics"
	"github.com/dailynotes/notes-api/internal/core/domain"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

const (
	HeaderRefreshToken   = "X-Refresh-Token"
	HeaderNewAccessToken = "X-New-Access-Token"
)

// Auth asks the authorizer about every request. Denied requests get a bare
// 401; allowed ones carry the user id in both the echo and request contexts.
// A freshly minted access token is returned in X-New-Access-Token.
func Auth(authorizer ports.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			decision := authorizer.Authorize(req.Context(), domain.AuthRequest{
				BearerToken:  bearerToken(req.Header.Get(echo.HeaderAuthorization)),
				RefreshToken: strings.TrimSpace(req.Header.Get(HeaderRefreshToken)),
				Now:          time.Now(),
			})

			if !decision.Allow {
				metrics.AuthDecisionsTotal.WithLabelValues("deny").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			if decision.Refreshed() {
				metrics.AuthDecisionsTotal.WithLabelValues("refreshed").Inc()
				c.Response().Header().Set(HeaderNewAccessToken, decision.NewAccessToken)
			} else {
				metrics.AuthDecisionsTotal.WithLabelValues("allow").Inc()
			}

			c.Set(handler.ContextKeyUserID, decision.UserID)
			c.SetRequest(req.WithContext(domain.WithUserID(req.Context(), decision.UserID)))

			return next(c)
		}
	}
}

// bearerToken extracts the token from "Bearer <token>". Anything else
// yields "".
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
