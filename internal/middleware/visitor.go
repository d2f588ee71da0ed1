package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking/internal/utils"
)

const (
	// VisitorCookie carries the visitor token for browser clients.
	VisitorCookie = "visitor_token"
	// VisitorHeader returns a newly minted or refreshed token to API clients.
	VisitorHeader = "X-Visitor-Token"

	visitorKey = "visitor_id"
)

// Visitor resolves the anonymous visitor behind a request.  The token is
// read from "Authorization: Bearer" first, then from the visitor cookie.  A
// missing or invalid token is replaced by a fresh one, and a token in the
// last quarter of its lifetime is re-signed for the same visitor.  Either
// way the new token is sent back in the X-Visitor-Token header and the
// cookie.  Handlers read the id with VisitorID.
func Visitor(secret string, ttl time.Duration, secureCookie bool, logger *zap.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := utils.ParseVisitorToken(secret, rawVisitorToken(c.Request()))
			switch {
			case err != nil:
				tok, err = utils.NewVisitorToken(secret, ttl)
			case time.Until(tok.Exp) < ttl/4:
				tok, err = utils.SignVisitorToken(secret, tok.VisitorID, ttl)
			default:
				c.Set(visitorKey, tok.VisitorID)
				return next(c)
			}
			if err != nil {
				logger.Error("sign visitor token", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue visitor token"})
			}

			c.Response().Header().Set(VisitorHeader, tok.Token)
			c.SetCookie(&http.Cookie{
				Name:     VisitorCookie,
				Value:    tok.Token,
				Path:     "/",
				Expires:  tok.Exp,
				HttpOnly: true,
				Secure:   secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(visitorKey, tok.VisitorID)
			return next(c)
		}
	}
}

func rawVisitorToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if ck, err := r.Cookie(VisitorCookie); err == nil {
		return ck.Value
	}
	return ""
}

// VisitorID returns the id set by Visitor, or "" outside it.
func VisitorID(c echo.Context) string {
	if s, ok := c.Get(visitorKey).(string); ok {
		return s
	}
	return ""
}
