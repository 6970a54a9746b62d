package middleware

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// requestUserID returns the authenticated user's ID as a string for keying
// rate limits. JWTAuth stores the sub claim under "user_id", but the limiter
// runs as global middleware before any route group, so when the context key
// is not set yet the bearer token's claims are read directly. The signature
// is deliberately not verified here: the value only buckets traffic, and
// JWTAuth still guards the handlers. Unauthenticated requests key as "anon".
func requestUserID(c echo.Context) string {
	if s := claimString(c.Get("user_id")); s != "" {
		return s
	}
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		raw := strings.TrimPrefix(auth, "Bearer ")
		if tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{}); err == nil {
			if cl, ok := tok.Claims.(jwt.MapClaims); ok {
				if s := claimString(cl["sub"]); s != "" {
					return s
				}
			}
		}
	}
	return "anon"
}

// claimString normalises the representations a decoded JWT subject can take.
func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case uint64:
		return strconv.FormatUint(t, 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatUint(uint64(t), 10)
	}
	return ""
}
