package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinozal/ticket-office/internal/config"
)

func newTestContext(t *testing.T, header http.Header) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/tickets", nil)
	if header != nil {
		req.Header = header
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func bearerFor(t *testing.T, sub interface{}) http.Header {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "role": "CUSTOMER"})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	h := http.Header{}
	h.Set("Authorization", "Bearer "+signed)
	return h
}

func TestRequestUserID(t *testing.T) {
	t.Run("reads user_id set by JWTAuth", func(t *testing.T) {
		for _, v := range []interface{}{uint64(42), int64(42), 42, float64(42), "42"} {
			c := newTestContext(t, nil)
			c.Set("user_id", v)
			assert.Equal(t, "42", requestUserID(c), "claim type %T", v)
		}
	})

	t.Run("falls back to bearer claims before JWTAuth has run", func(t *testing.T) {
		c := newTestContext(t, bearerFor(t, 42))
		assert.Equal(t, "42", requestUserID(c))
	})

	t.Run("anonymous without token", func(t *testing.T) {
		c := newTestContext(t, nil)
		assert.Equal(t, "anon", requestUserID(c))
	})
}

func TestBuildRateKeyUsesUserIdentity(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}

	c := newTestContext(t, bearerFor(t, 42))
	assert.Equal(t, "rl:user:42", buildRateKey(cfg, c))

	// Authenticated requests must not collapse into the anonymous bucket.
	anon := newTestContext(t, nil)
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, anon))
}
