package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramcandoit/mlsecops-application/internal/platform/config"
	"github.com/tramcandoit/mlsecops-application/internal/platform/ratelimit"
	"github.com/tramcandoit/mlsecops-application/pkg/requestcontext"
	"github.com/tramcandoit/mlsecops-application/pkg/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates an id when absent", func(t *testing.T) {
		var seen string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.RequestID(r.Context())
		})

		rr := testutil.DoRequest(RequestID(inner), testutil.NewRequest(t, http.MethodGet, "/"))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	})

	t.Run("honors an upstream id", func(t *testing.T) {
		var seen string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.RequestID(r.Context())
		})

		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("X-Request-ID", "upstream-1")
		testutil.DoRequest(RequestID(inner), req)

		assert.Equal(t, "upstream-1", seen)
	})
}

func TestClientMetadata(t *testing.T) {
	t.Run("prefers forwarded-for over remote addr", func(t *testing.T) {
		var ip string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip = requestcontext.ClientIP(r.Context())
		})

		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		testutil.DoRequest(ClientMetadata(inner), req)

		assert.Equal(t, "203.0.113.7", ip)
	})

	t.Run("parses the device OS from the user agent", func(t *testing.T) {
		var deviceOS, rawUA string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceOS = requestcontext.DeviceOS(r.Context())
			rawUA = requestcontext.UserAgent(r.Context())
		})

		const chromeOnLinux = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("User-Agent", chromeOnLinux)
		testutil.DoRequest(ClientMetadata(inner), req)

		assert.Equal(t, chromeOnLinux, rawUA)
		assert.Equal(t, "Linux", deviceOS)
	})
}

func TestRequireAdmin(t *testing.T) {
	const signingKey = "test-admin-key"

	signToken := func(t *testing.T, key string, exp time.Time) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "reviewer",
			"exp": exp.Unix(),
		}).SignedString([]byte(key))
		require.NoError(t, err)
		return token
	}

	t.Run("empty key disables the check", func(t *testing.T) {
		rr := testutil.DoRequest(
			RequireAdmin("", discardLogger())(okHandler()),
			testutil.NewRequest(t, http.MethodGet, "/admin/users-data"),
		)
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		rr := testutil.DoRequest(
			RequireAdmin(signingKey, discardLogger())(okHandler()),
			testutil.NewRequest(t, http.MethodGet, "/admin/users-data"),
		)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertJSONContains(t, rr, "success", false)
	})

	t.Run("valid token passes", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/users-data")
		req.Header.Set("Authorization", "Bearer "+signToken(t, signingKey, time.Now().Add(time.Hour)))

		rr := testutil.DoRequest(RequireAdmin(signingKey, discardLogger())(okHandler()), req)
		testutil.AssertStatusOK(t, rr)
	})

	t.Run("token signed with the wrong key is rejected", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/users-data")
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other-key", time.Now().Add(time.Hour)))

		rr := testutil.DoRequest(RequireAdmin(signingKey, discardLogger())(okHandler()), req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/users-data")
		req.Header.Set("Authorization", "Bearer "+signToken(t, signingKey, time.Now().Add(-time.Hour)))

		rr := testutil.DoRequest(RequireAdmin(signingKey, discardLogger())(okHandler()), req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestRateLimit(t *testing.T) {
	newLimited := func(limit int) http.Handler {
		cfg := config.RateLimitConfig{Enabled: true, Limit: limit, Window: time.Minute}
		chain := ClientMetadata(RateLimit(ratelimit.NewInMemoryStore(), cfg, discardLogger())(okHandler()))
		return chain
	}

	t.Run("allows requests under the limit with headers", func(t *testing.T) {
		handler := newLimited(2)

		rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodPost, "/register"))
		testutil.AssertStatusOK(t, rr)
		assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejects requests over the limit", func(t *testing.T) {
		handler := newLimited(2)

		for range 2 {
			rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodPost, "/register"))
			testutil.AssertStatusOK(t, rr)
		}

		rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodPost, "/register"))
		testutil.AssertStatus(t, rr, http.StatusTooManyRequests)
		assert.NotEmpty(t, rr.Header().Get("Retry-After"))
		testutil.AssertJSONContains(t, rr, "success", false)
	})

	t.Run("disabled config passes everything through", func(t *testing.T) {
		cfg := config.RateLimitConfig{Enabled: false, Limit: 1, Window: time.Minute}
		handler := ClientMetadata(RateLimit(ratelimit.NewInMemoryStore(), cfg, discardLogger())(okHandler()))

		for range 5 {
			rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodPost, "/register"))
			testutil.AssertStatusOK(t, rr)
		}
	})
}
