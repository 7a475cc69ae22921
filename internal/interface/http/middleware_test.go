package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-helloworld/internal/infra/config"
)

func TestIPRateLimiterRefillsAndForgets(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute, Burst: 2})
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("1.1.1.1"))
	require.False(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("2.2.2.2"))

	now = now.Add(30 * time.Second)
	require.True(t, limiter.allow("1.1.1.1"))
	require.False(t, limiter.allow("1.1.1.1"))

	now = now.Add(2 * time.Minute)
	require.True(t, limiter.allow("3.3.3.3"))
	require.Len(t, limiter.visitors, 1)
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"bearer", map[string]string{"Authorization": "Bearer abc"}, "abc"},
		{"bare", map[string]string{"Authorization": " abc "}, "abc"},
		{"x-auth-token", map[string]string{"X-Auth-Token": "xyz"}, "xyz"},
		{"authorization wins", map[string]string{"Authorization": "Bearer abc", "X-Auth-Token": "xyz"}, "abc"},
		{"none", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			require.Equal(t, tc.want, extractToken(c))
		})
	}
}

func TestAllowAllOrigins(t *testing.T) {
	require.True(t, allowAll(nil))
	require.True(t, allowAll([]string{"http://a", "*"}))
	require.False(t, allowAll([]string{"http://a", "http://b"}))
}

func TestStaticFileStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("ok"), 0o644))

	file, ok := staticFile(dir, "/index.html")
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "index.html"), file)

	_, ok = staticFile(dir, "/../../etc/passwd")
	require.False(t, ok)
	_, ok = staticFile(dir, "/")
	require.False(t, ok)
}
