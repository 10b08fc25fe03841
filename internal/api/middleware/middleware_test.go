package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func post(r *gin.Engine, body string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(body)))
	return w.Code
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	now := time.Unix(0, 0)
	rl.now = func() time.Time { return now }
	rl.lastTime = now

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimit(1, time.Hour))

	assert.Equal(t, http.StatusOK, post(r, "a"))
	assert.Equal(t, http.StatusTooManyRequests, post(r, "b"))
}

func TestDeduplication(t *testing.T) {
	r := newEngine(Deduplication(time.Minute))

	assert.Equal(t, http.StatusOK, post(r, `{"recipes":[]}`))
	assert.Equal(t, http.StatusTooManyRequests, post(r, `{"recipes":[]}`))
	assert.Equal(t, http.StatusOK, post(r, `{"recipes":[{"id":1}]}`))
}

func TestBodySizeLimitRejectsDeclaredLength(t *testing.T) {
	r := newEngine(BodySizeLimit(4))

	assert.Equal(t, http.StatusRequestEntityTooLarge, post(r, "too long"))
	assert.Equal(t, http.StatusOK, post(r, "ok"))
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(), Logger())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
