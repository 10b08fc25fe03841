package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"cuisine-classifier/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// dedupCache 記錄最近的請求指紋
type dedupCache struct {
	mu       sync.Mutex
	requests map[string]time.Time
	window   time.Duration
}

// sweep 移除超過 10 個窗口的紀錄
func (d *dedupCache) sweep(now time.Time) {
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
		}
	}
}

// seen 回傳指紋是否在窗口內出現過，並更新時間
func (d *dedupCache) seen(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.requests) > 1024 {
		d.sweep(now)
	}

	last, exists := d.requests[fingerprint]
	d.requests[fingerprint] = now
	return exists && now.Sub(last) <= d.window
}

// Deduplication 拒絕 window 內重複的 POST 請求（相同路徑與請求體）
func Deduplication(window time.Duration) gin.HandlerFunc {
	cache := &dedupCache{
		requests: make(map[string]time.Time),
		window:   window,
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			common.LogError("Failed to read request body", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeInvalidRequest,
				Message: "failed to read request body",
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		hash := sha256.Sum256(body)
		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(hash[:])

		if cache.seen(fingerprint, time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: "duplicate request",
			})
			return
		}

		c.Next()
	}
}
