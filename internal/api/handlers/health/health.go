package health

import (
	"net/http"
	"runtime"
	"time"

	"cuisine-classifier/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModelStatus 模型狀態來源
type ModelStatus interface {
	Ready() bool
	Info() map[string]interface{}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Model     map[string]interface{} `json:"model,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	version string
	status  ModelStatus
}

// NewHandler 創建健康檢查處理器
func NewHandler(version string, status ModelStatus) *Handler {
	return &Handler{version: version, status: status}
}

// HealthCheck 回傳執行期與模型資訊
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.status != nil {
		response.Model = h.status.Info()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 模型訓練完成前回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.status == nil || !h.status.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"code":   common.ErrCodeModelNotFitted,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
