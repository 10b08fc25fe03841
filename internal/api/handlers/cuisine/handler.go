// Package cuisine 菜系預測 HTTP 處理器
package cuisine

import (
	"context"
	"errors"
	"net/http"

	"cuisine-classifier/internal/core/prediction"
	"cuisine-classifier/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 菜系預測處理器
type Handler struct {
	svc *prediction.Service
}

// NewHandler 創建處理器
func NewHandler(svc *prediction.Service) *Handler {
	return &Handler{svc: svc}
}

// HandlePredict 預測一批食譜的菜系
func (h *Handler) HandlePredict(c *gin.Context) {
	var req common.PredictRequest
	if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
		respondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	if req.Recipes == nil {
		respondError(c, common.NewError(common.ErrCodeInvalidRequest, "recipes is required", http.StatusBadRequest, nil))
		return
	}

	preds, err := h.svc.Predict(c.Request.Context(), req.Recipes)
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("Cuisine predicted",
		zap.Int("recipes", len(preds)),
		zap.String("request_id", requestid.Get(c)),
	)

	c.JSON(http.StatusOK, common.PredictResponse{
		Predictions: preds,
		RequestID:   requestid.Get(c),
	})
}

// HandleClean 回傳清理後的食材字串
func (h *Handler) HandleClean(c *gin.Context) {
	var req common.CleanRequest
	if err := common.DecodeJSONStrict(c.Request.Body, &req); err != nil {
		respondError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, common.CleanResponse{
		Ingredients: h.svc.Clean(req.Ingredients),
	})
}

// respondError 以 CustomError 的狀態碼輸出錯誤
func respondError(c *gin.Context, err error) {
	ce := common.AsCustomError(err)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		ce = common.NewError(common.ErrCodeInvalidRequest, "request body too large", http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, common.ErrMalformedInput):
		ce = common.ErrMalformedInput.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		ce = common.ErrGatewayTimeout.Wrap(err)
	}

	status := ce.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		common.LogError("Request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	}

	c.AbortWithStatusJSON(status, common.ErrorResponse{
		Code:    ce.Code,
		Message: ce.Error(),
	})
}
