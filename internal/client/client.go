// Package client 菜系預測 API 的 HTTP 客戶端
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cuisine-classifier/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client 預測服務客戶端
type Client struct {
	client *resty.Client
}

// New 創建客戶端
func New(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// APIError 服務端回傳的錯誤
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("classifier returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("classifier returned %d %s: %s", e.Status, e.Code, e.Message)
}

// Predict 送出食譜並取回預測，順序與輸入一致
func (c *Client) Predict(ctx context.Context, recipes []common.Recipe) ([]common.Prediction, error) {
	if recipes == nil {
		recipes = []common.Recipe{}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(common.PredictRequest{Recipes: recipes}).
		Post("/api/v1/cuisine/predict")
	if err != nil {
		return nil, fmt.Errorf("failed to send predict request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, parseAPIError(resp)
	}

	var result common.PredictResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse predict response: %w", err)
	}
	if len(result.Predictions) != len(recipes) {
		return nil, fmt.Errorf("got %d predictions for %d recipes", len(result.Predictions), len(recipes))
	}

	common.LogDebug("Predictions received",
		zap.Int("count", len(result.Predictions)),
		zap.String("request_id", result.RequestID),
	)

	return result.Predictions, nil
}

// Ready 檢查服務是否已可預測
func (c *Client) Ready(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/ready")
	if err != nil {
		return fmt.Errorf("failed to reach classifier: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return parseAPIError(resp)
	}
	return nil
}

func parseAPIError(resp *resty.Response) error {
	apiErr := &APIError{Status: resp.StatusCode()}

	var body common.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(resp.String())
	return apiErr
}
