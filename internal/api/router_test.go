package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cuisine-classifier/internal/core/model"
	"cuisine-classifier/internal/core/prediction"
	"cuisine-classifier/internal/infrastructure/config"
	"cuisine-classifier/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Version: "test"},
		Server: config.ServerConfig{MaxBodyBytes: 1 << 20, RequestTimeout: 5 * time.Second},
	}
}

func fittedPipeline(t *testing.T) *model.Pipeline {
	t.Helper()
	p := model.New(model.DefaultOptions())
	train := []common.Recipe{
		common.NewLabeledRecipe(1, "greek", "feta cheese", "kalamata olives", "oregano"),
		common.NewLabeledRecipe(2, "greek", "feta cheese", "cucumber", "greek yogurt"),
		common.NewLabeledRecipe(3, "thai", "fish sauce", "lemongrass", "coconut milk"),
		common.NewLabeledRecipe(4, "thai", "fish sauce", "thai basil", "lime"),
	}
	require.NoError(t, p.FitRecipes(train, nil))
	return p
}

func newTestRouter(t *testing.T, p *model.Pipeline) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := SetupRouter(testConfig(), prediction.NewService(p, nil, nil))
	require.NoError(t, err)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredictRoute(t *testing.T) {
	router := newTestRouter(t, fittedPipeline(t))

	w := doJSON(router, http.MethodPost, "/api/v1/cuisine/predict",
		`{"recipes":[{"id":10,"ingredients":["Feta Cheese","oregano"]},{"id":11,"ingredients":["fish sauce","lime"]}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp common.PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []common.Prediction{
		{ID: 10, Cuisine: "greek"},
		{ID: 11, Cuisine: "thai"},
	}, resp.Predictions)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, w.Header().Get("X-Request-ID"))
}

func TestPredictRouteErrors(t *testing.T) {
	router := newTestRouter(t, fittedPipeline(t))

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"invalid json", `{"recipes":`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"trailing data", `{"recipes":[]} {}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"missing recipes", `{}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"missing ingredients", `{"recipes":[{"id":1}]}`, http.StatusBadRequest, common.ErrCodeMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/v1/cuisine/predict", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp common.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestPredictRouteEmptyBatch(t *testing.T) {
	router := newTestRouter(t, fittedPipeline(t))

	w := doJSON(router, http.MethodPost, "/api/v1/cuisine/predict", `{"recipes":[]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp common.PredictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Predictions)
}

func TestPredictRouteNotFitted(t *testing.T) {
	router := newTestRouter(t, model.New(model.DefaultOptions()))

	w := doJSON(router, http.MethodPost, "/api/v1/cuisine/predict", `{"recipes":[{"id":1,"ingredients":["salt"]}]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, common.ErrCodeModelNotFitted, resp.Code)

	w = doJSON(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCleanRoute(t *testing.T) {
	router := newTestRouter(t, fittedPipeline(t))

	w := doJSON(router, http.MethodPost, "/api/v1/cuisine/clean",
		`{"ingredients":["Salt & Pepper","(10 oz.) frozen chopped spinach","Kraft Zesty Italian Dressing"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp common.CleanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"salt and pepper", "frozen chopped spinach", "kraft zesty italian dressing"}, resp.Ingredients)
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, fittedPipeline(t))

	w := doJSON(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "test", resp["version"])
	modelInfo, ok := resp["model"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"greek", "thai"}, modelInfo["classes"])

	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/live", "").Code)
}

func TestBodySizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 16
	router, err := SetupRouter(cfg, prediction.NewService(fittedPipeline(t), nil, nil))
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/api/v1/cuisine/predict", `{"recipes":[{"id":1,"ingredients":["salt"]}]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSetupRouterRequiresService(t *testing.T) {
	_, err := SetupRouter(testConfig(), nil)
	assert.Error(t, err)
}

func TestCleanRouteRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t, fittedPipeline(t))

	w := doJSON(router, http.MethodPost, "/api/v1/cuisine/clean", `{"ingredient":["salt"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
