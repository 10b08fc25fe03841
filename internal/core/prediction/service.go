// Package prediction 線上預測服務：快取、隊列與分類管線的組合
package prediction

import (
	"context"
	"errors"
	"fmt"

	"cuisine-classifier/internal/core/cache"
	"cuisine-classifier/internal/core/cuisine"
	"cuisine-classifier/internal/core/queue"
	"cuisine-classifier/internal/pkg/common"

	"go.uber.org/zap"
)

// Predictor 已訓練的分類管線
type Predictor interface {
	Predict(tokenLists [][]string) ([]string, error)
	Classes() []string
	FeatureSizes() map[string]int
}

// Service 預測服務
type Service struct {
	predictor Predictor
	store     cache.Store
	queue     *queue.Manager
}

// NewService 創建預測服務；store 與 queue 可為 nil
func NewService(predictor Predictor, store cache.Store, q *queue.Manager) *Service {
	return &Service{
		predictor: predictor,
		store:     store,
		queue:     q,
	}
}

// Handle 供 queue worker 呼叫
func (s *Service) Handle(_ context.Context, tokenLists [][]string) ([]string, error) {
	return s.predictor.Predict(tokenLists)
}

// Predict 依輸入順序回傳預測，先查快取，未命中的一起送入隊列
func (s *Service) Predict(ctx context.Context, recipes []common.Recipe) ([]common.Prediction, error) {
	if err := cuisine.ValidateRecipes(recipes); err != nil {
		return nil, err
	}

	tokenLists := cuisine.ExtractIngredients(recipes)
	preds := make([]common.Prediction, len(recipes))
	keys := make([]string, len(recipes))

	var missIdx []int
	for i, tokens := range tokenLists {
		preds[i].ID = recipes[i].ID
		if s.store == nil {
			missIdx = append(missIdx, i)
			continue
		}
		keys[i] = cache.Key(tokens)
		label, err := s.store.Get(ctx, keys[i])
		if err != nil {
			if !errors.Is(err, cache.ErrMiss) {
				common.LogWarn("Cache lookup failed", zap.Error(err))
			}
			missIdx = append(missIdx, i)
			continue
		}
		preds[i].Cuisine = label
	}

	if len(missIdx) == 0 {
		return preds, nil
	}

	pending := make([][]string, len(missIdx))
	for k, i := range missIdx {
		pending[k] = tokenLists[i]
	}

	labels, err := s.run(ctx, pending)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(pending) {
		return nil, fmt.Errorf("predictor returned %d labels for %d recipes", len(labels), len(pending))
	}

	for k, i := range missIdx {
		preds[i].Cuisine = labels[k]
		if s.store != nil {
			if err := s.store.Set(ctx, keys[i], labels[k]); err != nil {
				common.LogWarn("Cache store failed", zap.Error(err))
			}
		}
	}

	return preds, nil
}

func (s *Service) run(ctx context.Context, tokenLists [][]string) ([]string, error) {
	if s.queue == nil {
		return s.predictor.Predict(tokenLists)
	}
	return s.queue.Submit(ctx, tokenLists)
}

// Clean 清理並轉小寫食材字串
func (s *Service) Clean(ingredients []string) []string {
	out := make([]string, len(ingredients))
	for i, ingredient := range ingredients {
		out[i] = cuisine.CleanLower(ingredient)
	}
	return out
}

// Info 模型資訊
func (s *Service) Info() map[string]interface{} {
	info := map[string]interface{}{
		"classes":  s.predictor.Classes(),
		"features": s.predictor.FeatureSizes(),
	}
	if s.store != nil {
		info["cache"] = s.store.Stats()
	}
	if s.queue != nil {
		info["queue"] = s.queue.Status()
	}
	return info
}

// Ready 模型是否已可預測
func (s *Service) Ready() bool {
	return len(s.predictor.Classes()) > 0
}
