// Package model 菜系分類管線：兩組 TF-IDF 特徵串接後以線性 SVM 分類
package model

import (
	"fmt"
	"math"
	"sync"
	"time"

	"cuisine-classifier/internal/core/cuisine"
	"cuisine-classifier/internal/infrastructure/config"
	"cuisine-classifier/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	// IngredientFeatures 整個食材當作一個詞的特徵組
	IngredientFeatures = "ingrs"
	// WordFeatures 食材串接後的詞組特徵組
	WordFeatures = "words"
)

// Options 管線參數
type Options struct {
	NgramMin     int
	NgramMax     int
	StripAccents bool
	SVM          SVMOptions
}

// DefaultOptions 預設參數：1~4 詞組、hinge loss、C = 10^0.1
func DefaultOptions() Options {
	return Options{
		NgramMin: 1,
		NgramMax: 4,
		SVM: SVMOptions{
			Loss:    HingeLoss,
			C:       math.Pow(10, 0.1),
			Tol:     1e-4,
			MaxIter: 1000,
			Seed:    1,
		},
	}
}

// OptionsFromConfig 由設定建立管線參數
func OptionsFromConfig(cfg config.ModelConfig) Options {
	return Options{
		NgramMin:     cfg.NgramMin,
		NgramMax:     cfg.NgramMax,
		StripAccents: cfg.StripAccents,
		SVM: SVMOptions{
			Loss:    Loss(cfg.Loss),
			C:       cfg.C,
			Tol:     cfg.Tol,
			MaxIter: cfg.MaxIter,
			Seed:    cfg.Seed,
		},
	}
}

// Pipeline 菜系分類管線。Fit 完成後 Predict 可並行呼叫。
type Pipeline struct {
	opts Options

	mu       sync.RWMutex
	features *FeatureUnion
	clf      *LinearSVC
}

// New 建立尚未訓練的管線
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Fit 以 tokenLists 與 extra 擬合特徵空間，再以 tokenLists 與 labels 訓練分類器。
// extra 只影響詞彙表與文件頻率，不提供標籤。
func (p *Pipeline) Fit(tokenLists [][]string, labels []string, extra [][]string) error {
	if len(tokenLists) == 0 {
		return ErrNoSamples
	}
	if len(tokenLists) != len(labels) {
		return fmt.Errorf("got %d token lists but %d labels", len(tokenLists), len(labels))
	}

	features := NewFeatureUnion(
		NewTfidfVectorizer(IngredientFeatures, IngredientAnalyzer(p.opts.StripAccents)),
		NewTfidfVectorizer(WordFeatures, WordNgramAnalyzer(p.opts.NgramMin, p.opts.NgramMax, p.opts.StripAccents)),
	)

	corpus := tokenLists
	if len(extra) > 0 {
		corpus = make([][]string, 0, len(tokenLists)+len(extra))
		corpus = append(corpus, tokenLists...)
		corpus = append(corpus, extra...)
	}

	start := time.Now()
	if err := features.Fit(corpus); err != nil {
		return err
	}
	common.LogDebug("Features fitted",
		zap.Int("documents", len(corpus)),
		zap.Int("ingredient_features", features.Sizes()[IngredientFeatures]),
		zap.Int("word_features", features.Sizes()[WordFeatures]),
		zap.Duration("耗時", time.Since(start)),
	)

	start = time.Now()
	clf := NewLinearSVC(p.opts.SVM)
	if err := clf.Fit(features.Transform(tokenLists), labels, features.Size()); err != nil {
		return err
	}
	common.LogDebug("Classifier fitted",
		zap.Int("samples", len(tokenLists)),
		zap.Int("classes", len(clf.Classes())),
		zap.Duration("耗時", time.Since(start)),
	)

	p.mu.Lock()
	p.features = features
	p.clf = clf
	p.mu.Unlock()
	return nil
}

// Predict 每筆 token 列表回傳一個類別，順序與輸入一致
func (p *Pipeline) Predict(tokenLists [][]string) ([]string, error) {
	p.mu.RLock()
	features, clf := p.features, p.clf
	p.mu.RUnlock()

	if clf == nil {
		return nil, common.ErrModelNotFitted
	}
	return clf.Predict(features.Transform(tokenLists)), nil
}

// FitRecipes 由食譜記錄擬合；extra 為無標籤資料，只用於豐富特徵空間
func (p *Pipeline) FitRecipes(train, extra []common.Recipe) error {
	labels, err := cuisine.ExtractLabels(train)
	if err != nil {
		return err
	}
	var extraTokens [][]string
	if len(extra) > 0 {
		extraTokens = cuisine.ExtractIngredients(extra)
	}
	return p.Fit(cuisine.ExtractIngredients(train), labels, extraTokens)
}

// PredictRecipes 預測並附上食譜 id
func (p *Pipeline) PredictRecipes(records []common.Recipe) ([]common.Prediction, error) {
	labels, err := p.Predict(cuisine.ExtractIngredients(records))
	if err != nil {
		return nil, err
	}
	out := make([]common.Prediction, len(records))
	for i, r := range records {
		out[i] = common.Prediction{ID: r.ID, Cuisine: labels[i]}
	}
	return out, nil
}

// Fitted 是否已完成訓練
func (p *Pipeline) Fitted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clf != nil
}

// Classes 訓練後的類別，未訓練時為 nil
func (p *Pipeline) Classes() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.clf == nil {
		return nil
	}
	return append([]string(nil), p.clf.Classes()...)
}

// FeatureSizes 各特徵組維度，未訓練時為 nil
func (p *Pipeline) FeatureSizes() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.features == nil {
		return nil
	}
	return p.features.Sizes()
}
