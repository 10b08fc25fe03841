package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"cuisine-classifier/internal/pkg/common"

	"go.uber.org/zap"
)

// Loss 線性 SVM 的損失函數
type Loss string

const (
	// HingeLoss 標準 hinge loss（L1-loss SVM）
	HingeLoss Loss = "hinge"
	// SquaredHingeLoss 平方 hinge loss（L2-loss SVM）
	SquaredHingeLoss Loss = "squared_hinge"
)

var (
	// ErrSingleClass 訓練標籤少於兩類
	ErrSingleClass = errors.New("training data must contain at least two classes")
	// ErrNoSamples 沒有訓練樣本
	ErrNoSamples = errors.New("no training samples")
)

// SVMOptions 線性 SVM 參數
type SVMOptions struct {
	Loss    Loss
	C       float64
	Tol     float64
	MaxIter int
	Seed    int64
}

// binaryMachine 一個二元分類器的權重，最後一維為偏置
type binaryMachine struct {
	w []float64
}

func (m binaryMachine) decision(x SparseVector) float64 {
	return x.Dot(m.w) + m.w[len(m.w)-1]
}

// LinearSVC 以 one-vs-rest 處理多類別的線性最大間隔分類器
type LinearSVC struct {
	opts     SVMOptions
	classes  []string
	machines []binaryMachine
	dim      int
}

// NewLinearSVC 建立分類器
func NewLinearSVC(opts SVMOptions) *LinearSVC {
	return &LinearSVC{opts: opts}
}

// Classes 排序後的類別
func (c *LinearSVC) Classes() []string {
	return c.classes
}

// Fit 訓練。兩類時只訓練一個機器（classes[1] 為正類），多類時每類一個。
func (c *LinearSVC) Fit(X []SparseVector, labels []string, dim int) error {
	if len(X) == 0 {
		return ErrNoSamples
	}
	if len(X) != len(labels) {
		return fmt.Errorf("got %d samples but %d labels", len(X), len(labels))
	}

	classes := uniqueSorted(labels)
	if len(classes) < 2 {
		return ErrSingleClass
	}

	rng := rand.New(rand.NewSource(c.opts.Seed))
	positives := classes
	if len(classes) == 2 {
		positives = classes[1:]
	}

	machines := make([]binaryMachine, 0, len(positives))
	y := make([]float64, len(labels))
	for _, positive := range positives {
		for i, label := range labels {
			if label == positive {
				y[i] = 1
			} else {
				y[i] = -1
			}
		}
		w, iter, converged := c.solveDual(X, y, dim, rng)
		if !converged {
			common.LogWarn("linear SVM did not converge, consider raising max_iter",
				zap.String("class", positive),
				zap.Int("iterations", iter),
			)
		}
		machines = append(machines, binaryMachine{w: w})
	}

	c.classes = classes
	c.machines = machines
	c.dim = dim
	return nil
}

// DecisionFunction 每個機器的決策值
func (c *LinearSVC) DecisionFunction(x SparseVector) []float64 {
	scores := make([]float64, len(c.machines))
	for k, m := range c.machines {
		scores[k] = m.decision(x)
	}
	return scores
}

// Predict 回傳每筆樣本的類別，平手時取排序較前的類別
func (c *LinearSVC) Predict(X []SparseVector) []string {
	out := make([]string, len(X))
	for i, x := range X {
		scores := c.DecisionFunction(x)
		if len(c.classes) == 2 {
			if scores[0] > 0 {
				out[i] = c.classes[1]
			} else {
				out[i] = c.classes[0]
			}
			continue
		}
		best := 0
		for k := 1; k < len(scores); k++ {
			if scores[k] > scores[best] {
				best = k
			}
		}
		out[i] = c.classes[best]
	}
	return out
}

// solveDual 對偶座標下降（含 shrinking），偏置以常數 1 的額外特徵處理並一併正則化
func (c *LinearSVC) solveDual(X []SparseVector, y []float64, dim int, rng *rand.Rand) ([]float64, int, bool) {
	l := len(X)
	w := make([]float64, dim+1)
	alpha := make([]float64, l)
	qd := make([]float64, l)
	index := make([]int, l)

	diag, upper := 0.0, c.opts.C
	if c.opts.Loss == SquaredHingeLoss {
		diag, upper = 0.5/c.opts.C, math.Inf(1)
	}

	for i, x := range X {
		qd[i] = diag + x.SquaredNorm() + 1
		index[i] = i
	}

	pgMaxOld, pgMinOld := math.Inf(1), math.Inf(-1)
	activeSize := l
	iter := 0

	for iter < c.opts.MaxIter {
		pgMaxNew, pgMinNew := math.Inf(-1), math.Inf(1)

		rng.Shuffle(activeSize, func(i, j int) {
			index[i], index[j] = index[j], index[i]
		})

		for s := 0; s < activeSize; s++ {
			i := index[s]
			yi := y[i]

			g := yi*(X[i].Dot(w)+w[dim]) - 1 + alpha[i]*diag

			pg := 0.0
			switch {
			case alpha[i] == 0:
				if g > pgMaxOld {
					activeSize--
					index[s], index[activeSize] = index[activeSize], index[s]
					s--
					continue
				} else if g < 0 {
					pg = g
				}
			case alpha[i] == upper:
				if g < pgMinOld {
					activeSize--
					index[s], index[activeSize] = index[activeSize], index[s]
					s--
					continue
				} else if g > 0 {
					pg = g
				}
			default:
				pg = g
			}

			pgMaxNew = math.Max(pgMaxNew, pg)
			pgMinNew = math.Min(pgMinNew, pg)

			if math.Abs(pg) > 1e-12 {
				old := alpha[i]
				alpha[i] = math.Min(math.Max(alpha[i]-g/qd[i], 0), upper)
				d := (alpha[i] - old) * yi
				X[i].addScaled(w, d)
				w[dim] += d
			}
		}

		iter++

		if pgMaxNew-pgMinNew <= c.opts.Tol {
			if activeSize == l {
				return w, iter, true
			}
			activeSize = l
			pgMaxOld, pgMinOld = math.Inf(1), math.Inf(-1)
			continue
		}

		pgMaxOld, pgMinOld = pgMaxNew, pgMinNew
		if pgMaxOld <= 0 {
			pgMaxOld = math.Inf(1)
		}
		if pgMinOld >= 0 {
			pgMinOld = math.Inf(-1)
		}
	}

	return w, iter, false
}

func uniqueSorted(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	var out []string
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
