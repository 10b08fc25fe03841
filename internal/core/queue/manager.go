// Package queue 有界的預測工作隊列與 worker pool
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"cuisine-classifier/internal/infrastructure/config"
	"cuisine-classifier/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrClosed 隊列已關閉
var ErrClosed = errors.New("queue manager is closed")

// Job 一批待預測的 token 列表
type Job struct {
	Context    context.Context
	TokenLists [][]string
	Result     chan Result
}

// Result 處理結果
type Result struct {
	Labels []string
	Error  error
}

// Handler 處理單一工作
type Handler func(ctx context.Context, tokenLists [][]string) ([]string, error)

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 隊列管理器
type Manager struct {
	config    config.QueueConfig
	queue     chan *Job
	done      chan struct{}
	processed int64
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	return &Manager{
		config: cfg,
		queue:  make(chan *Job, cfg.MaxSize),
		done:   make(chan struct{}),
	}
}

// Start 啟動 workers
func (m *Manager) Start(handler Handler) {
	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i, handler)
	}
	common.LogInfo("Prediction queue started",
		zap.Int("workers", m.config.Workers),
		zap.Int("max_queue_size", m.config.MaxSize),
	)
}

func (m *Manager) worker(id int, handler Handler) {
	defer m.wg.Done()
	for {
		select {
		case job := <-m.queue:
			m.process(id, job, handler)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) process(id int, job *Job, handler Handler) {
	if err := job.Context.Err(); err != nil {
		job.Result <- Result{Error: err}
		return
	}
	labels, err := handler(job.Context, job.TokenLists)
	atomic.AddInt64(&m.processed, 1)
	if err != nil {
		common.LogWarn("Prediction job failed",
			zap.Int("worker", id),
			zap.Error(err),
		)
	}
	job.Result <- Result{Labels: labels, Error: err}
}

// Enqueue 將工作加入隊列，隊列已滿時回傳 ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, tokenLists [][]string) (<-chan Result, error) {
	job := &Job{
		Context:    ctx,
		TokenLists: tokenLists,
		Result:     make(chan Result, 1),
	}

	select {
	case <-m.done:
		return nil, ErrClosed
	default:
	}

	select {
	case m.queue <- job:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return job.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, common.ErrQueueFull
	}
}

// Submit 加入隊列並等待結果
func (m *Manager) Submit(ctx context.Context, tokenLists [][]string) ([]string, error) {
	result, err := m.Enqueue(ctx, tokenLists)
	if err != nil {
		return nil, err
	}

	select {
	case r := <-result:
		return r.Labels, r.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, ErrClosed
	}
}

// Status 獲取隊列狀態
func (m *Manager) Status() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止 workers 並等待其結束
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.wg.Wait()
	})
}
