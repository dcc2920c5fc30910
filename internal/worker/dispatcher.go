package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull 队列已满，任务被丢弃
var ErrQueueFull = errors.New("task queue full")

// ErrStopped 调度器已关闭
var ErrStopped = errors.New("dispatcher stopped")

// Task 后台任务，Name 用于日志
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher 有界队列 + 固定数量 worker
// 请求路径只做非阻塞投递，任务失败不会影响已经返回的响应
type Dispatcher struct {
	tasks   chan Task
	errs    chan error
	timeout time.Duration
	logger  *zap.Logger

	wg      sync.WaitGroup
	drainWG sync.WaitGroup
	mu      sync.RWMutex
	stopped bool

	dropped atomic.Int64
}

func NewDispatcher(queueSize, workers int, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	d := &Dispatcher{
		tasks:   make(chan Task, queueSize),
		errs:    make(chan error, queueSize),
		timeout: timeout,
		logger:  logger,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	d.drainWG.Add(1)
	go d.drainErrors()
	return d
}

// Submit 非阻塞投递
func (d *Dispatcher) Submit(task Task) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.tasks <- task:
		return nil
	default:
		d.dropped.Add(1)
		d.logger.Warn("Task queue full, dropping task",
			zap.String("task", task.Name),
			zap.Int("queue_size", cap(d.tasks)),
		)
		return ErrQueueFull
	}
}

// Dropped 累计丢弃的任务数
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for task := range d.tasks {
		d.run(task)
	}
}

func (d *Dispatcher) run(task Task) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			d.report(fmt.Errorf("task %s panicked: %v", task.Name, r))
		}
	}()

	if err := task.Run(ctx); err != nil {
		d.report(fmt.Errorf("task %s: %w", task.Name, err))
	}
}

func (d *Dispatcher) report(err error) {
	select {
	case d.errs <- err:
	default:
		// 错误通道满时直接记录
		d.logger.Error("Background task failed", zap.Error(err))
	}
}

func (d *Dispatcher) drainErrors() {
	defer d.drainWG.Done()
	for err := range d.errs {
		d.logger.Error("Background task failed", zap.Error(err))
	}
}

// Shutdown 停止接收新任务，等待队列中的任务执行完毕或 ctx 结束
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.tasks)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(d.errs)
		d.drainWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn("Dispatcher shutdown timed out", zap.Int("pending", len(d.tasks)))
		return ctx.Err()
	}
}
