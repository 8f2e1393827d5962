package utils

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"smartTraffic/log"
)

// WorkerPool 表示一个工作池
type WorkerPool struct {
	jobs    chan func()
	wg      sync.WaitGroup
	workers int
	mu      sync.RWMutex // 保护closed与jobs的关闭
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorkerPool 创建一个新的工作池
func NewWorkerPool(workers int) *WorkerPool {
	return NewWorkerPoolWithContext(context.Background(), workers)
}

// NewWorkerPoolWithContext 创建一个新的工作池
// ctx取消后不再接受新任务，已接受的任务仍会执行完毕
func NewWorkerPoolWithContext(ctx context.Context, workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(ctx)
	pool := &WorkerPool{
		jobs:    make(chan func(), workers*2), // 缓冲区大小为工作者数量的2倍
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
	pool.start()
	return pool
}

func (p *WorkerPool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			// 只在jobs关闭且取空后退出
			for job := range p.jobs {
				run(job)
			}
		}()
	}

	go func() {
		<-p.ctx.Done()
		p.close()
	}()
}

// close 关闭任务通道，等待持有读锁的Submit返回
func (p *WorkerPool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.jobs)
}

// run 执行任务，任务中的panic写入日志而不终止工作协程
func run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Logger().Error(fmt.Sprintf("panic in worker pool job: %v", r))
		}
	}()
	job()
}

// Submit 提交一个任务到工作池
// 如果工作池已关闭，返回false，否则返回true
func (p *WorkerPool) Submit(job func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.ctx.Err() != nil {
		return false
	}

	select {
	case p.jobs <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Workers 返回工作协程数量
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Stop 停止工作池
// 已提交的任务执行完毕后返回，可重复调用
func (p *WorkerPool) Stop() {
	p.close()
	p.wg.Wait()
	p.cancel()
}
