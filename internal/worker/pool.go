// Package worker пул горутин для параллельного сравнения пар сторон.
package worker

import (
	"context"
	"runtime"
	"sync"
)

// Pool фиксированное число воркеров, читающих задачи из общей очереди
type Pool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	start    sync.Once
	stop     sync.Once
}

// NewPool создаёт пул; workers <= 0 означает по числу CPU
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Pool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Workers число воркеров
func (p *Pool) Workers() int {
	return p.workers
}

// Start запускает воркеры; повторные вызовы ничего не делают
func (p *Pool) Start() {
	p.start.Do(func() {
		for i := 0; i < p.workers; i++ {
			go p.worker()
		}
	})
}

func (p *Pool) worker() {
	for job := range p.jobQueue {
		job()
		p.wg.Done()
	}
}

// Submit ставит задачу в очередь. Блокируется, пока очередь заполнена,
// или до отмены ctx; в последнем случае задача не выполняется.
func (p *Pool) Submit(ctx context.Context, job func()) error {
	p.wg.Add(1)
	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		p.wg.Done()
		return ctx.Err()
	}
}

// Wait ждёт завершения всех поставленных задач
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close останавливает воркеры после выполнения очереди.
// После Close вызывать Submit нельзя.
func (p *Pool) Close() {
	p.stop.Do(func() {
		close(p.jobQueue)
	})
}
