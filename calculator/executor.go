package calculator

import (
	"context"
	"sync"

	"firecalc/history"

	log "github.com/sirupsen/logrus"
)

// Job 批量计算中的一个工况
type Job struct {
	Name      string
	Parameter *Parameter
	Method    Method
}

type BatchResult struct {
	Name    string
	Method  Method
	History *history.History
	Err     error
}

type task struct {
	index int
	job   Job
}

// 固定数量 worker 的任务分配
type executor struct {
	dispatchChan chan task
	workers      int
	results      []BatchResult
}

func newExecutor(workers, jobs int) *executor {
	if workers < 1 {
		workers = 1
	}
	if workers > jobs && jobs > 0 {
		workers = jobs
	}
	return &executor{
		dispatchChan: make(chan task, workers),
		workers:      workers,
		results:      make([]BatchResult, jobs),
	}
}

func (e *executor) run(ctx context.Context) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for t := range e.dispatchChan {
				log.WithFields(log.Fields{"worker": i, "job": t.job.Name}).Debug("获取到任务")
				h, err := Run(ctx, t.job.Parameter, t.job.Method)
				e.results[t.index] = BatchResult{Name: t.job.Name, Method: t.job.Method, History: h, Err: err}
			}
		}(i)
	}
	return &wg
}

// dispatchTask 分配全部任务，ctx 取消后未分配的任务直接记录取消错误
func (e *executor) dispatchTask(ctx context.Context, jobs []Job) {
	defer close(e.dispatchChan)
	for i, job := range jobs {
		select {
		case e.dispatchChan <- task{index: i, job: job}:
		case <-ctx.Done():
			for k := i; k < len(jobs); k++ {
				e.results[k] = BatchResult{Name: jobs[k].Name, Method: jobs[k].Method, History: history.New(), Err: ctx.Err()}
			}
			return
		}
	}
}

// RunBatch 并发计算多个相互独立的工况，结果顺序与 jobs 一致，
// 单个工况失败不影响其他工况
func RunBatch(ctx context.Context, jobs []Job, workers int) []BatchResult {
	e := newExecutor(workers, len(jobs))
	wg := e.run(ctx)
	e.dispatchTask(ctx, jobs)
	wg.Wait()
	return e.results
}
