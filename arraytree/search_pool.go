package arraytree

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ic-timon/arraytree/scan"
)

// scanResult tracks the lowest matching index across jobs.
type scanResult struct {
	first atomic.Int64
}

func newScanResult() *scanResult {
	r := &scanResult{}
	r.first.Store(math.MaxInt64)
	return r
}

func (r *scanResult) offer(i int) {
	for {
		cur := r.first.Load()
		if int64(i) >= cur || r.first.CompareAndSwap(cur, int64(i)) {
			return
		}
	}
}

func (r *scanResult) index() int {
	if v := r.first.Load(); v != math.MaxInt64 {
		return int(v)
	}
	return -1
}

// scanJob 单个分块扫描任务
type scanJob struct {
	ctx    context.Context
	data   []int32
	base   int
	target int32
	res    *scanResult
	wg     *sync.WaitGroup
}

func (j *scanJob) run() {
	if j.ctx.Err() != nil {
		return
	}
	// a lower chunk already matched
	if int64(j.base) >= j.res.first.Load() {
		return
	}
	if idx := scan.IndexOf(j.data, j.target); idx >= 0 {
		j.res.offer(j.base + idx)
	}
}

// scanPool 常驻 worker 池，分块并行扫描
type scanPool struct {
	jobs chan scanJob
	wg   sync.WaitGroup
}

func newScanPool(nWorkers, bufSize int) *scanPool {
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	p := &scanPool{
		jobs: make(chan scanJob, bufSize),
	}
	for i := 0; i < nWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *scanPool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job.run()
		job.wg.Done()
	}
}

// Close 关闭池，等待所有 worker 退出
func (p *scanPool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// IndexOfParallel returns the same index as IndexOf, scanning chunks of
// Config.ChunkSlots slots on the scan pool. Chunks above an already found
// match are skipped. Without a pool (SearchWorkers == 0) it scans serially.
func (t *Tree) IndexOfParallel(ctx context.Context, target int32) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	if t.searchPool == nil {
		return t.IndexOf(target), nil
	}
	if target == Sentinel {
		return -1, nil
	}
	d := t.slots.Data()
	if len(d) == 0 {
		return -1, nil
	}
	d = d[:t.highWater+1]
	chunk := t.cfg.ChunkSlots
	res := newScanResult()
	var wg sync.WaitGroup
	for base := 0; base < len(d); base += chunk {
		end := min(base+chunk, len(d))
		wg.Add(1)
		select {
		case t.searchPool.jobs <- scanJob{ctx: ctx, data: d[base:end], base: base, target: target, res: res, wg: &wg}:
		case <-ctx.Done():
			wg.Done()
			wg.Wait()
			t.log.LogSearch(ctx, target, -1, ctx.Err())
			return -1, ctx.Err()
		}
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		t.log.LogSearch(ctx, target, -1, err)
		return -1, err
	}
	idx := res.index()
	t.log.LogSearch(ctx, target, idx, nil)
	return idx, nil
}

// ContainsParallel is the pool-backed counterpart of Contains.
func (t *Tree) ContainsParallel(ctx context.Context, target int32) (bool, error) {
	idx, err := t.IndexOfParallel(ctx, target)
	return idx >= 0, err
}
