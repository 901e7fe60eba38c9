package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ic-timon/arraytree/arraytree"
	"github.com/ic-timon/arraytree/bench/gen"
	"github.com/ic-timon/arraytree/bench/metrics"
)

type stageCParams struct {
	size          int
	totalRequests int
	concurrencies []int
}

var stageCDefaults = stageCParams{
	size:          2_000_000,
	totalRequests: 400,
	concurrencies: []int{1, 4, 8, 16},
}

type searchFunc func(ctx context.Context, target int32) (bool, error)

// runStageC 并发查询：串行扫描 vs worker 池并行扫描
func runStageC(opts stageOpts, stdout io.Writer) error {
	return stageC(opts, stdout, stageCDefaults)
}

func stageC(opts stageOpts, stdout io.Writer, p stageCParams) error {
	workers := opts.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	cfg := arraytree.DefaultConfig()
	cfg.Capacity = arraytree.RightChild(p.size) + 1
	cfg.UseOffheap = opts.offheap
	cfg.SearchWorkers = workers
	cfg.Logger = opts.log
	tree, err := arraytree.NewTree(cfg)
	if err != nil {
		return err
	}
	defer tree.Close()

	fmt.Fprintf(stdout, "阶段 C: 构建规模 %d workers=%d offheap=%v...\n", p.size, workers, opts.offheap)
	t0 := time.Now()
	if err := tree.Build(p.size); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "  构建耗时 %.0fms\n", metrics.Ms(time.Since(t0)))

	queries := gen.Targets(p.totalRequests, p.size, 0.5, 12345)
	modes := []struct {
		name   string
		search searchFunc
	}{
		{"serial", func(_ context.Context, target int32) (bool, error) { return tree.Contains(target), nil }},
		{"parallel", tree.ContainsParallel},
	}

	var rows []metrics.StageCRow
	for _, mode := range modes {
		for _, concurrency := range p.concurrencies {
			fmt.Fprintf(stdout, "阶段 C: %s 并发数 %d\n", mode.name, concurrency)
			start := time.Now()
			durations, err := runClients(context.Background(), mode.search, queries, concurrency)
			if err != nil {
				return err
			}
			elapsed := time.Since(start).Seconds()
			stats := metrics.LatencyStatsFromDurations(durations)
			row := metrics.StageCRow{
				Mode:         mode.name,
				Concurrency:  concurrency,
				Size:         p.size,
				SearchP50Ms:  stats.P50Ms,
				SearchP95Ms:  stats.P95Ms,
				SearchP99Ms:  stats.P99Ms,
				NumGoroutine: metrics.Take().NumGoroutine,
			}
			if elapsed > 0 {
				row.QPS = float64(len(queries)) / elapsed
			}
			rows = append(rows, row)
			fmt.Fprintf(stdout, "  QPS=%.0f P50=%.2fms P99=%.2fms\n", row.QPS, row.SearchP50Ms, row.SearchP99Ms)
		}
	}
	return writeReport(opts, stdout, "bench_report_stage_c_", rows, func(path string) error {
		return metrics.WriteStageCCSV(rows, path)
	})
}

// runClients 以 concurrency 个客户端分片执行 queries，返回每个请求的耗时
func runClients(ctx context.Context, search searchFunc, queries []int32, concurrency int) ([]time.Duration, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	durations := make([]time.Duration, len(queries))
	reqPerWorker := (len(queries) + concurrency - 1) / concurrency
	g, ctx := errgroup.WithContext(ctx)
	for c := 0; c < concurrency; c++ {
		base := c * reqPerWorker
		if base >= len(queries) {
			break
		}
		end := min(base+reqPerWorker, len(queries))
		g.Go(func() error {
			for i := base; i < end; i++ {
				t1 := time.Now()
				if _, err := search(ctx, queries[i]); err != nil {
					return err
				}
				durations[i] = time.Since(t1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return durations, nil
}
