package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ic-timon/arraytree/arraytree"
	"github.com/ic-timon/arraytree/bench/metrics"
)

var stageBScales = []int{100_000, 1_000_000, 10_000_000, 50_000_000}

// runStageB 容量扩展：每个规模独立构建，查找最后写入的槽位（最坏情况）
func runStageB(opts stageOpts, stdout io.Writer) error {
	return stageB(opts, stdout, stageBScales)
}

func stageB(opts stageOpts, stdout io.Writer, scales []int) error {
	var rows []metrics.StageBRow
	for _, n := range scales {
		capacity := arraytree.RightChild(n) + 1
		fmt.Fprintf(stdout, "阶段 B: 规模 %d 容量 %d offheap=%v\n", n, capacity, opts.offheap)

		metrics.GC()

		cfg := arraytree.DefaultConfig()
		cfg.Capacity = capacity
		cfg.UseOffheap = opts.offheap
		cfg.Logger = opts.log
		tree, err := arraytree.NewTree(cfg)
		if err != nil {
			return err
		}

		t0 := opts.clock.Now()
		if err := tree.Build(n); err != nil {
			tree.Close()
			return err
		}
		buildDur := metrics.Since(opts.clock, t0)

		t1 := opts.clock.Now()
		found := tree.Contains(int32(arraytree.RightChild(n)))
		searchDur := metrics.Since(opts.clock, t1)

		after := metrics.Take()
		tree.Close()

		rows = append(rows, metrics.StageBRow{
			Size:     n,
			Capacity: capacity,
			BuildMs:  metrics.Ms(buildDur),
			SearchMs: metrics.Ms(searchDur),
			Found:    found,
			HeapMB:   metrics.MB(after.HeapSys),
		})
		fmt.Fprintf(stdout, "  Build=%.0fms Search=%.2fms Found=%v HeapSys=%.1fMB\n",
			rows[len(rows)-1].BuildMs, rows[len(rows)-1].SearchMs, found, rows[len(rows)-1].HeapMB)
	}
	return writeReport(opts, stdout, "bench_report_stage_b_", rows, func(path string) error {
		return metrics.WriteStageBCSV(rows, path)
	})
}

// writeReport 写入 CSV（以及可选 JSON）报告
func writeReport(opts stageOpts, stdout io.Writer, prefix string, rows any, writeCSV func(string) error) error {
	path := metrics.ReportPath(prefix, ".csv")
	if err := writeCSV(path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "报告已写入 %s\n", path)
	if opts.writeJSON {
		jsonPath := metrics.ReportPath(prefix, ".json")
		if err := metrics.WriteJSON(rows, jsonPath); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "报告已写入 %s\n", jsonPath)
	}
	opts.log.Debug("report written", "path", path, "at", time.Now())
	return nil
}
