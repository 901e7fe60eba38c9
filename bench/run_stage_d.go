// 阶段 D: 对比纯内存、mmap 持久化加载与压缩快照恢复的检索性能
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ic-timon/arraytree/arraytree"
	"github.com/ic-timon/arraytree/arraytree/store"
	"github.com/ic-timon/arraytree/bench/gen"
	"github.com/ic-timon/arraytree/bench/metrics"
)

type stageDParams struct {
	size     int
	requests int
	tmpDir   string
}

var stageDDefaults = stageDParams{
	size:     5_000_000,
	requests: 50,
}

func runStageD(opts stageOpts, stdout io.Writer) error {
	p := stageDDefaults
	p.tmpDir = os.TempDir()
	return stageD(opts, stdout, p)
}

func stageD(opts stageOpts, stdout io.Writer, p stageDParams) error {
	codecs := []store.Compression{store.CompressionNone, store.CompressionLZ4, store.CompressionZSTD}
	if opts.codec != "" {
		c, err := store.ParseCompression(opts.codec)
		if err != nil {
			return err
		}
		codecs = []store.Compression{c}
	}
	queries := gen.Targets(p.requests, p.size, 0.5, 777)

	cfg := arraytree.DefaultConfig()
	cfg.Capacity = arraytree.RightChild(p.size) + 1
	cfg.UseOffheap = opts.offheap
	cfg.Logger = opts.log

	// 1. 纯内存
	fmt.Fprintln(stdout, "阶段 D: 纯内存模式")
	idxMem, err := arraytree.NewTree(cfg)
	if err != nil {
		return err
	}
	defer idxMem.Close()
	if err := idxMem.Build(p.size); err != nil {
		return err
	}
	var rows []metrics.StageDRow
	rows = append(rows, stageDRow("memory", 0, 0, 0, searchLatency(idxMem, queries)))
	printStageDRow(stdout, rows[len(rows)-1])

	// 2. mmap：SaveToAtomic -> NewTreeFromFile
	fmt.Fprintln(stdout, "阶段 D: mmap 持久化模式")
	tmpPath := filepath.Join(p.tmpDir, "arraytree-stage-d.bin")
	t0 := time.Now()
	if err := idxMem.SaveToAtomic(tmpPath); err != nil {
		return err
	}
	saveDur := time.Since(t0)
	defer os.Remove(tmpPath)
	info, err := os.Stat(tmpPath)
	if err != nil {
		return err
	}
	t1 := time.Now()
	idxMmap, err := arraytree.NewTreeFromFile(tmpPath, cfg)
	if err != nil {
		return err
	}
	loadDur := time.Since(t1)
	rows = append(rows, stageDRow("mmap", info.Size(), saveDur, loadDur, searchLatency(idxMmap, queries)))
	idxMmap.Close()
	printStageDRow(stdout, rows[len(rows)-1])

	// 3. 快照：WriteSnapshot -> ReadSnapshot
	for _, c := range codecs {
		fmt.Fprintf(stdout, "阶段 D: 快照模式 codec=%s\n", c)
		var buf bytes.Buffer
		t2 := time.Now()
		if err := idxMem.WriteSnapshot(&buf, c); err != nil {
			return err
		}
		snapSave := time.Since(t2)
		n := int64(buf.Len())
		t3 := time.Now()
		restored, err := arraytree.ReadSnapshot(&buf, cfg)
		if err != nil {
			return err
		}
		snapLoad := time.Since(t3)
		rows = append(rows, stageDRow("snapshot-"+c.String(), n, snapSave, snapLoad, searchLatency(restored, queries)))
		restored.Close()
		printStageDRow(stdout, rows[len(rows)-1])
	}

	return writeReport(opts, stdout, "bench_report_stage_d_", rows, func(path string) error {
		return metrics.WriteStageDCSV(rows, path)
	})
}

func searchLatency(tree *arraytree.Tree, queries []int32) metrics.LatencyStats {
	durations := make([]time.Duration, len(queries))
	for i, q := range queries {
		t := time.Now()
		tree.Contains(q)
		durations[i] = time.Since(t)
	}
	return metrics.LatencyStatsFromDurations(durations)
}

func stageDRow(mode string, fileBytes int64, save, load time.Duration, stats metrics.LatencyStats) metrics.StageDRow {
	return metrics.StageDRow{
		Mode:        mode,
		FileBytes:   fileBytes,
		SaveMs:      metrics.Ms(save),
		LoadMs:      metrics.Ms(load),
		SearchP50Ms: stats.P50Ms,
		SearchP99Ms: stats.P99Ms,
	}
}

func printStageDRow(stdout io.Writer, r metrics.StageDRow) {
	fmt.Fprintf(stdout, "  %s bytes=%d save=%.1fms load=%.1fms P50=%.2fms P99=%.2fms\n",
		r.Mode, r.FileBytes, r.SaveMs, r.LoadMs, r.SearchP50Ms, r.SearchP99Ms)
}
