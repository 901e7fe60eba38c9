// 压测入口：默认复现参考基准（build + search 计时，单行输出）；-stage b|c|d 为扩展阶段
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ic-timon/arraytree/arraytree"
	"github.com/ic-timon/arraytree/bench/metrics"
)

type stageOpts struct {
	label      string
	size       int
	capacity   int
	target     int
	legacyScan bool
	offheap    bool
	workers    int
	codec      string
	writeJSON  bool
	clock      metrics.Clock
	log        *arraytree.Logger
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	stage := fs.String("stage", "legacy", "压测阶段: legacy(参考基准) | b(容量扩展) | c(并发查询) | d(内存 vs mmap vs 快照)")
	label := fs.String("label", "BST4", "legacy 输出标签")
	size := fs.Int("size", arraytree.DefaultSize, "build 规模（legacy）")
	capacity := fs.Int("capacity", arraytree.DefaultCapacity, "槽位容量（legacy）")
	target := fs.Int("target", int(arraytree.DefaultTarget), "查询目标（legacy）")
	legacyScan := fs.Bool("legacy-scan", false, "只扫描 [0, size]，与参考实现的扫描上界一致")
	clockName := fs.String("clock", "cpu", "计时方式: cpu | wall")
	offheap := fs.Bool("offheap", false, "启用 Off-heap 内存（需 CGO）")
	workers := fs.Int("workers", 0, "并行扫描 worker 数，0 表示 NumCPU（stage c）")
	codec := fs.String("codec", "", "阶段 D 快照压缩: none | lz4 | zstd，空表示全部")
	writeJSON := fs.Bool("json", false, "同时输出 JSON 报告")
	logLevel := fs.String("log-level", "warn", "日志级别: debug | info | warn | error")
	logJSON := fs.Bool("log-json", false, "JSON 格式日志")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("invalid -log-level: %w", err)
	}
	logger := arraytree.NewTextLogger(level)
	if *logJSON {
		logger = arraytree.NewJSONLogger(level)
	}
	clock, err := metrics.ParseClock(*clockName)
	if err != nil {
		return err
	}
	if *target < -1<<31 || *target > 1<<31-1 {
		return fmt.Errorf("-target %d does not fit int32", *target)
	}

	opts := stageOpts{
		label:      *label,
		size:       *size,
		capacity:   *capacity,
		target:     *target,
		legacyScan: *legacyScan,
		offheap:    *offheap,
		workers:    *workers,
		codec:      *codec,
		writeJSON:  *writeJSON,
		clock:      clock,
		log:        logger,
	}
	switch *stage {
	case "", "legacy":
		return runLegacy(opts, stdout)
	case "b":
		err = runStageB(opts, stdout)
	case "c":
		err = runStageC(opts, stdout)
	case "d":
		err = runStageD(opts, stdout)
	default:
		return fmt.Errorf("请指定 -stage legacy|b|c|d")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "压测完成")
	return nil
}
