package main

import (
	"fmt"
	"io"

	"github.com/ic-timon/arraytree/arraytree"
	"github.com/ic-timon/arraytree/bench/metrics"
	"github.com/ic-timon/arraytree/scan"
)

// runLegacy 复现参考基准：build(size) 后线性查找 target，输出 "<label>, time spent: <s> s"
func runLegacy(opts stageOpts, stdout io.Writer) error {
	cfg := arraytree.DefaultConfig()
	cfg.Capacity = opts.capacity
	cfg.UseOffheap = opts.offheap
	cfg.Logger = opts.log
	tree, err := arraytree.NewTree(cfg)
	if err != nil {
		return err
	}
	defer tree.Close()

	target := int32(opts.target)
	begin := opts.clock.Now()

	if err := tree.Build(opts.size); err != nil {
		return err
	}
	var found bool
	if opts.legacyScan {
		found = tree.ContainsWithin(target, opts.size)
	} else {
		found = tree.Contains(target)
	}

	elapsed := metrics.Since(opts.clock, begin)
	fmt.Fprintf(stdout, "%s, time spent: %f s\n", opts.label, elapsed.Seconds())
	opts.log.Info("legacy run",
		"size", opts.size,
		"capacity", tree.Capacity(),
		"target", target,
		"found", found,
		"legacy_scan", opts.legacyScan,
		"clock", opts.clock.Name(),
		"scan_impl", scan.ImplDesc(),
	)
	return nil
}
