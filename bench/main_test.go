package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/ic-timon/arraytree/arraytree"
	"github.com/ic-timon/arraytree/bench/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var legacyLine = regexp.MustCompile(`^(\w+), time spent: (\d+\.\d{6}) s\n$`)

func TestRun_Legacy(t *testing.T) {
	for _, clock := range []string{"cpu", "wall"} {
		t.Run(clock, func(t *testing.T) {
			var out bytes.Buffer
			err := run([]string{"-size", "1000", "-capacity", "2002", "-target", "2001", "-clock", clock}, &out)
			require.NoError(t, err)

			m := legacyLine.FindStringSubmatch(out.String())
			require.NotNil(t, m, "output %q", out.String())
			assert.Equal(t, "BST4", m[1])
			secs, err := strconv.ParseFloat(m[2], 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, secs, 0.0)
		})
	}
}

func TestRun_LegacyLabelAndScan(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-label", "BST5", "-size", "10", "-capacity", "32", "-legacy-scan"}, &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "BST5, time spent: "))
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"capacity too small", []string{"-size", "10", "-capacity", "21"}},
		{"invalid capacity", []string{"-capacity", "1"}},
		{"capacity too large", []string{"-capacity", "1000000000000000000"}},
		{"unknown stage", []string{"-stage", "z", "-capacity", "8"}},
		{"unknown clock", []string{"-clock", "sundial"}},
		{"bad log level", []string{"-log-level", "loud"}},
		{"target overflow", []string{"-target", "4294967296"}},
		{"bad flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(tt.args, &out))
			assert.NotContains(t, out.String(), "time spent")
		})
	}
}

func testOpts(t *testing.T) stageOpts {
	t.Helper()
	metrics.ReportDir = t.TempDir()
	t.Cleanup(func() { metrics.ReportDir = "report" })
	return stageOpts{
		clock:     metrics.NewWallClock(),
		log:       arraytree.NoopLogger(),
		workers:   2,
		writeJSON: true,
	}
}

func reportFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(metrics.ReportDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStageB(t *testing.T) {
	opts := testOpts(t)
	var out bytes.Buffer
	require.NoError(t, stageB(opts, &out, []int{10, 100}))
	assert.Contains(t, out.String(), "Found=true")
	files := reportFiles(t)
	require.Len(t, files, 2)

	b, err := os.ReadFile(filepath.Join(metrics.ReportDir, files[0]))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Len(t, lines, 3)
}

func TestStageC(t *testing.T) {
	opts := testOpts(t)
	var out bytes.Buffer
	p := stageCParams{size: 5000, totalRequests: 40, concurrencies: []int{1, 3}}
	require.NoError(t, stageC(opts, &out, p))
	assert.Contains(t, out.String(), "serial")
	assert.Contains(t, out.String(), "parallel")
	assert.Len(t, reportFiles(t), 2)
}

func TestStageD(t *testing.T) {
	opts := testOpts(t)
	opts.codec = "zstd"
	var out bytes.Buffer
	p := stageDParams{size: 2000, requests: 10, tmpDir: t.TempDir()}
	require.NoError(t, stageD(opts, &out, p))
	s := out.String()
	assert.Contains(t, s, "memory")
	assert.Contains(t, s, "mmap")
	assert.Contains(t, s, "snapshot-zstd")
	assert.NotContains(t, s, "snapshot-lz4")
}

func TestStageD_BadCodec(t *testing.T) {
	opts := testOpts(t)
	opts.codec = "gzip"
	var out bytes.Buffer
	assert.Error(t, stageD(opts, &out, stageDParams{size: 10, requests: 1, tmpDir: t.TempDir()}))
}

func TestRunClients(t *testing.T) {
	tree, err := arraytree.NewTree(&arraytree.Config{Capacity: 64})
	require.NoError(t, err)
	defer tree.Close()
	require.NoError(t, tree.Build(20))

	queries := []int32{1, 41, 42, -1, 7}
	for _, c := range []int{0, 1, 2, 5, 9} {
		durations, err := runClients(context.Background(), tree.ContainsParallel, queries, c)
		require.NoError(t, err)
		assert.Len(t, durations, len(queries))
	}
}
