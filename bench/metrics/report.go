// Package metrics 提供运行时指标采集
package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	P50Ms float64
	P95Ms float64
	P99Ms float64
	AvgMs float64
	N     int
}

// StageBRow 阶段 B 单行数据（容量扩展）
type StageBRow struct {
	Size     int
	Capacity int
	BuildMs  float64
	SearchMs float64
	Found    bool
	HeapMB   float64
}

// StageCRow 阶段 C 单行数据（并发查询）
type StageCRow struct {
	Mode         string
	Concurrency  int
	Size         int
	QPS          float64
	SearchP50Ms  float64
	SearchP95Ms  float64
	SearchP99Ms  float64
	NumGoroutine int
}

// StageDRow 阶段 D 单行数据（内存 vs mmap vs 快照）
type StageDRow struct {
	Mode        string
	FileBytes   int64
	SaveMs      float64
	LoadMs      float64
	SearchP50Ms float64
	SearchP99Ms float64
}

// Percentile 计算切片中第 p 百分位（0-100），输入需已排序
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted)-1) * p / 100)
	return sorted[idx]
}

// Ms converts a duration to fractional milliseconds.
func Ms(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// LatencyStatsFromDurations 从耗时列表计算 P50/P95/P99
func LatencyStatsFromDurations(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	ms := make([]float64, len(durations))
	var sum float64
	for i, d := range durations {
		ms[i] = Ms(d)
		sum += ms[i]
	}
	slices.Sort(ms)
	return LatencyStats{
		P50Ms: Percentile(ms, 50),
		P95Ms: Percentile(ms, 95),
		P99Ms: Percentile(ms, 99),
		AvgMs: sum / float64(len(ms)),
		N:     len(ms),
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

// WriteStageBCSV 写入阶段 B 报告
func WriteStageBCSV(rows []StageBRow, path string) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			fmt.Sprintf("%d", r.Size),
			fmt.Sprintf("%d", r.Capacity),
			fmt.Sprintf("%.2f", r.BuildMs),
			fmt.Sprintf("%.2f", r.SearchMs),
			fmt.Sprintf("%t", r.Found),
			fmt.Sprintf("%.2f", r.HeapMB),
		})
	}
	return writeCSV(path, []string{"Size", "Capacity", "BuildMs", "SearchMs", "Found", "HeapMB"}, out)
}

// WriteStageCCSV 写入阶段 C 报告
func WriteStageCCSV(rows []StageCRow, path string) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Mode,
			fmt.Sprintf("%d", r.Concurrency),
			fmt.Sprintf("%d", r.Size),
			fmt.Sprintf("%.2f", r.QPS),
			fmt.Sprintf("%.3f", r.SearchP50Ms),
			fmt.Sprintf("%.3f", r.SearchP95Ms),
			fmt.Sprintf("%.3f", r.SearchP99Ms),
			fmt.Sprintf("%d", r.NumGoroutine),
		})
	}
	return writeCSV(path, []string{"Mode", "Concurrency", "Size", "QPS", "SearchP50Ms", "SearchP95Ms", "SearchP99Ms", "NumGoroutine"}, out)
}

// WriteStageDCSV 写入阶段 D 报告
func WriteStageDCSV(rows []StageDRow, path string) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Mode,
			fmt.Sprintf("%d", r.FileBytes),
			fmt.Sprintf("%.2f", r.SaveMs),
			fmt.Sprintf("%.2f", r.LoadMs),
			fmt.Sprintf("%.3f", r.SearchP50Ms),
			fmt.Sprintf("%.3f", r.SearchP99Ms),
		})
	}
	return writeCSV(path, []string{"Mode", "FileBytes", "SaveMs", "LoadMs", "SearchP50Ms", "SearchP99Ms"}, out)
}

// ReportDir 报告输出目录
var ReportDir = "report"

// ReportPath 生成 report/ 目录下带日期的报告路径
func ReportPath(prefix, ext string) string {
	return filepath.Join(ReportDir, prefix+time.Now().Format("20060102")+ext)
}

// WriteJSON 写入 JSON 报告（通用）
func WriteJSON(v interface{}, path string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
