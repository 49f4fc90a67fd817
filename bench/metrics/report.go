// Package metrics 提供运行时指标采集
package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
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

// StageARow 阶段 A 单行数据
type StageARow struct {
	ChunkSize   int
	Workers     int
	Records     int
	IngestDurMs float64
	HeapAllocMB float64
}

// StageBRow 阶段 B 单行数据
type StageBRow struct {
	Records     int
	IngestDurMs float64
	OpenDurMs   float64
	HeapSysMB   float64
	BlobMB      float64
}

// StageCRow 阶段 C 单行数据
type StageCRow struct {
	Concurrency  int
	Records      int
	QPS          float64
	GetP50Ms     float64
	GetP99Ms     float64
	NumGoroutine int
	P99P50Ratio  float64
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
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// LatencyStatsFromDurations 从耗时列表计算 P50/P95/P99
func LatencyStatsFromDurations(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	ms := make([]float64, len(durations))
	var sum float64
	for i, d := range durations {
		ms[i] = float64(d.Nanoseconds()) / 1e6
		sum += ms[i]
	}
	sort.Float64s(ms)
	return LatencyStats{
		P50Ms: Percentile(ms, 50),
		P95Ms: Percentile(ms, 95),
		P99Ms: Percentile(ms, 99),
		AvgMs: sum / float64(len(ms)),
		N:     len(ms),
	}
}

// writeCSV 写入表头与各行
func writeCSV(path string, header []string, rows [][]string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write(header)
	for _, r := range rows {
		w.Write(r)
	}
	w.Flush()
	return w.Error()
}

// WriteStageACSV 写入阶段 A 报告
func WriteStageACSV(rows []StageARow, path string) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			fmt.Sprintf("%d", r.ChunkSize),
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%d", r.Records),
			fmt.Sprintf("%.2f", r.IngestDurMs),
			fmt.Sprintf("%.2f", r.HeapAllocMB),
		})
	}
	return writeCSV(path, []string{"ChunkSize", "Workers", "Records", "IngestDurMs", "HeapAllocMB"}, out)
}

// WriteStageBCSV 写入阶段 B 报告
func WriteStageBCSV(rows []StageBRow, path string) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			fmt.Sprintf("%d", r.Records),
			fmt.Sprintf("%.2f", r.IngestDurMs),
			fmt.Sprintf("%.2f", r.OpenDurMs),
			fmt.Sprintf("%.2f", r.HeapSysMB),
			fmt.Sprintf("%.2f", r.BlobMB),
		})
	}
	return writeCSV(path, []string{"Records", "IngestDurMs", "OpenDurMs", "HeapSysMB", "BlobMB"}, out)
}

// WriteStageCCSV 写入阶段 C 报告
func WriteStageCCSV(rows []StageCRow, path string) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			fmt.Sprintf("%d", r.Concurrency),
			fmt.Sprintf("%d", r.Records),
			fmt.Sprintf("%.2f", r.QPS),
			fmt.Sprintf("%.4f", r.GetP50Ms),
			fmt.Sprintf("%.4f", r.GetP99Ms),
			fmt.Sprintf("%d", r.NumGoroutine),
			fmt.Sprintf("%.2f", r.P99P50Ratio),
		})
	}
	return writeCSV(path, []string{"Concurrency", "Records", "QPS", "GetP50Ms", "GetP99Ms", "NumGoroutine", "P99P50Ratio"}, out)
}

// ReportDir 报告输出目录
const ReportDir = "report"

// ReportPath 生成 report/ 目录下带日期的报告路径
func ReportPath(prefix string) string {
	return filepath.Join(ReportDir, prefix+time.Now().Format("20060102")+".csv")
}

// WriteJSON 写入 JSON 报告（通用）
func WriteJSON(v interface{}, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
