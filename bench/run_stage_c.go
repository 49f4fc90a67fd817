package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ic-timon/vecdump/bench/metrics"
	"github.com/ic-timon/vecdump/embedstore"
)

const totalRequests = 100_000

func runStageC(opts stageOpts) {
	concurrencies := []int{1, 4, 8, 16, 32}

	path, words := prepareCorpus(opts, opts.records)
	cfg := benchConfig(opts, embedstore.BackendFiles)
	out, err := embedstore.Ingest(path, cfg)
	if err != nil {
		panic(err)
	}
	s, err := embedstore.Open(out.Paths[0], out.Paths[1], cfg)
	if err != nil {
		panic(err)
	}
	defer s.Close()

	queries := randomQueries(words, totalRequests, 12345)

	var rows []metrics.StageCRow
	for _, concurrency := range concurrencies {
		fmt.Printf("阶段 C: 并发数 %d\n", concurrency)
		durations, elapsed := runLookups(s, queries, concurrency)

		stats := metrics.LatencyStatsFromDurations(durations)
		qps := float64(len(durations)) / elapsed.Seconds()
		ratio := 1.0
		if stats.P50Ms > 0 {
			ratio = stats.P99Ms / stats.P50Ms
		}
		snap := metrics.Take()
		rows = append(rows, metrics.StageCRow{
			Concurrency:  concurrency,
			Records:      opts.records,
			QPS:          qps,
			GetP50Ms:     stats.P50Ms,
			GetP99Ms:     stats.P99Ms,
			NumGoroutine: snap.NumGoroutine,
			P99P50Ratio:  ratio,
		})
		fmt.Printf("  QPS=%.0f P50=%.4fms P99=%.4fms P99/P50=%.2f\n", qps, stats.P50Ms, stats.P99Ms, ratio)
	}

	path = metrics.ReportPath("bench_report_stage_c_")
	if err := metrics.WriteStageCCSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}

// randomQueries 从词表中按种子抽取 n 个查询词
func randomQueries(words []string, n int, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	out := make([]string, n)
	for i := range out {
		out[i] = words[rng.Intn(len(words))]
	}
	return out
}

// runLookups 以 concurrency 个 goroutine 均分执行查询，返回每次耗时与总耗时
func runLookups(r embedstore.Reader, queries []string, concurrency int) ([]time.Duration, time.Duration) {
	durations := make([]time.Duration, len(queries))
	perWorker := (len(queries) + concurrency - 1) / concurrency
	var wg sync.WaitGroup
	start := time.Now()
	for c := 0; c < concurrency; c++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			base := worker * perWorker
			for i := base; i < base+perWorker && i < len(queries); i++ {
				t1 := time.Now()
				if _, ok := r.Get(queries[i]); !ok {
					panic("lookup miss: " + queries[i])
				}
				durations[i] = time.Since(t1)
			}
		}(c)
	}
	wg.Wait()
	return durations, time.Since(start)
}
