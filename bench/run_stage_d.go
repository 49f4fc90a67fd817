// 阶段 D: 对比 files(mmap) 与 sqlite 两种后端的写入与查询性能
package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ic-timon/vecdump/bench/metrics"
	"github.com/ic-timon/vecdump/embedstore"
)

func runStageD(opts stageOpts) {
	const concurrency = 8
	const runs = 3 // 多轮取平均

	path, words := prepareCorpus(opts, opts.records)
	queries := randomQueries(words, totalRequests/10, 777)

	for _, backend := range []embedstore.Backend{embedstore.BackendFiles, embedstore.BackendSQLite} {
		fmt.Printf("阶段 D: 后端 %s\n", backend)
		cfg := benchConfig(opts, backend)

		t0 := time.Now()
		if _, err := embedstore.Ingest(path, cfg); err != nil {
			panic(err)
		}
		ingestMs := float64(time.Since(t0).Nanoseconds()) / 1e6

		r, err := embedstore.Load(filepath.Join(cfg.OutputDir, embedstore.OutputStem(path)), cfg)
		if err != nil {
			panic(err)
		}
		var sumQps, sumP50, sumP99 float64
		for i := 0; i < runs; i++ {
			durations, elapsed := runLookups(r, queries, concurrency)
			stats := metrics.LatencyStatsFromDurations(durations)
			sumQps += float64(len(durations)) / elapsed.Seconds()
			sumP50 += stats.P50Ms
			sumP99 += stats.P99Ms
		}
		r.Close()
		fmt.Printf("  写入 %.0fms QPS=%.0f P50=%.4fms P99=%.4fms (avg of %d runs)\n",
			ingestMs, sumQps/runs, sumP50/runs, sumP99/runs, runs)
	}
}
