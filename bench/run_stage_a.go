package main

import (
	"fmt"
	"time"

	"github.com/ic-timon/vecdump/bench/metrics"
	"github.com/ic-timon/vecdump/embedstore"
)

func runStageA(opts stageOpts) {
	chunkSizes := []int{1_000, 10_000, 100_000}
	workerCounts := []int{1, 4, 8, 16}

	path, _ := prepareCorpus(opts, opts.records)

	var rows []metrics.StageARow
	for _, chunk := range chunkSizes {
		for _, workers := range workerCounts {
			fmt.Printf("阶段 A: ChunkSize=%d Workers=%d\n", chunk, workers)

			metrics.GC()
			before := metrics.Take()

			cfg := benchConfig(opts, embedstore.BackendFiles)
			cfg.ChunkSize = chunk
			cfg.Workers = workers
			t0 := time.Now()
			out, err := embedstore.Ingest(path, cfg)
			if err != nil {
				panic(err)
			}
			dur := time.Since(t0)

			after := metrics.Take()
			allocRate, gcDelta := metrics.Diff(before, after)
			rows = append(rows, metrics.StageARow{
				ChunkSize:   chunk,
				Workers:     workers,
				Records:     out.Records,
				IngestDurMs: float64(dur.Nanoseconds()) / 1e6,
				HeapAllocMB: float64(after.HeapAlloc) / (1 << 20),
			})
			fmt.Printf("  耗时 %.0fms 分配速率 %.1fMB/s GC %d 次\n",
				float64(dur.Nanoseconds())/1e6, allocRate/(1<<20), gcDelta)
		}
	}

	path = metrics.ReportPath("bench_report_stage_a_")
	if err := metrics.WriteStageACSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}
