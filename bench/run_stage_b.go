package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ic-timon/vecdump/bench/metrics"
	"github.com/ic-timon/vecdump/embedstore"
)

func runStageB(opts stageOpts) {
	recordCounts := []int{10_000, 50_000, 100_000, 200_000}

	var rows []metrics.StageBRow
	for _, n := range recordCounts {
		fmt.Printf("阶段 B: 词数 %d dim=%d\n", n, opts.dim)
		path, words := prepareCorpus(opts, n)

		cfg := benchConfig(opts, embedstore.BackendFiles)
		t0 := time.Now()
		out, err := embedstore.Ingest(path, cfg)
		if err != nil {
			panic(err)
		}
		ingestDur := time.Since(t0)

		metrics.GC()
		t1 := time.Now()
		s, err := embedstore.Open(out.Paths[0], out.Paths[1], cfg)
		if err != nil {
			panic(err)
		}
		openDur := time.Since(t1)
		if _, ok := s.Get(words[len(words)-1]); !ok {
			panic("last word missing after ingest")
		}
		snap := metrics.Take()
		s.Close()

		fi, err := os.Stat(out.Paths[1])
		if err != nil {
			panic(err)
		}
		rows = append(rows, metrics.StageBRow{
			Records:     n,
			IngestDurMs: float64(ingestDur.Nanoseconds()) / 1e6,
			OpenDurMs:   float64(openDur.Nanoseconds()) / 1e6,
			HeapSysMB:   float64(snap.HeapSys) / (1 << 20),
			BlobMB:      float64(fi.Size()) / (1 << 20),
		})
		fmt.Printf("  ingest %.0fms open %.0fms blob %.1fMB\n",
			rows[len(rows)-1].IngestDurMs, rows[len(rows)-1].OpenDurMs, rows[len(rows)-1].BlobMB)
	}

	path := metrics.ReportPath("bench_report_stage_b_")
	if err := metrics.WriteStageBCSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}
