// 压测入口：-stage a|b|c|d
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ic-timon/vecdump/bench/gen"
	"github.com/ic-timon/vecdump/embedstore"
)

type stageOpts struct {
	records int
	dim     int
	workDir string
}

func main() {
	stage := flag.String("stage", "", "压测阶段: a(分块/并发参数寻优) | b(容量扩展) | c(高并发查询) | d(files vs sqlite)")
	records := flag.Int("n", 100_000, "语料词数（stage a/c/d 生效）")
	dim := flag.Int("dim", 300, "向量维度")
	workDir := flag.String("dir", "", "语料与输出目录，默认系统临时目录")
	flag.Parse()

	dir := *workDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "vecdump-bench-")
		if err != nil {
			log.Fatal(err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}
	zap.ReplaceGlobals(zap.NewNop())
	opts := stageOpts{records: *records, dim: *dim, workDir: dir}
	switch *stage {
	case "a":
		runStageA(opts)
	case "b":
		runStageB(opts)
	case "c":
		runStageC(opts)
	case "d":
		runStageD(opts)
	default:
		log.Fatalf("请指定 -stage a|b|c|d")
	}
	fmt.Println("压测完成")
}

// prepareCorpus 在工作目录生成 n 词语料，返回路径与词表
func prepareCorpus(opts stageOpts, n int) (string, []string) {
	path := filepath.Join(opts.workDir, fmt.Sprintf("corpus_%d_%d.txt", n, opts.dim))
	words, _, err := gen.WriteCorpusFile(path, n, opts.dim, 42)
	if err != nil {
		panic(err)
	}
	return path, words
}

// benchConfig 返回输出到工作目录的配置
func benchConfig(opts stageOpts, backend embedstore.Backend) *embedstore.Config {
	cfg := embedstore.DefaultConfig()
	cfg.OutputDir = filepath.Join(opts.workDir, "out")
	cfg.Backend = backend
	cfg.Logger = zap.NewNop()
	return cfg
}
