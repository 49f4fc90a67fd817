// Package gen 提供压测与测试用的随机词向量语料生成
package gen

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
)

// RandomVectors 生成 n 个 dim 维 L2 归一化随机向量
func RandomVectors(n, dim int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, n)
	for i := 0; i < n; i++ {
		v := make([]float32, dim)
		var norm float64
		for j := 0; j < dim; j++ {
			x := rng.Float32()
			v[j] = x
			norm += float64(x * x)
		}
		norm = math.Sqrt(norm)
		if norm < 1e-9 {
			if dim > 0 {
				v[0] = 1
			}
			norm = 1
		}
		for j := 0; j < dim; j++ {
			v[j] /= float32(norm)
		}
		out[i] = v
	}
	return out
}

// Words 生成 n 个互不相同的词
func Words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%07d", i)
	}
	return out
}

// WriteCorpus 以 "<len> <dim>" 头加每行 "<word> <f1> ... <fdim>" 的文本格式写出语料。
// 浮点数按 float32 最短表示输出，读回后逐位相等。
func WriteCorpus(w io.Writer, words []string, vecs [][]float32) error {
	dim := 0
	if len(vecs) > 0 {
		dim = len(vecs[0])
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(words), dim)
	var line []byte
	for i, word := range words {
		line = append(line[:0], word...)
		for _, x := range vecs[i] {
			line = append(line, ' ')
			line = strconv.AppendFloat(line, float64(x), 'g', -1, 32)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCorpusFile 生成 n 个 dim 维词向量并写入 path，返回写入的词和向量
func WriteCorpusFile(path string, n, dim int, seed int64) ([]string, [][]float32, error) {
	words := Words(n)
	vecs := RandomVectors(n, dim, seed)
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	if err := WriteCorpus(f, words, vecs); err != nil {
		return nil, nil, err
	}
	return words, vecs, f.Close()
}
