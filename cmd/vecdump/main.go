package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ic-timon/vecdump/embedstore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var backend string
	cfg := embedstore.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:           "vecdump",
		Short:         "convert word2vec text corpora into memory-mappable stores",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			cfg.Backend = embedstore.Backend(backend)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", string(embedstore.BackendFiles), "storage backend (files, sqlite)")

	dumpCmd := &cobra.Command{
		Use:   "dump PATH",
		Short: "ingest a text corpus into an index/blob pair (or sqlite database)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := embedstore.Ingest(args[0], cfg)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", args[0], err)
			}
			for _, p := range out.Paths {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			}
			return nil
		},
	}
	dumpCmd.Flags().IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "lines per unit of parallel work")
	dumpCmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent chunk workers")
	dumpCmd.Flags().StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory")

	getCmd := &cobra.Command{
		Use:   "get PREFIX WORD...",
		Short: "print the vectors stored for words (PREFIX is the output path without extension)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := trimStoreExt(args[0])
			r, err := embedstore.Load(prefix, cfg)
			if err != nil {
				return fmt.Errorf("load %s: %w", prefix, err)
			}
			defer r.Close()
			w := cmd.OutOrStdout()
			for _, word := range args[1:] {
				vec, ok := r.Get(word)
				if !ok {
					fmt.Fprintf(w, "%s <not found>\n", word)
					continue
				}
				fmt.Fprintln(w, formatVector(word, vec))
			}
			return nil
		},
	}

	rootCmd.AddCommand(dumpCmd, getCmd)
	return rootCmd
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

// trimStoreExt lets PREFIX be given as one of the output files.
func trimStoreExt(path string) string {
	switch ext := filepath.Ext(path); ext {
	case ".idx", ".vec", ".db":
		return strings.TrimSuffix(path, ext)
	}
	return path
}

func formatVector(word string, vec []float32) string {
	b := []byte(word)
	for _, x := range vec {
		b = append(b, ' ')
		b = strconv.AppendFloat(b, float64(x), 'g', -1, 32)
	}
	return string(b)
}
