package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"

	"fileapi/internal/config"
	"fileapi/internal/downloader"
	"fileapi/internal/storage"
)

func main() {
	cfg := config.Load()

	var (
		prefix = flag.String("prefix", "", "object key prefix to mirror (empty mirrors the whole bucket)")
		outDir = flag.String("out", cfg.Store.RootDir, "local directory to download into")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := storage.NewMinIO(cfg.ObjectStore)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	sum, err := downloader.NewDownloader(store, *outDir, cfg.Store.BatchWorkers).Run(ctx, *prefix)
	if err != nil {
		log.Fatalf("download failed: %v", err)
	}

	for _, f := range sum.Failures {
		fmt.Printf("FAILED  %s: %s\n", f.Key, f.Message)
	}
	fmt.Printf("downloaded=%d skipped=%d failed=%d\n", sum.Downloaded, sum.Skipped, sum.Failed)

	if sum.Failed > 0 {
		os.Exit(1)
	}
}
