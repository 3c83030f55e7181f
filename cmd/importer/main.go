package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"fileapi/internal/importer"
)

func main() {
	var (
		baseURL = flag.String("api", "http://localhost:8080", "base URL of the running API")
		file    = flag.String("file", "", "path to the JSON export file to import")
		timeout = flag.Duration("timeout", 10*time.Minute, "overall import timeout")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	sum, err := importer.NewImporter(*baseURL, nil).ImportFile(ctx, *file)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	for _, res := range sum.Results {
		if res.Outcome == importer.OutcomeFailed {
			fmt.Printf("FAILED  %s/%s: %s\n", res.Collection, res.ID, res.Message)
		}
	}
	fmt.Printf("created=%d updated=%d failed=%d\n", sum.Created, sum.Updated, sum.Failed)

	if sum.Failed > 0 {
		os.Exit(1)
	}
}
