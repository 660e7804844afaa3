package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/merito/gigscore/internal/seed"
)

// Default configuration constants.
const (
	defaultNumProfiles = 1000
	defaultTimeout     = 10 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numProfiles = flag.Int("profiles", defaultNumProfiles, "Number of profiles to generate and submit")
		workers     = flag.Int("workers", runtime.NumCPU()*2, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		score       = flag.Bool("score", true, "Compute level and credit scores after seeding")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:     *baseURL,
		NumProfiles: *numProfiles,
		Workers:     *workers,
		Timeout:     *timeout,
		Score:       *score,
		Verbose:     *verbose,
	}

	if _, err := seed.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
