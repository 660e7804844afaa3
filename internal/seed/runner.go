package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Run generates profiles and submits them to the configured service.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.NumProfiles <= 0 {
		return nil, fmt.Errorf("profile count must be positive, got %d", cfg.NumProfiles)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	profiles := generateProfiles(rng, cfg.NumProfiles)
	log.Printf("generated %d profiles, submitting with %d workers", len(profiles), cfg.Workers)

	client := &http.Client{Timeout: cfg.Timeout}
	start := time.Now()

	var submitted, failed, scored, scoreFailed int64

	profileChan := make(chan profile, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range profileChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if err := postJSON(ctx, client, cfg.BaseURL+"/profiles", p); err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Printf("submit %s failed: %v", p.UserID, err)
					}
					continue
				}
				atomic.AddInt64(&submitted, 1)

				if !cfg.Score {
					continue
				}
				req := map[string]string{"user_id": p.UserID}
				if err := postJSON(ctx, client, cfg.BaseURL+"/score", req); err != nil {
					atomic.AddInt64(&scoreFailed, 1)
					continue
				}
				if err := postJSON(ctx, client, cfg.BaseURL+"/credit-score", req); err != nil {
					atomic.AddInt64(&scoreFailed, 1)
					continue
				}
				atomic.AddInt64(&scored, 1)
			}
		}()
	}

	for _, p := range profiles {
		select {
		case <-ctx.Done():
			break
		case profileChan <- p:
		}
	}
	close(profileChan)
	wg.Wait()

	stats := &Stats{
		ProfilesSubmitted: int(atomic.LoadInt64(&submitted)),
		ProfilesFailed:    int(atomic.LoadInt64(&failed)),
		ScoresComputed:    int(atomic.LoadInt64(&scored)),
		ScoresFailed:      int(atomic.LoadInt64(&scoreFailed)),
		Elapsed:           time.Since(start),
	}

	log.Printf("seeding done in %s: %d submitted, %d failed, %d scored, %d score failures",
		stats.Elapsed.Round(time.Millisecond),
		stats.ProfilesSubmitted, stats.ProfilesFailed,
		stats.ScoresComputed, stats.ScoresFailed)

	return stats, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return nil
}
