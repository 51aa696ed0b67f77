// Command timedstore runs a small load demo against a TimedMap:
// concurrent writers insert short-lived keys, readers probe them at
// random, and expirations are reported through the callback. On exit
// it prints the metric counters and a rule-based health report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"timedstore"
	"timedstore/internal/health"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// The "bound argument" of the callback is just a captured
	// variable.
	prefix := "expired"
	tm, err := timedstore.New[string, float64](
		timedstore.Config{
			Timeout:           cfg.timeout(),
			SweepInterval:     cfg.sweepInterval(),
			SampleProbability: cfg.SampleProbability,
			ExpiredKeysRatio:  cfg.ExpiredKeysRatio,
		},
		timedstore.WithCallback[string, float64](func(key string, value float64) {
			fmt.Printf("%s: %s -> %.3f\n", prefix, key, value)
		}),
		timedstore.WithLogger[string, float64](logger),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer tm.Stop()

	var g errgroup.Group
	for w := 0; w < cfg.Writers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < cfg.WritesPerWriter; i++ {
				key := fmt.Sprintf("w%d-k%d", w, i)
				tm.Set(key, rand.Float64())
				time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)

				if rand.Float64() < cfg.ReadProbability {
					probe := fmt.Sprintf("w%d-k%d", w, rand.Intn(i+1))
					if v, ok := tm.Get(probe); ok {
						fmt.Printf("read: %s -> %.3f\n", probe, v)
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	// Let the sweeper drain what the writers left behind.
	time.Sleep(cfg.timeout() + 2*cfg.sweepInterval())

	logger.Info("load finished", slog.Int("remaining", tm.Len()))

	dump(os.Stdout, "metrics", tm.Metrics())
	dump(os.Stdout, "health", health.NewAnalyzer(tm.Metrics).Analyze())
}

func dump(w *os.File, name string, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(w, "%s:\n%s\n", name, out)
}
