package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/api/handlers"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/calibration"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/config"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/consumer"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/engine"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/graph"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/ratings"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/registry"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/sports/football_ncaaf"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/sports/football_nfl"
)

func main() {
	fmt.Println("=== Handicap Engine v0 ===")

	cfg := config.LoadConfig()

	// Calibration records live in Postgres; fall back to memory when the
	// database is unreachable so evaluations still run
	var recordStore calibration.RecordStore
	db, err := sql.Open("postgres", cfg.Storage.PostgresDSN)
	if err == nil {
		err = db.Ping()
	}
	if err != nil {
		fmt.Printf("⚠️  Calibration DB unavailable (%v), using in-memory records\n", err)
		recordStore = calibration.NewMemoryStore()
	} else {
		defer db.Close()
		fmt.Println("✓ Connected to calibration DB")
		recordStore = calibration.NewPostgresStore(db)
	}

	// Redis backs the stream publisher and the rating mirror; both are
	// optional collaborator surfaces
	var streamPublisher *publisher.StreamPublisher
	var ratingMirror *ratings.RedisMirror

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		fmt.Printf("⚠️  Redis unavailable (%v), publishing disabled\n", err)
	} else {
		fmt.Println("✓ Connected to Redis")
		streamPublisher = publisher.NewStreamPublisher(redisClient)
		ratingMirror = ratings.NewRedisMirror(redisClient)
	}

	// Power ratings and the knowledge graph reload from disk
	store := ratings.NewStoreWithWeights(cfg.Storage.DataDir, cfg.Engine.CarryWeight, cfg.Engine.PerfWeight)
	if err := store.Load(); err != nil {
		fmt.Printf("❌ Failed to load ratings: %v\n", err)
		os.Exit(1)
	}

	g := graph.New()
	if err := g.Load(cfg.Storage.SnapshotPath); err != nil {
		fmt.Printf("❌ Failed to load graph snapshot: %v\n", err)
		os.Exit(1)
	}

	reg := registry.New()
	for _, sport := range cfg.Engine.Sports {
		switch sport {
		case "football_nfl":
			reg.Register(football_nfl.NewConfig())
		case "football_ncaaf":
			reg.Register(football_ncaaf.NewConfig())
		default:
			fmt.Printf("⚠️  Unknown sport %q in SPORTS, skipping\n", sport)
		}
	}

	tracker := calibration.NewTracker(recordStore)
	eng := engine.NewEngine(reg, store, g, tracker, streamPublisher, ratingMirror)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	if streamPublisher != nil {
		streamConsumer := consumer.NewStreamConsumer(redisClient, cfg.Stream.ConsumerID, cfg.Stream.ConsumerGroup)
		runner := consumer.NewRunner(streamConsumer, eng)
		for _, sport := range reg.Keys() {
			go func(sportKey string) {
				if err := runner.Start(runCtx, sportKey); err != nil {
					fmt.Printf("❌ Runner error for %s: %v\n", sportKey, err)
				}
			}(sport)
		}
	} else {
		fmt.Println("⚠️  Streams disabled, engine serving queries only")
	}

	handler := handlers.NewHandler(g, tracker, store, reg)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler.Routes(),
	}

	go func() {
		fmt.Printf("✓ Handicap engine listening on %s\n", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n✓ Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("⚠️  Server shutdown error: %v\n", err)
	}

	if err := store.Save(); err != nil {
		fmt.Printf("❌ Failed to save ratings on shutdown: %v\n", err)
		os.Exit(1)
	}
	if err := g.Save(cfg.Storage.SnapshotPath); err != nil {
		fmt.Printf("❌ Failed to save graph snapshot on shutdown: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Handicap engine stopped")
}
