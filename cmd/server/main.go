// Package main runs the DocuMind AI service HTTP server.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/documind/ai-service/internal/chunker"
	"github.com/documind/ai-service/internal/config"
	"github.com/documind/ai-service/internal/embedding"
	"github.com/documind/ai-service/internal/extractor"
	"github.com/documind/ai-service/internal/history"
	"github.com/documind/ai-service/internal/rag"
	"github.com/documind/ai-service/internal/server"
	"github.com/documind/ai-service/internal/storage"
	"github.com/documind/ai-service/internal/synthesis"
)

func main() {
	// Load .env if present (local development), ignore if missing.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	configPath := os.Getenv("DOCMIND_CONFIG")
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.Default()

	store, err := storage.NewQdrantStore(cfg.QdrantHost, cfg.QdrantPort, cfg.EmbeddingDimension)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		log.Fatalf("failed to create embedding client: %v", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, cfg.EmbeddingModel, 0)
	generator := synthesis.NewGenerator(embeddingClient.Client(), cfg.ChatModel)

	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("invalid chunking window: %v", err)
	}

	pipeline := rag.NewService(
		extractor.New(),
		splitter,
		embedder,
		store,
		generator,
		rag.Options{TopK: cfg.TopK, MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature},
		logger,
	)

	historyDB, err := history.Open(cfg.HistoryPath)
	if err != nil {
		log.Fatalf("failed to open history database: %v", err)
	}
	defer historyDB.Close()

	srv := server.New(server.Config{
		Port:            cfg.Port,
		AllowAllOrigins: cfg.AllowAllOrigins,
	}, pipeline, historyDB, store, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}
