// Package main provides the docmind CLI for operating the document
// pipeline without the HTTP service: index a file, then ask questions
// about it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/documind/ai-service/internal/chunker"
	"github.com/documind/ai-service/internal/config"
	"github.com/documind/ai-service/internal/embedding"
	"github.com/documind/ai-service/internal/extractor"
	"github.com/documind/ai-service/internal/rag"
	"github.com/documind/ai-service/internal/storage"
	"github.com/documind/ai-service/internal/synthesis"
)

var rootCmd = &cobra.Command{
	Use:   "docmind",
	Short: "DocuMind document indexing and question answering",
	Long:  "CLI for the DocuMind pipeline: index documents into Qdrant and query them",
}

var indexCmd = &cobra.Command{
	Use:   "index <document-id> <file>",
	Short: "Extract, chunk, embed and store a document",
	Long: `Processes one document end to end and replaces any existing index
for the document identifier.

Environment variables:
  DOCMIND_CONFIG   Config file path (default: documind.yml)
  OPENAI_API_KEY   OpenAI API key for embeddings and synthesis (required)`,
	Args: cobra.ExactArgs(2),
	RunE: runIndex,
}

var askCmd = &cobra.Command{
	Use:   "ask <document-id> <question>",
	Short: "Ask a question about an indexed document",
	Args:  cobra.ExactArgs(2),
	RunE:  runAsk,
}

var askTopK int

func init() {
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of chunks to retrieve (default from config)")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(askCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildService wires the full pipeline from configuration.
func buildService() (*rag.Service, *storage.QdrantStore, error) {
	configPath := os.Getenv("DOCMIND_CONFIG")
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	store, err := storage.NewQdrantStore(cfg.QdrantHost, cfg.QdrantPort, cfg.EmbeddingDimension)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to Qdrant: %w", err)
	}

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("create embedding client: %w", err)
	}

	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("invalid chunking window: %w", err)
	}

	svc := rag.NewService(
		extractor.New(),
		splitter,
		embedding.NewEmbedder(embeddingClient, cfg.EmbeddingModel, 0),
		store,
		synthesis.NewGenerator(embeddingClient.Client(), cfg.ChatModel),
		rag.Options{TopK: cfg.TopK, MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature},
		slog.Default(),
	)
	return svc, store, nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	documentID, filePath := args[0], args[1]

	svc, store, err := buildService()
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Printf("Indexing %s as %q...\n", filePath, documentID)
	start := time.Now()

	result, err := svc.ProcessDocument(context.Background(), documentID, filePath)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Done!")
	fmt.Printf("  Chunks: %d\n", result.ChunkCount)
	fmt.Printf("  Pages:  %d\n", result.PageCount)
	fmt.Printf("  Time:   %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	documentID, question := args[0], args[1]

	svc, store, err := buildService()
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := svc.Query(context.Background(), documentID, question, askTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range result.Sources {
			fmt.Printf("  [page %d, relevance %.3f] %s\n", src.Page, src.Relevance, src.Snippet)
		}
		fmt.Printf("\nConfidence: %.3f\n", result.Confidence)
	}
	return nil
}
