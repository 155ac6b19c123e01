// Package main is the eiyo CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/eiyo/internal/cli"
	"github.com/hyperjump/eiyo/internal/config"
	"github.com/hyperjump/eiyo/internal/embedding"
	"github.com/hyperjump/eiyo/internal/llm"
	"github.com/hyperjump/eiyo/internal/models"
	"github.com/hyperjump/eiyo/internal/rag"
	"github.com/hyperjump/eiyo/internal/server"
	"github.com/hyperjump/eiyo/internal/store"
	"github.com/hyperjump/eiyo/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/eiyo/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "eiyo server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "load":
		runLoad()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("eiyo version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (retrieval counts, generation timing, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Pipeline,
		components.Embedder,
		components.Store,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printAskUsage prints ask subcommand usage.
func printAskUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: eiyo ask [flags] <question>\n\n")
	fmt.Fprintf(fs.Output(), "Question is all remaining arguments joined by spaces. Multi-word questions work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  eiyo ask how much vitamin D do adults need
  eiyo ask "how much vitamin D do adults need"   # same as above
  eiyo ask --output json "sources of dietary fiber"
  eiyo ask --server "" "iron rich foods"          # direct pipeline, no server needed
`)
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// askArgsReorder moves any flags (and their values) that appear after the
// question to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "eiyo ask \"question\"
// -output json" would otherwise leave -output unparsed.
func askArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runAsk() {
	askArgs := askArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = run the pipeline directly when server is not running)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printAskUsage(fs) }
	_ = fs.Parse(askArgs)

	if fs.NArg() < 1 {
		printAskUsage(fs)
		os.Exit(1)
	}
	question := buildQuestion(fs.Args())
	if question == "" {
		printAskUsage(fs)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	request := &models.ChatRequest{Query: question}

	if *serverURL != "" {
		// Use HTTP API when server is running (avoids a SQLite lock conflict).
		response, err := chatViaHTTP(*serverURL, request)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnswer(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct pipeline access (when server is not running).
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	response, err := components.Pipeline.Answer(context.Background(), request)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %s\n", rag.UserMessage(err))
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func chatViaHTTP(serverURL string, request *models.ChatRequest) (*models.ChatResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runLoad() {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = write to storage directly when server is not running)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: eiyo load [flags] <passages.json>")
		fmt.Println("The file holds a JSON array of passages: {\"id\", \"content\", \"metadata\", \"embedding\"}.")
		fmt.Println("id and embedding are optional; missing embeddings are computed on load.")
		os.Exit(1)
	}
	path := fs.Arg(0)

	inputs, err := readPassageFile(path)
	if err != nil {
		fmt.Printf("Failed to read passages: %v\n", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Println("No passages in file")
		os.Exit(1)
	}

	if *serverURL != "" {
		body, _ := json.Marshal(inputs)
		resp, err := http.Post(*serverURL+"/api/v1/passages", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Load failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Loaded %d passage(s) from %s\n", len(inputs), path)
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	passages, err := preparePassages(ctx, inputs, components.Embedder)
	if err != nil {
		fmt.Printf("Failed to embed passages: %v\n", err)
		os.Exit(1)
	}
	if err := components.Store.AddPassages(ctx, passages); err != nil {
		fmt.Printf("Failed to store passages: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d passage(s) from %s\n", len(passages), path)
}

// readPassageFile parses a JSON array of passage inputs from path.
func readPassageFile(path string) ([]*models.PassageInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inputs []*models.PassageInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return inputs, nil
}

// preparePassages converts inputs to passages, generating IDs and computing
// missing embeddings in one batch.
func preparePassages(ctx context.Context, inputs []*models.PassageInput, embedder embedding.Embedder) ([]*models.Passage, error) {
	passages := make([]*models.Passage, 0, len(inputs))
	var toEmbed []string
	var toEmbedAt []int
	for i, in := range inputs {
		if strings.TrimSpace(in.Content) == "" {
			return nil, fmt.Errorf("passage %d: content cannot be empty", i)
		}
		id := in.ID
		if id == "" {
			id = uuid.New().String()
		}
		passages = append(passages, &models.Passage{
			ID:        id,
			Content:   in.Content,
			Metadata:  in.Metadata,
			Embedding: in.Embedding,
		})
		if len(in.Embedding) == 0 {
			toEmbed = append(toEmbed, in.Content)
			toEmbedAt = append(toEmbedAt, i)
		}
	}
	if len(toEmbed) > 0 {
		embeddings, err := embedder.EmbedBatch(ctx, toEmbed)
		if err != nil {
			return nil, err
		}
		for j, idx := range toEmbedAt {
			passages[idx].Embedding = embeddings[j]
		}
	}
	return passages, nil
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	EmbeddingProvider   string `json:"embedding_provider,omitempty"`
	EmbeddingDimensions int    `json:"embedding_dimensions,omitempty"`
	LLMProvider         string `json:"llm_provider,omitempty"`
	LLMModel            string `json:"llm_model,omitempty"`
	MatchCount          int    `json:"match_count,omitempty"`
	MaxSources          int    `json:"max_sources,omitempty"`
	DatabasePath        string `json:"database_path,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Passages        int64                 `json:"passages"`
	VectorIndexSize int                   `json:"vector_index_size"`
	DiskUsageBytes  *int64                `json:"disk_usage_bytes,omitempty"`
	Config          *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		st, err := store.NewSQLiteStore(cfg.Storage.DatabasePath, cfg.Embedding.Dimensions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		count, err := st.CountPassages(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count passages failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Passages:        count,
			VectorIndexSize: st.IndexSize(),
			Config: &statusConfigResponse{
				EmbeddingProvider:   cfg.Embedding.Provider,
				EmbeddingDimensions: cfg.Embedding.Dimensions,
				LLMProvider:         cfg.LLM.Provider,
				LLMModel:            cfg.LLM.Model,
				MatchCount:          cfg.RAG.MatchCount,
				MaxSources:          cfg.RAG.MaxSources,
				DatabasePath:        cfg.Storage.DatabasePath,
			},
		}
		if diskBytes, err := store.DiskUsageBytes(cfg.Storage.DatabasePath); err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("passages:           %d   # count of stored passages\n", status.Passages)
		fmt.Printf("vector_index_size:  %d   # count of vectors in semantic index\n", status.VectorIndexSize)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d   # storage on disk\n", *status.DiskUsageBytes)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			fmt.Printf("embedding_provider: %s\n", status.Config.EmbeddingProvider)
			if status.Config.EmbeddingDimensions > 0 {
				fmt.Printf("embedding_dims:     %d\n", status.Config.EmbeddingDimensions)
			}
			fmt.Printf("llm_provider:       %s\n", status.Config.LLMProvider)
			fmt.Printf("llm_model:          %s\n", status.Config.LLMModel)
			if status.Config.MatchCount > 0 {
				fmt.Printf("match_count:        %d\n", status.Config.MatchCount)
			}
			if status.Config.MaxSources > 0 {
				fmt.Printf("max_sources:        %d\n", status.Config.MaxSources)
			}
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:      %s\n", status.Config.DatabasePath)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Store     store.PassageStore
	Embedder  embedding.Embedder
	Generator llm.Generator
	Pipeline  *rag.Pipeline
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Generator != nil {
		_ = c.Generator.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	st, err := store.NewSQLiteStore(cfg.Storage.DatabasePath, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	generator, err := llm.NewGenerator(&cfg.LLM, logger)
	if err != nil {
		_ = embedder.Close()
		_ = st.Close()
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	pipeline := rag.NewPipeline(embedder, st, generator, &cfg.RAG, logger)

	logger.Info("components initialized",
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Int("index_size", st.IndexSize()),
	)

	return &Components{
		Store:     st,
		Embedder:  embedder,
		Generator: generator,
		Pipeline:  pipeline,
	}, nil
}

func printUsage() {
	fmt.Println(`eiyo - Grounded nutrition question answering

Usage:
  eiyo server [flags]            Start the HTTP server
  eiyo ask [flags] <question>    Ask a nutrition question
  eiyo load [flags] <file>       Load passages from a JSON file
  eiyo status [flags]            Show storage/index status
  eiyo version                   Show version
  eiyo help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/eiyo/config.yaml)
  --debug            Enable debug logging (retrieval counts, generation timing, etc.)

Ask Flags:
  --config string    Config file path (for direct pipeline mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to run the pipeline directly.
  --output string    Output format: text or json (default: text)

Load Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Examples:
  eiyo server
  eiyo ask "how much vitamin D do adults need daily"
  eiyo ask --output json "sources of dietary fiber"
  eiyo load passages.json
  eiyo status
  eiyo status --output json`)
}
