package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/adityamenon/formulaace/internal/bookmarks"
	"github.com/adityamenon/formulaace/internal/llm"
	"github.com/adityamenon/formulaace/internal/repository"
	"github.com/adityamenon/formulaace/internal/server"
	"github.com/adityamenon/formulaace/internal/storage"
)

func main() {
	addr := flag.String("addr", "0.0.0.0:8080", "HTTP listen address")
	backend := flag.String("store", "sqlite", "Storage backend: memory, sqlite or badger")
	dbPath := flag.String("db", "formulaace.db", "Database path (file for sqlite, directory for badger)")
	dev := flag.Bool("dev", false, "Use development logging")
	geminiModel := flag.String("gemini-model", llm.DefaultGeminiModel, "Gemini completion model")
	openaiModel := flag.String("openai-model", llm.DefaultOpenAIModel, "OpenAI completion model")
	flag.Parse()

	logger, err := newLogger(*dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := openStore(*backend, *dbPath)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer store.Close()
	logger.Info("storage ready",
		zap.String("backend", store.Backend()), zap.String("path", *dbPath))

	opts := server.Options{
		Content: repository.NewContent(store),
		Chat:    repository.NewChat(store),
		Todos:   repository.NewTodo(store),
		Logger:  logger,
	}

	// The gateway providers are optional: the catalog, chat history and
	// todos keep working without them.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		completer, err := llm.NewOpenAI(key, logger, llm.WithOpenAIModel(*openaiModel))
		if err != nil {
			logger.Fatal("create openai client", zap.Error(err))
		}
		opts.Completer = completer
	} else {
		logger.Warn("OPENAI_API_KEY not set; chat completion disabled")
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		asker, err := llm.NewGemini(context.Background(), key, *geminiModel, logger)
		if err != nil {
			logger.Fatal("create gemini client", zap.Error(err))
		}
		opts.Asker = asker
	} else {
		logger.Warn("GEMINI_API_KEY not set; ask endpoint disabled")
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if supabaseURL != "" && supabaseKey != "" {
		svc, err := bookmarks.New(supabaseURL, supabaseKey, logger)
		if err != nil {
			logger.Fatal("create bookmarks service", zap.Error(err))
		}
		opts.Bookmarks = svc
	} else {
		logger.Warn("SUPABASE_URL/SUPABASE_SERVICE_ROLE_KEY not set; bookmarks disabled")
	}

	srv := server.New(opts)
	if err := srv.Start(*addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openStore(backend, path string) (storage.Store, error) {
	switch backend {
	case "memory":
		return storage.NewMemory(), nil
	case "sqlite":
		return storage.NewSQLite(path)
	case "badger":
		return storage.NewBadger(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
