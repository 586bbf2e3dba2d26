package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"docparse/internal/document"
	"docparse/internal/extract"
	"docparse/internal/ocr"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Optional .env file, flags and real env vars still win
	_ = godotenv.Load()

	fs := ff.NewFlagSet("docparse")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		dbPath        = fs.StringLong("db", "docparse.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./documents", "Storage directory path")
		engineKind    = fs.StringLong("engine", "azure", "OCR engine: 'azure', 'gemini' or 'ollama'")
		azureEndpoint = fs.StringLong("azure-endpoint", "", "Azure Computer Vision endpoint")
		azureKey      = fs.StringLong("azure-key", "", "Azure Computer Vision API key (or set AZURE_OCR_KEY env var)")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama vision model name")
		apiKey        = fs.StringLong("api-key", "", "API key clients must send in the x-api-key header (empty disables auth)")
		vendorWindow  = fs.IntLong("vendor-window", 8, "Number of top lines scanned for the vendor name")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("DOCPARSE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	slog.Info("Initializing database...")
	db, err := document.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	engine, err := newEngine(*engineKind, *azureEndpoint, *azureKey, *geminiKey, *geminiModel, *ollamaURL, *ollamaModel)
	if err != nil {
		slog.Error("Failed to initialize OCR engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	extractorCfg := extract.DefaultConfig()
	extractorCfg.VendorWindow = *vendorWindow
	extractor, err := extract.New(extractorCfg)
	if err != nil {
		slog.Error("Failed to initialize extractor", "error", err)
		os.Exit(1)
	}

	slog.Info("Initializing storage...")
	store, err := document.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	service := document.NewService(db, engine, extractor, store)
	server := document.NewServer(service, document.APIKeyAuth{Key: *apiKey})

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *apiKey != "" {
		slog.Info("API key auth enabled")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}

// newEngine builds the OCR backend, falling back to conventional env vars
// for the credentials
func newEngine(kind, azureEndpoint, azureKey, geminiKey, geminiModel, ollamaURL, ollamaModel string) (ocr.Engine, error) {
	switch kind {
	case "azure":
		if azureEndpoint == "" {
			azureEndpoint = os.Getenv("AZURE_OCR_ENDPOINT")
		}
		if azureKey == "" {
			azureKey = os.Getenv("AZURE_OCR_KEY")
		}
		slog.Info("Initializing Azure OCR engine...", "endpoint", azureEndpoint)
	case "gemini":
		if geminiKey == "" {
			geminiKey = os.Getenv("GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini engine...", "model", geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama engine...", "url", ollamaURL, "model", ollamaModel)
	}

	return ocr.NewEngine(ocr.EngineConfig{
		Kind:          kind,
		AzureEndpoint: azureEndpoint,
		AzureKey:      azureKey,
		GeminiKey:     geminiKey,
		GeminiModel:   geminiModel,
		OllamaURL:     ollamaURL,
		OllamaModel:   ollamaModel,
	})
}
