package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"docparse/internal/batch"
	"docparse/internal/extract"
	"docparse/internal/ocr"
)

func main() {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("docparse-batch")
	var (
		inputDir      = fs.StringLong("input", "invoices", "Folder of documents to process")
		outputCSV     = fs.StringLong("output", "results.csv", "Output CSV path")
		engineKind    = fs.StringLong("engine", "azure", "OCR engine: 'azure', 'gemini' or 'ollama'")
		azureEndpoint = fs.StringLong("azure-endpoint", "", "Azure Computer Vision endpoint")
		azureKey      = fs.StringLong("azure-key", "", "Azure Computer Vision API key (or set AZURE_OCR_KEY env var)")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama vision model name")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("DOCPARSE"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *azureEndpoint == "" {
		*azureEndpoint = os.Getenv("AZURE_OCR_ENDPOINT")
	}
	if *azureKey == "" {
		*azureKey = os.Getenv("AZURE_OCR_KEY")
	}
	if *geminiKey == "" {
		*geminiKey = os.Getenv("GEMINI_API_KEY")
	}

	engine, err := ocr.NewEngine(ocr.EngineConfig{
		Kind:          *engineKind,
		AzureEndpoint: *azureEndpoint,
		AzureKey:      *azureKey,
		GeminiKey:     *geminiKey,
		GeminiModel:   *geminiModel,
		OllamaURL:     *ollamaURL,
		OllamaModel:   *ollamaModel,
	})
	if err != nil {
		slog.Error("Failed to initialize OCR engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	extractor, err := extract.New(extract.DefaultConfig())
	if err != nil {
		slog.Error("Failed to initialize extractor", "error", err)
		os.Exit(1)
	}

	out, err := os.Create(*outputCSV)
	if err != nil {
		slog.Error("Failed to create output file", "path", *outputCSV, "error", err)
		os.Exit(1)
	}
	defer out.Close()

	processor := batch.NewProcessor(engine, extractor)
	if err := processor.Run(*inputDir, out); err != nil {
		slog.Error("Batch run failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Finished", "output", *outputCSV)
}
