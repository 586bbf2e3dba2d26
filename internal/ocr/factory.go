package ocr

import "fmt"

// EngineConfig selects and configures an OCR backend
type EngineConfig struct {
	Kind          string // "azure", "gemini" or "ollama"
	AzureEndpoint string
	AzureKey      string
	GeminiKey     string
	GeminiModel   string
	OllamaURL     string
	OllamaModel   string
}

// NewEngine creates the configured OCR backend
func NewEngine(cfg EngineConfig) (Engine, error) {
	switch cfg.Kind {
	case "azure":
		return NewAzure(cfg.AzureEndpoint, cfg.AzureKey)
	case "gemini":
		return NewGemini(cfg.GeminiKey, cfg.GeminiModel)
	case "ollama":
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	default:
		return nil, fmt.Errorf("unknown OCR engine %q (valid: azure, gemini, ollama)", cfg.Kind)
	}
}
