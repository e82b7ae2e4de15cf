package main

import (
	"log"

	"legal-sentiment/internal/config"
	"legal-sentiment/internal/handlers"
	"legal-sentiment/internal/logger"
	"legal-sentiment/internal/ocr"
	"legal-sentiment/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unioffice/common/license"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger.Init(cfg.LogLevel)

	if cfg.OpenAI.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; every prompt will fail")
	}

	openaiService := services.NewOpenAIService(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.ModelText, cfg.OpenAI.ModelImage)
	textSanitizer := services.NewTextSanitizer()

	var ocrEngine services.OCR
	if cfg.OCR.Enabled {
		ocrEngine = ocr.New(cfg.OCR.Language)
	}
	licensed := false
	if cfg.Unidoc.LicenseAPIKey != "" {
		if err := license.SetMeteredKey(cfg.Unidoc.LicenseAPIKey); err != nil {
			logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to register unioffice license, reading .docx XML directly")
		} else {
			licensed = true
		}
	}

	extractor := services.NewExtractor(ocrEngine, openaiService, textSanitizer).WithUnioffice(licensed)
	analyzer := services.NewAnalyzer(extractor, openaiService, textSanitizer,
		cfg.Processing.PromptCharLimit, cfg.Processing.Concurrency)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(analyzer, int64(cfg.Processing.MaxUploadMB)<<20)

	logger.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"ocr":         cfg.OCR.Enabled,
		"concurrency": cfg.Processing.Concurrency,
		"unioffice":   licensed,
	}).Info("Analysis service listening")

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
