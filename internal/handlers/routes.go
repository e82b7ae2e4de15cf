package handlers

import (
	"legal-sentiment/internal/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the analysis service router. maxUploadBytes caps the
// request body of an analysis upload.
func NewRouter(analyzer BatchAnalyzer, maxUploadBytes int64) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(CORSMiddleware())

	h := NewAnalyzeHandler(analyzer, maxUploadBytes)
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/analyze-sentiment/", h.AnalyzeSentiment)

	return router
}
