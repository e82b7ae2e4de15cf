package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"legal-sentiment/internal/logger"
	"legal-sentiment/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const filesField = "files"

// BatchAnalyzer analyzes a batch of uploaded documents.
type BatchAnalyzer interface {
	AnalyzeFiles(ctx context.Context, files []models.UploadedFile) []models.AnalysisResult
}

type AnalyzeHandler struct {
	analyzer       BatchAnalyzer
	maxUploadBytes int64
}

// NewAnalyzeHandler rejects request bodies above maxUploadBytes; zero disables the cap.
func NewAnalyzeHandler(analyzer BatchAnalyzer, maxUploadBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, maxUploadBytes: maxUploadBytes}
}

// Root answers the liveness probe the web client pings.
func (h *AnalyzeHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Message: "Analysis service is running"})
}

func (h *AnalyzeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Message: "ok"})
}

// AnalyzeSentiment reads every "files" part and returns one result per file,
// in upload order. Per-file problems are reported inside the results.
func (h *AnalyzeHandler) AnalyzeSentiment(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	form, err := c.MultipartForm()
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		abortWithDetail(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Upload exceeds the %d MB limit.", tooLarge.Limit>>20))
		return
	}
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Invalid multipart body for /analyze-sentiment/")
		abortWithDetail(c, http.StatusBadRequest, fmt.Sprintf("Invalid multipart body: %v", err))
		return
	}

	headers := form.File[filesField]
	if len(headers) == 0 {
		abortWithDetail(c, http.StatusBadRequest, "No files provided.")
		return
	}

	logger.WithFields(logrus.Fields{
		"fileCount": len(headers),
	}).Info("Received /analyze-sentiment/ request")

	files := make([]models.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"filename": fh.Filename,
				"error":    err.Error(),
			}).Error("Failed to read uploaded file")
			abortWithDetail(c, http.StatusBadRequest, fmt.Sprintf("Failed to read %s", fh.Filename))
			return
		}
		files = append(files, models.UploadedFile{Filename: fh.Filename, Data: data})
	}

	results := h.analyzer.AnalyzeFiles(c.Request.Context(), files)

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	logger.WithFields(logrus.Fields{
		"fileCount":   len(results),
		"failedCount": failed,
	}).Info("Analysis request completed")

	c.JSON(http.StatusOK, models.AnalyzeResponse{Results: results})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Detail: detail})
}
