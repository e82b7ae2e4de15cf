package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"legal-sentiment/internal/logger"
	"legal-sentiment/internal/metrics"
	"legal-sentiment/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	sentimentPrompt = `Analyze the sentiment of the following legal text. Classify the sentiment as positive, negative, or neutral.

Text:
%s

Sentiment:`

	summaryPrompt = `Summarize the following legal text.

Text:
%s

Summary:`
)

// TextGenerator completes a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, file models.UploadedFile) (string, error)
}

// Analyzer produces a sentiment and a summary for every uploaded document.
type Analyzer struct {
	extractor   TextExtractor
	model       TextGenerator
	sanitizer   *TextSanitizer
	charLimit   int
	concurrency int
}

func NewAnalyzer(extractor TextExtractor, model TextGenerator, sanitizer *TextSanitizer, charLimit, concurrency int) *Analyzer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Analyzer{
		extractor:   extractor,
		model:       model,
		sanitizer:   sanitizer,
		charLimit:   charLimit,
		concurrency: concurrency,
	}
}

// AnalyzeFiles processes files concurrently and returns one result per file
// in input order. A failing file yields an error entry; it never fails the batch.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, files []models.UploadedFile) []models.AnalysisResult {
	results := make([]models.AnalysisResult, len(files))
	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(i int, file models.UploadedFile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = a.analyzeFile(ctx, file)
		}(i, file)
	}
	wg.Wait()

	return results
}

// analyzeFile reports a panic as the file's error entry.
func (a *Analyzer) analyzeFile(ctx context.Context, file models.UploadedFile) (result models.AnalysisResult) {
	fields := logrus.Fields{
		"filename": file.Filename,
		"size":     len(file.Data),
	}

	defer func() {
		if r := recover(); r != nil {
			fields["panic"] = fmt.Sprint(r)
			logger.WithFields(fields).Error("Recovered from panic while analyzing file")
			metrics.RecordFile(metrics.OutcomeFailed)
			result = models.AnalysisResult{Filename: file.Filename, Error: fileErrorMessage(fmt.Errorf("%v", r))}
		}
	}()

	text, err := a.extractor.ExtractText(ctx, file)
	if err != nil {
		fields["error"] = err.Error()
		logger.WithFields(fields).Error("Failed to extract document text")
		metrics.RecordFile(metrics.OutcomeFailed)
		return models.AnalysisResult{Filename: file.Filename, Error: fileErrorMessage(err)}
	}

	text = a.sanitizer.Truncate(text, a.charLimit)

	sentiment, err := a.model.Generate(ctx, fmt.Sprintf(sentimentPrompt, text))
	if err != nil {
		logger.WithFields(fields).WithField("error", err.Error()).Warn("Sentiment analysis failed")
		metrics.RecordPromptFailure("sentiment")
		sentiment = fmt.Sprintf("Sentiment analysis failed: %v", err)
	}

	summary, err := a.model.Generate(ctx, fmt.Sprintf(summaryPrompt, text))
	if err != nil {
		logger.WithFields(fields).WithField("error", err.Error()).Warn("Summarization failed")
		metrics.RecordPromptFailure("summary")
		summary = fmt.Sprintf("Summarization failed: %v", err)
	}

	logger.WithFields(fields).Info("Document analyzed")
	metrics.RecordFile(metrics.OutcomeAnalyzed)

	return models.AnalysisResult{
		Filename:  file.Filename,
		Sentiment: a.sanitizer.StripMarkup(sentiment),
		Summary:   a.sanitizer.StripMarkup(summary),
	}
}

// fileErrorMessage prefixes extraction errors the way clients expect:
// rejected input with "HTTP Error: ", anything unexpected with
// "Error processing file: ".
func fileErrorMessage(err error) string {
	var (
		unsupported *UnsupportedTypeError
		readErr     *ReadError
	)
	if errors.As(err, &unsupported) || errors.As(err, &readErr) {
		return "HTTP Error: " + err.Error()
	}
	return "Error processing file: " + err.Error()
}
