package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"legal-sentiment/internal/logger"
	"legal-sentiment/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetOutput(io.Discard)
}

type fakeModel struct {
	mu           sync.Mutex
	prompts      []string
	sentiment    string
	summary      string
	sentimentErr error
	summaryErr   error
	delay        time.Duration
}

func (m *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if strings.HasPrefix(prompt, "Analyze the sentiment") {
		return m.sentiment, m.sentimentErr
	}
	return m.summary, m.summaryErr
}

func newTestAnalyzer(model TextGenerator, charLimit int) *Analyzer {
	ts := NewTextSanitizer()
	return NewAnalyzer(NewExtractor(nil, nil, ts), model, ts, charLimit, 2)
}

func TestAnalyzer_AnalyzeFiles(t *testing.T) {
	model := &fakeModel{sentiment: "negative", summary: "A breach of contract claim."}
	a := newTestAnalyzer(model, 4000)

	results := a.AnalyzeFiles(context.Background(), []models.UploadedFile{
		{Filename: "claim.txt", Data: []byte("The defendant failed to deliver.")},
		{Filename: "image.gif", Data: []byte("GIF89a")},
		{Filename: "notes.md", Data: []byte("# Notes\nSettlement rejected.")},
		{Filename: "empty.txt", Data: []byte("   ")},
	})

	require.Len(t, results, 4)
	assert.Equal(t, models.AnalysisResult{Filename: "claim.txt", Sentiment: "negative", Summary: "A breach of contract claim."}, results[0])
	assert.Equal(t, models.AnalysisResult{Filename: "image.gif", Error: "HTTP Error: Unsupported file type: .gif"}, results[1])
	assert.Equal(t, "notes.md", results[2].Filename)
	assert.False(t, results[2].Failed())
	assert.Equal(t, models.AnalysisResult{Filename: "empty.txt", Error: "Error processing file: " + ErrNoText.Error()}, results[3])
}

func TestAnalyzer_PromptFailuresDegradeFields(t *testing.T) {
	model := &fakeModel{
		sentimentErr: errors.New("rate limited"),
		summary:      "Lease terms.",
	}
	a := newTestAnalyzer(model, 4000)

	results := a.AnalyzeFiles(context.Background(), []models.UploadedFile{
		{Filename: "lease.txt", Data: []byte("The tenant shall pay rent.")},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "Sentiment analysis failed: rate limited", results[0].Sentiment)
	assert.Equal(t, "Lease terms.", results[0].Summary)
	assert.Empty(t, results[0].Error)

	model.summaryErr = errors.New("timeout")
	results = a.AnalyzeFiles(context.Background(), []models.UploadedFile{
		{Filename: "lease.txt", Data: []byte("The tenant shall pay rent.")},
	})
	assert.Equal(t, "Summarization failed: timeout", results[0].Summary)
}

func TestAnalyzer_TruncatesPromptText(t *testing.T) {
	model := &fakeModel{sentiment: "neutral", summary: "s"}
	a := newTestAnalyzer(model, 10)

	a.AnalyzeFiles(context.Background(), []models.UploadedFile{
		{Filename: "long.txt", Data: []byte("0123456789ABCDEFGHIJ")},
	})

	require.Len(t, model.prompts, 2)
	for _, p := range model.prompts {
		assert.Contains(t, p, "0123456789\n")
		assert.NotContains(t, p, "ABCDEFGHIJ")
	}
}

func TestAnalyzer_PreservesOrderUnderConcurrency(t *testing.T) {
	model := &fakeModel{sentiment: "neutral", summary: "s", delay: 5 * time.Millisecond}
	a := newTestAnalyzer(model, 4000)

	var files []models.UploadedFile
	names := []string{"e.txt", "d.txt", "c.txt", "b.txt", "a.txt", "f.txt"}
	for _, n := range names {
		files = append(files, models.UploadedFile{Filename: n, Data: []byte("text of " + n)})
	}

	results := a.AnalyzeFiles(context.Background(), files)

	require.Len(t, results, len(names))
	for i, n := range names {
		assert.Equal(t, n, results[i].Filename)
	}
}

type countingExtractor struct {
	active, peak atomic.Int32
}

func (c *countingExtractor) ExtractText(ctx context.Context, file models.UploadedFile) (string, error) {
	n := c.active.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	c.active.Add(-1)
	return "text", nil
}

func TestAnalyzer_BoundsConcurrency(t *testing.T) {
	ex := &countingExtractor{}
	a := NewAnalyzer(ex, &fakeModel{}, NewTextSanitizer(), 4000, 3)

	files := make([]models.UploadedFile, 10)
	for i := range files {
		files[i] = models.UploadedFile{Filename: "f.txt"}
	}
	a.AnalyzeFiles(context.Background(), files)

	assert.LessOrEqual(t, ex.peak.Load(), int32(3))
	assert.GreaterOrEqual(t, ex.peak.Load(), int32(1))
}

func TestAnalyzer_EmptyBatch(t *testing.T) {
	a := newTestAnalyzer(&fakeModel{}, 4000)
	assert.Empty(t, a.AnalyzeFiles(context.Background(), nil))
}

func TestAnalyzer_RealDocumentsAndMalformedPDF(t *testing.T) {
	model := &fakeModel{sentiment: "negative", summary: "s"}
	a := newTestAnalyzer(model, 4000)

	results := a.AnalyzeFiles(context.Background(), []models.UploadedFile{
		{Filename: "ruling.docx", Data: buildDocx(t, "The contract is void.")},
		{Filename: "broken.pdf", Data: []byte(malformedPDF)},
		{Filename: "order.pdf", Data: buildPDF(t, "The motion is denied.", "So ordered.")},
	})

	require.Len(t, results, 3)
	assert.Equal(t, models.AnalysisResult{Filename: "ruling.docx", Sentiment: "negative", Summary: "s"}, results[0])
	assert.Equal(t, "broken.pdf", results[1].Filename)
	assert.True(t, strings.HasPrefix(results[1].Error, "HTTP Error: Error reading PDF file: malformed PDF"), results[1].Error)
	assert.Equal(t, models.AnalysisResult{Filename: "order.pdf", Sentiment: "negative", Summary: "s"}, results[2])

	model.mu.Lock()
	defer model.mu.Unlock()
	var sawDocx, sawPDF bool
	for _, p := range model.prompts {
		sawDocx = sawDocx || strings.Contains(p, "The contract is void.")
		sawPDF = sawPDF || strings.Contains(p, "The motion is denied.")
	}
	assert.True(t, sawDocx)
	assert.True(t, sawPDF)
}

type panickingExtractor struct{}

func (panickingExtractor) ExtractText(ctx context.Context, file models.UploadedFile) (string, error) {
	if file.Filename == "bad.bin" {
		panic("index out of range")
	}
	return "text", nil
}

func TestAnalyzer_RecoversPanicPerFile(t *testing.T) {
	a := NewAnalyzer(panickingExtractor{}, &fakeModel{sentiment: "neutral", summary: "s"}, NewTextSanitizer(), 4000, 2)

	results := a.AnalyzeFiles(context.Background(), []models.UploadedFile{
		{Filename: "bad.bin"},
		{Filename: "good.txt"},
	})

	require.Len(t, results, 2)
	assert.Equal(t, models.AnalysisResult{Filename: "bad.bin", Error: "Error processing file: index out of range"}, results[0])
	assert.False(t, results[1].Failed())
}
