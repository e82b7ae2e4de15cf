// Package client talks to the document analysis endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"legal-sentiment/internal/logger"
	"legal-sentiment/internal/models"
	"legal-sentiment/internal/widget"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"
)

// FieldFiles is the multipart field every file is sent under.
const FieldFiles = "files"

// MsgGenericFailure is used when a failed response carries no usable detail.
const MsgGenericFailure = "An error occurred during analysis."

// TransportError means the request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError is a non-success response from the analysis service.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return MsgGenericFailure
}

// Client posts selections to the analysis endpoint. It performs exactly one
// request per call and never retries.
type Client struct {
	httpClient *http.Client
	url        string
}

func New(url string) *Client {
	return &Client{
		httpClient: cleanhttp.DefaultPooledClient(),
		url:        url,
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Analyze sends every file as a "files" part, in order, and maps the outcome.
func (c *Client) Analyze(ctx context.Context, files []widget.File) ([]models.AnalysisResult, error) {
	body, contentType, err := encodeFiles(files)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	logger.WithFields(logrus.Fields{
		"url":   c.url,
		"files": len(files),
		"bytes": body.Len(),
	}).Debug("Posting files to analysis service")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &ServiceError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
		logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"detail": serr.Detail,
		}).Warn("Analysis service reported failure")
		return nil, serr
	}

	var decoded models.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return decoded.Results, nil
}

func encodeFiles(files []widget.File) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for _, f := range files {
		if err := writePart(mw, f); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return body, mw.FormDataContentType(), nil
}

func writePart(mw *multipart.Writer, f widget.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name(), err)
	}
	defer rc.Close()

	part, err := mw.CreateFormFile(FieldFiles, f.Name())
	if err != nil {
		return fmt.Errorf("failed to create form part for %s: %w", f.Name(), err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("failed to read %s: %w", f.Name(), err)
	}
	return nil
}

// readDetail extracts a string "detail" field. Anything else yields "".
func readDetail(r io.Reader) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
