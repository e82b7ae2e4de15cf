package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"legal-sentiment/internal/logger"
	"legal-sentiment/internal/models"
	"legal-sentiment/internal/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetOutput(io.Discard)
}

type receivedPart struct {
	filename string
	content  string
}

func recordParts(t *testing.T, r *http.Request) []receivedPart {
	t.Helper()
	mr, err := r.MultipartReader()
	require.NoError(t, err)

	var parts []receivedPart
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, FieldFiles, p.FormName())
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, receivedPart{filename: p.FileName(), content: string(data)})
	}
	return parts
}

func TestClient_AnalyzeSuccess(t *testing.T) {
	var parts []receivedPart
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		parts = recordParts(t, r)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"results":[{"filename":"a.pdf","sentiment":"negative","summary":"..."},{"filename":"b.txt","error":"Unsupported file type: .xyz"}]}`)
	}))
	defer srv.Close()

	files := []widget.File{
		widget.MemoryFile{FileName: "a.pdf", Data: []byte("pdf bytes")},
		widget.MemoryFile{FileName: "b.txt", Data: []byte("text bytes")},
	}

	results, err := New(srv.URL).Analyze(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, []receivedPart{
		{filename: "a.pdf", content: "pdf bytes"},
		{filename: "b.txt", content: "text bytes"},
	}, parts)
	assert.Equal(t, []models.AnalysisResult{
		{Filename: "a.pdf", Sentiment: "negative", Summary: "..."},
		{Filename: "b.txt", Error: "Unsupported file type: .xyz"},
	}, results)
}

func TestClient_AnalyzeLocalFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "brief.md")
	second := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(first, []byte("# brief"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("notes"), 0644))

	var parts []receivedPart
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts = recordParts(t, r)
		io.WriteString(w, `{"results":[]}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Analyze(context.Background(), widget.LocalFiles(first, second))
	require.NoError(t, err)
	assert.Equal(t, []receivedPart{
		{filename: "brief.md", content: "# brief"},
		{filename: "notes.txt", content: "notes"},
	}, parts)
}

func TestClient_AnalyzeServiceFailure(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantMsg    string
	}{
		{name: "detail string", status: http.StatusBadRequest, body: `{"detail":"bad file"}`, wantDetail: "bad file", wantMsg: "bad file"},
		{name: "no detail", status: http.StatusInternalServerError, body: `{"error":"boom"}`, wantMsg: MsgGenericFailure},
		{name: "structured detail", status: http.StatusUnprocessableEntity, body: `{"detail":[{"loc":["body","files"]}]}`, wantMsg: MsgGenericFailure},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: MsgGenericFailure},
		{name: "empty body", status: http.StatusServiceUnavailable, body: ``, wantMsg: MsgGenericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			files := []widget.File{widget.MemoryFile{FileName: "a.pdf"}}
			results, err := New(srv.URL).Analyze(context.Background(), files)

			assert.Nil(t, results)
			var serr *ServiceError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.status, serr.StatusCode)
			assert.Equal(t, tt.wantDetail, serr.Detail)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestClient_AnalyzeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).Analyze(context.Background(), []widget.File{widget.MemoryFile{FileName: "a.pdf"}})

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, terr.Err.Error(), err.Error())
}

func TestClient_AnalyzeUndecodableSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Analyze(context.Background(), []widget.File{widget.MemoryFile{FileName: "a.pdf"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode analysis response")
}

func TestClient_AnalyzeMissingLocalFile(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := New(srv.URL).Analyze(context.Background(), widget.LocalFiles(filepath.Join(t.TempDir(), "gone.pdf")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open gone.pdf")
	assert.False(t, called)
}

func TestClient_DrivesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"bad file"}`)
	}))
	defer srv.Close()

	s := widget.NewSession(New(srv.URL))
	s.SetSelection(widget.Selection{widget.MemoryFile{FileName: "a.pdf"}})

	require.Error(t, s.Submit(context.Background()))
	state := s.State()
	assert.Equal(t, widget.PhaseFailed, state.Phase)
	assert.Equal(t, "bad file", state.Message)
	assert.False(t, s.View().Busy)
}
