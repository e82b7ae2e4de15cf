package models

// AnalysisResult is one per-file outcome. Either Error is set, or
// Sentiment and Summary are.
type AnalysisResult struct {
	Filename  string `json:"filename"`
	Sentiment string `json:"sentiment,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (r AnalysisResult) Failed() bool {
	return r.Error != ""
}

type AnalyzeResponse struct {
	Results []AnalysisResult `json:"results"`
}

// ErrorResponse is the failure body of the analysis endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type StatusResponse struct {
	Message string `json:"message"`
}

// UploadedFile is a file received by the analysis service.
type UploadedFile struct {
	Filename string
	Data     []byte
}
