package widget

import "legal-sentiment/internal/models"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBusy
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBusy:
		return "busy"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SubmissionState is Idle, Busy, Succeeded(Results) or Failed(Message).
// Results is only meaningful when Succeeded and Message only when Failed.
type SubmissionState struct {
	Phase   Phase
	Results []models.AnalysisResult
	Message string
}

func idle() SubmissionState {
	return SubmissionState{Phase: PhaseIdle}
}

func busy() SubmissionState {
	return SubmissionState{Phase: PhaseBusy}
}

func succeeded(results []models.AnalysisResult) SubmissionState {
	return SubmissionState{Phase: PhaseSucceeded, Results: results}
}

func failed(message string) SubmissionState {
	return SubmissionState{Phase: PhaseFailed, Message: message}
}
