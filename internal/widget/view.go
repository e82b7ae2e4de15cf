package widget

import "legal-sentiment/internal/models"

const (
	LabelAnalyze   = "Analyze Sentiment"
	LabelAnalyzing = "Analyzing..."
)

// View is a render-ready snapshot of a Session. Only IsDragging is
// exposed from the drag counter.
type View struct {
	Files       []string
	IsDragging  bool
	Busy        bool
	CanSubmit   bool
	ButtonLabel string
	Error       string
	Results     []models.AnalysisResult
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	isBusy := s.state.Phase == PhaseBusy
	v := View{
		Files:       s.selection.Names(),
		IsDragging:  s.drag.Dragging(),
		Busy:        isBusy,
		CanSubmit:   !s.selection.Empty() && !isBusy,
		ButtonLabel: LabelAnalyze,
	}
	if isBusy {
		v.ButtonLabel = LabelAnalyzing
	}

	switch s.state.Phase {
	case PhaseFailed:
		v.Error = s.state.Message
	case PhaseSucceeded:
		v.Results = append([]models.AnalysisResult(nil), s.state.Results...)
	}
	return v
}
