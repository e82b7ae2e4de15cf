// Package widget holds the state behind the upload-and-review screen: the
// current file selection, the drag gesture over the drop zone, and the
// single-flight submission to the analysis service.
package widget

import (
	"context"
	"fmt"
	"sync"

	"legal-sentiment/internal/logger"
	"legal-sentiment/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Submitter sends a selection to the analysis service.
type Submitter interface {
	Analyze(ctx context.Context, files []File) ([]models.AnalysisResult, error)
}

// Session owns the selection, drag and submission state of one screen.
// Its methods may be called from any goroutine; the request itself runs
// outside the lock so drag and selection events keep flowing while busy.
type Session struct {
	submitter Submitter

	mu         sync.Mutex
	selection  Selection
	generation string
	drag       DragCounter
	state      SubmissionState
	listeners  []func(View)

	// notifyMu orders deliveries so listeners always end on the latest View.
	notifyMu sync.Mutex
}

func NewSession(submitter Submitter) *Session {
	return &Session{
		submitter:  submitter,
		generation: uuid.NewString(),
		state:      idle(),
	}
}

// OnChange registers fn to receive a fresh View after every state change.
// Deliveries are serialized; fn must not change the session.
func (s *Session) OnChange(fn func(View)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// SetSelection replaces the selection and clears any previous results or
// error. A running submission stays busy; its response will be discarded.
func (s *Session) SetSelection(files Selection) {
	s.mu.Lock()
	s.setSelectionLocked(files)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) setSelectionLocked(files Selection) {
	if files != nil {
		files = append(Selection(nil), files...)
	}
	s.selection = files
	s.generation = uuid.NewString()
	if s.state.Phase != PhaseBusy {
		s.state = idle()
	}

	logger.WithFields(logrus.Fields{
		"files":      len(files),
		"generation": s.generation,
	}).Debug("Selection replaced")
}

func (s *Session) OnDragEnter(items int) {
	s.mu.Lock()
	s.drag.Enter(items)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) OnDragLeave() {
	s.mu.Lock()
	s.drag.Leave()
	s.mu.Unlock()
	s.notify()
}

// OnDragOver reports whether the default drop rejection must be suppressed.
func (s *Session) OnDragOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Over()
}

// OnDrop ends the drag gesture. Dropped files, if any, become the new selection.
func (s *Session) OnDrop(files Selection) {
	s.mu.Lock()
	s.drag.Drop()
	if len(files) > 0 {
		s.setSelectionLocked(files)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

func (s *Session) State() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit sends the current selection and blocks until the outcome is stored.
// It refuses with a *ValidationError when nothing is selected or another
// submission is busy. Controller-level failures are returned after being
// recorded as the Failed state; per-file errors are part of a successful result.
func (s *Session) Submit(ctx context.Context) (err error) {
	s.mu.Lock()
	if s.state.Phase == PhaseBusy {
		s.mu.Unlock()
		return &ValidationError{Message: MsgSelectFiles, InFlight: true}
	}
	if s.selection.Empty() {
		s.state = failed(MsgSelectFiles)
		s.mu.Unlock()
		s.notify()
		return &ValidationError{Message: MsgSelectFiles}
	}
	s.state = busy()
	files := s.selection
	generation := s.generation
	s.mu.Unlock()
	s.notify()

	logger.WithFields(logrus.Fields{
		"files":      len(files),
		"generation": generation,
	}).Info("Submitting files for analysis")

	var results []models.AnalysisResult
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analysis aborted: %v", r)
		}
		err = s.complete(generation, results, err)
	}()

	results, err = s.submitter.Analyze(ctx, files)
	return err
}

// complete stores the outcome of a submission and always leaves Busy.
func (s *Session) complete(generation string, results []models.AnalysisResult, err error) error {
	s.mu.Lock()
	fields := logrus.Fields{"generation": generation}

	switch {
	case generation != s.generation:
		// The selection was replaced while busy; its results and error were
		// already cleared and this response belongs to files no longer shown.
		s.state = idle()
		err = ErrSuperseded
		logger.WithFields(fields).Warn("Discarding analysis response for a replaced selection")
	case err != nil:
		s.state = failed(err.Error())
		fields["error"] = err.Error()
		logger.WithFields(fields).Error("Analysis failed")
	default:
		s.state = succeeded(results)
		fields["results"] = len(results)
		logger.WithFields(fields).Info("Analysis completed")
	}

	s.mu.Unlock()
	s.notify()
	return err
}

func (s *Session) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	listeners := append(([]func(View))(nil), s.listeners...)
	view := s.viewLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}
