package cli

import (
	"io"
	"sync"
	"time"

	"legal-sentiment/internal/widget"

	"github.com/schollz/progressbar/v3"
)

// busyIndicator shows a spinner on w for as long as the session is busy.
type busyIndicator struct {
	w io.Writer

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func newBusyIndicator(w io.Writer) *busyIndicator {
	return &busyIndicator{w: w}
}

// Update is a widget.Session change listener.
func (b *busyIndicator) Update(v widget.View) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case v.Busy && b.stop == nil:
		b.stop = make(chan struct{})
		b.done = make(chan struct{})
		go b.spin(v.ButtonLabel, b.stop, b.done)
	case !v.Busy && b.stop != nil:
		close(b.stop)
		<-b.done
		b.stop, b.done = nil, nil
	}
}

func (b *busyIndicator) spin(label string, stop, done chan struct{}) {
	defer close(done)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			_ = bar.Finish()
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func (b *busyIndicator) running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stop != nil
}
