package widget

import "errors"

// MsgSelectFiles is shown when a submission is attempted without files or
// while another one is still running.
const MsgSelectFiles = "Please select files to upload."

// ValidationError is a precondition failure of Submit. No request is sent.
type ValidationError struct {
	Message string
	// InFlight is set when the submission was refused because another one is busy.
	InFlight bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrSuperseded is returned by Submit when the selection changed while the
// request was outstanding and its response was discarded.
var ErrSuperseded = errors.New("selection changed during analysis; response discarded")
