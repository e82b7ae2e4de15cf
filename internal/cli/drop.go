package cli

import (
	"legal-sentiment/internal/logger"
	"legal-sentiment/internal/widget"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type dropOptions struct {
	depth int
}

// newDropCmd replays a drag-and-drop gesture over a drop zone nested depth
// elements deep, then submits whatever the drop selected. Useful to check the
// drop path end to end against a live service.
func newDropCmd(root *rootOptions) *cobra.Command {
	opts := &dropOptions{}
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "drop <file> [file...]",
		Short: "Drop files onto the upload zone and submit them",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := newSession(cmd, root)
			replayDrop(session, widget.LocalFiles(args...), opts.depth)
			return submitAndRender(cmd, session, out)
		},
	}

	cmd.Flags().IntVar(&opts.depth, "depth", 3, "Number of nested elements the pointer crosses before dropping")
	cmd.Flags().BoolVar(&out.asJSON, "json", false, "Print the results as JSON")
	return cmd
}

// replayDrop enters every nested element of the zone, wanders back out of the
// innermost one and in again, and drops there.
func replayDrop(session *widget.Session, files widget.Selection, depth int) {
	if depth < 1 {
		depth = 1
	}

	for i := 0; i < depth; i++ {
		session.OnDragEnter(len(files))
		session.OnDragOver()
	}
	session.OnDragLeave()
	session.OnDragEnter(len(files))

	if !session.OnDragOver() {
		return
	}
	logger.WithFields(logrus.Fields{
		"depth":    depth,
		"files":    len(files),
		"dragging": session.View().IsDragging,
	}).Debug("Dropping files")

	session.OnDrop(files)
}
