package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"legal-sentiment/internal/client"
	"legal-sentiment/internal/models"
	"legal-sentiment/internal/widget"

	"github.com/spf13/cobra"
)

type outputOptions struct {
	asJSON bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file> [file...]",
		Short: "Select files and submit them for analysis",
		Long: `Select the given files, in order, and submit them as one analysis request.

Per-file failures (unsupported type, unreadable document) are shown next to the
file and do not fail the command. A rejected or unreachable request does.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := newSession(cmd, root)
			session.SetSelection(widget.LocalFiles(args...))
			return submitAndRender(cmd, session, out)
		},
	}

	cmd.Flags().BoolVar(&out.asJSON, "json", false, "Print the results as JSON")
	return cmd
}

func newSession(cmd *cobra.Command, root *rootOptions) *widget.Session {
	session := widget.NewSession(client.New(root.cfg.AnalyzeURL))
	session.OnChange(newBusyIndicator(cmd.ErrOrStderr()).Update)
	return session
}

func submitAndRender(cmd *cobra.Command, session *widget.Session, out *outputOptions) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := session.Submit(ctx)
	view := session.View()

	if out.asJSON {
		if encErr := writeJSON(cmd.OutOrStdout(), view); encErr != nil {
			return encErr
		}
	} else {
		renderView(cmd.OutOrStdout(), view)
	}
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

type jsonView struct {
	Files   []string                `json:"files"`
	Error   string                  `json:"error,omitempty"`
	Results []models.AnalysisResult `json:"results"`
}

func writeJSON(w io.Writer, v widget.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonView{Files: v.Files, Error: v.Error, Results: v.Results})
}
