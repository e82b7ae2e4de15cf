package cli

import (
	"fmt"
	"io"
	"strings"

	"legal-sentiment/internal/widget"
)

const noResultsPlaceholder = "Upload documents to see analysis results here."

func renderView(w io.Writer, v widget.View) {
	if len(v.Files) > 0 {
		fmt.Fprintln(w, "Selected Files:")
		for _, name := range v.Files {
			fmt.Fprintf(w, "  - %s\n", name)
		}
		fmt.Fprintln(w)
	}

	if v.Error != "" {
		fmt.Fprintf(w, "Error: %s\n\n", v.Error)
	}

	fmt.Fprintln(w, "Analysis Results")
	if len(v.Results) == 0 {
		fmt.Fprintln(w, noResultsPlaceholder)
		return
	}

	for i, r := range v.Results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", r.Filename)
		if r.Failed() {
			fmt.Fprintf(w, "  Error: %s\n", r.Error)
			continue
		}
		fmt.Fprintf(w, "  Sentiment: %s\n", r.Sentiment)
		fmt.Fprintln(w, "  Summary:")
		for _, line := range strings.Split(r.Summary, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}
