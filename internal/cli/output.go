// Package cli provides CLI output utilities for eiyo.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/eiyo/internal/models"
	"github.com/hyperjump/eiyo/pkg/utils"
)

// AnswerOutputFormat is the format for answer output.
type AnswerOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText AnswerOutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON AnswerOutputFormat = "json"
)

// WriteAnswer writes a chat response to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteAnswer(w io.Writer, response *models.ChatResponse, format AnswerOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeAnswerText(w, response)
		return nil
	}
}

func writeAnswerText(w io.Writer, response *models.ChatResponse) {
	fmt.Fprintf(w, "\n%s\n", response.Answer)
	if len(response.Sources) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSources (%d):\n", len(response.Sources))
	for i, src := range response.Sources {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "[%d] Page: %s | Similarity: %.1f%%\n", i+1, src.Page, src.Similarity*100)
		fmt.Fprintf(w, "%s\n", utils.Truncate(src.Content, 200))
	}
	fmt.Fprintln(w)
}
