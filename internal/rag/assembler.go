package rag

import (
	"strings"

	"github.com/hyperjump/eiyo/internal/models"
)

// ContextSeparator delimits passages inside the assembled context block. The
// blank lines around the rule keep passage boundaries unambiguous to the model.
const ContextSeparator = "\n\n---\n\n"

// Assemble joins the retrieved passages into a single context block and builds
// the matching citation list. Passage order is preserved, so citation i
// describes the i-th segment of the block. Assembly is total: any non-empty
// passage list produces a block, however marginal the similarity scores.
func Assemble(passages []*models.Passage) (string, []models.Citation) {
	if len(passages) == 0 {
		return "", nil
	}

	parts := make([]string, len(passages))
	citations := make([]models.Citation, len(passages))
	for i, p := range passages {
		parts[i] = p.Content
		citations[i] = models.Citation{
			Index:      i + 1,
			Page:       p.PageLabel(),
			Content:    p.Content,
			Similarity: p.Similarity,
		}
	}
	return strings.Join(parts, ContextSeparator), citations
}
