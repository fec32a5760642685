package chat

import (
	"fmt"
	"strings"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

const (
	responseHeader = "Based on the retrieved documents, here's what I found:"

	noMatchesMessage = "I couldn't find relevant information in the uploaded documents for your query. " +
		"Please try rephrasing your question or upload more documents."

	noDocumentsMessage = "No documents have been uploaded yet. " +
		"Please upload a document before asking questions."

	upstreamFailureMessage = "Sorry, I encountered an error while processing your question. " +
		"Please make sure the vector store is running and documents are properly indexed."

	unscoredPlaceholder = "N/A"
)

// AssembledResponse is a formatted answer with its deduplicated source list.
type AssembledResponse struct {
	Text    string
	Sources []string
}

// Assemble formats ranked passages into the final response text. It is a
// pure function of its inputs. An empty store takes precedence over an
// empty passage list: with no documents ever ingested the user is told to
// upload first, whatever the passages argument claims.
func Assemble(query string, passages []entity.RetrievedPassage, storeEmpty bool) AssembledResponse {
	if storeEmpty {
		return AssembledResponse{Text: noDocumentsMessage}
	}
	if len(passages) == 0 {
		return AssembledResponse{Text: noMatchesMessage}
	}

	var b strings.Builder
	b.WriteString(responseHeader)

	var sources []string
	seen := make(map[string]bool)
	for _, p := range passages {
		score := unscoredPlaceholder
		if p.Scored {
			score = fmt.Sprintf("%.3f", p.Score)
		}
		fmt.Fprintf(&b, "\n\n**From %s (Relevance: %s):**\n%s", p.Source, score, p.Text)

		if p.Source != "" && !seen[p.Source] {
			seen[p.Source] = true
			sources = append(sources, p.Source)
		}
	}

	return AssembledResponse{Text: b.String(), Sources: sources}
}
