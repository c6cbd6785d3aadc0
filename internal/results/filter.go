package results

import (
	"strings"

	"github.com/litescript/prowlarr-tui/internal/prowlarr"
	"golang.org/x/text/cases"
)

// Filter returns the results whose title contains query, compared after
// Unicode case folding. Source order is kept. An empty query matches all.
func Filter(rs []prowlarr.SearchResult, query string) []prowlarr.SearchResult {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))

	out := make([]prowlarr.SearchResult, 0, len(rs))
	for _, r := range rs {
		if strings.Contains(fold.String(r.Title), needle) {
			out = append(out, r)
		}
	}
	return out
}
