package results

import "github.com/litescript/prowlarr-tui/internal/prowlarr"

// View is the displayed state of one search. The original sequence is
// kept untouched so filters and "show all" always start from it.
// A View is a plain value; copying it is a cheap snapshot because the
// underlying slices are never written after creation.
type View struct {
	original []prowlarr.SearchResult
	display  []prowlarr.SearchResult
	filtered bool
	query    string
	sortKey  SortKey
}

// NewView creates a view showing rs in source order.
func NewView(rs []prowlarr.SearchResult) View {
	return View{original: rs, display: rs}
}

func (v View) Original() []prowlarr.SearchResult { return v.original }
func (v View) Display() []prowlarr.SearchResult { return v.display }
func (v View) Len() int { return len(v.display) }
func (v View) Filtered() bool { return v.filtered }
func (v View) Query() string { return v.query }
func (v View) SortKey() SortKey { return v.sortKey }

// At returns the i-th displayed result.
func (v View) At(i int) (prowlarr.SearchResult, bool) {
	if i < 0 || i >= len(v.display) {
		return prowlarr.SearchResult{}, false
	}
	return v.display[i], true
}

// Sort reorders the current display.
func (v *View) Sort(key SortKey, indexers []prowlarr.Indexer) {
	v.display = Sort(v.display, key, indexers)
	v.sortKey = key
}

// Filter replaces the display with the matches of query against the
// original sequence and returns the match count. With no matches the
// display is left as it was.
func (v *View) Filter(query string) int {
	matches := Filter(v.original, query)
	if len(matches) == 0 {
		return 0
	}
	v.display = matches
	v.filtered = true
	v.query = query
	v.sortKey = SortNone
	return len(matches)
}

// ShowAll restores the original sequence.
func (v *View) ShowAll() {
	v.display = v.original
	v.filtered = false
	v.query = ""
	v.sortKey = SortNone
}

// Pages returns the number of pages of size perPage, at least 1.
func (v View) Pages(perPage int) int {
	if perPage <= 0 || len(v.display) == 0 {
		return 1
	}
	return (len(v.display) + perPage - 1) / perPage
}

// Page returns the slice of the display for a zero-based page, plus the
// index of its first element.
func (v View) Page(page, perPage int) ([]prowlarr.SearchResult, int) {
	if perPage <= 0 {
		return v.display, 0
	}
	start := page * perPage
	if start < 0 || start >= len(v.display) {
		return nil, 0
	}
	end := min(start+perPage, len(v.display))
	return v.display[start:end], start
}
