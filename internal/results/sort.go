// Package results holds the in-memory result pipeline: sorting, filtering,
// the view over a search and row formatting. Nothing here mutates a
// result sequence in place; every operation returns a new slice.
package results

import (
	"fmt"
	"sort"
	"strings"

	"github.com/litescript/prowlarr-tui/internal/prowlarr"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names an ordering of search results.
type SortKey string

const (
	SortNone                SortKey = ""
	SortSeedersDesc         SortKey = "seeders_desc"
	SortSeedersAsc          SortKey = "seeders_asc"
	SortSizeDesc            SortKey = "size_desc"
	SortSizeAsc             SortKey = "size_asc"
	SortDateDesc            SortKey = "date_desc"
	SortDateAsc             SortKey = "date_asc"
	SortTitleAsc            SortKey = "title_asc"
	SortTitleDesc           SortKey = "title_desc"
	SortProtocol            SortKey = "protocol"
	SortIndexerPriorityDesc SortKey = "indexer_priority_desc"
	SortIndexerPriorityAsc  SortKey = "indexer_priority_asc"
)

// SortKeys lists every key in picker order.
var SortKeys = []SortKey{
	SortSeedersDesc, SortSeedersAsc,
	SortSizeDesc, SortSizeAsc,
	SortDateDesc, SortDateAsc,
	SortTitleAsc, SortTitleDesc,
	SortProtocol,
	SortIndexerPriorityDesc, SortIndexerPriorityAsc,
}

var sortLabels = map[SortKey]string{
	SortSeedersDesc:         "Seeders (high to low)",
	SortSeedersAsc:          "Seeders (low to high)",
	SortSizeDesc:            "Size (largest first)",
	SortSizeAsc:             "Size (smallest first)",
	SortDateDesc:            "Date (newest first)",
	SortDateAsc:             "Date (oldest first)",
	SortTitleAsc:            "Title (A-Z)",
	SortTitleDesc:           "Title (Z-A)",
	SortProtocol:            "Protocol (usenet first)",
	SortIndexerPriorityDesc: "Indexer priority (high to low)",
	SortIndexerPriorityAsc:  "Indexer priority (low to high)",
}

// Label returns a human readable name for the key.
func (k SortKey) Label() string {
	if l, ok := sortLabels[k]; ok {
		return l
	}
	return "Unsorted"
}

// ParseSortKey validates a stored sort order.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(s))
	if _, ok := sortLabels[k]; !ok {
		return SortNone, fmt.Errorf("unknown sort order %q", s)
	}
	return k, nil
}

// Sort returns a sorted copy of rs. Equal elements keep their relative
// order in both directions. indexers is only consulted for the priority keys.
func Sort(rs []prowlarr.SearchResult, key SortKey, indexers []prowlarr.Indexer) []prowlarr.SearchResult {
	out := make([]prowlarr.SearchResult, len(rs))
	copy(out, rs)

	cmp, desc := comparator(key, indexers)
	if cmp == nil {
		return out
	}

	if desc {
		sort.SliceStable(out, func(i, j int) bool { return cmp(out[j], out[i]) < 0 })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) < 0 })
	}
	return out
}

type compareFunc func(a, b prowlarr.SearchResult) int

func comparator(key SortKey, indexers []prowlarr.Indexer) (compareFunc, bool) {
	switch key {
	case SortSeedersAsc, SortSeedersDesc:
		return func(a, b prowlarr.SearchResult) int {
			return compareInt64(int64(a.SeederCount()), int64(b.SeederCount()))
		}, key == SortSeedersDesc
	case SortSizeAsc, SortSizeDesc:
		return func(a, b prowlarr.SearchResult) int {
			return compareInt64(a.SizeBytes(), b.SizeBytes())
		}, key == SortSizeDesc
	case SortDateAsc, SortDateDesc:
		return func(a, b prowlarr.SearchResult) int {
			return a.PublishedAt().Compare(b.PublishedAt())
		}, key == SortDateDesc
	case SortTitleAsc, SortTitleDesc:
		// Collator is not safe for concurrent use; one per sort.
		col := collate.New(language.English)
		return func(a, b prowlarr.SearchResult) int {
			return col.CompareString(a.Title, b.Title)
		}, key == SortTitleDesc
	case SortProtocol:
		return func(a, b prowlarr.SearchResult) int {
			return compareInt64(protocolRank(a), protocolRank(b))
		}, false
	case SortIndexerPriorityAsc, SortIndexerPriorityDesc:
		priorities := priorityIndex(indexers)
		return func(a, b prowlarr.SearchResult) int {
			return compareInt64(int64(priorities[a.Indexer]), int64(priorities[b.Indexer]))
		}, key == SortIndexerPriorityDesc
	}
	return nil, false
}

func protocolRank(r prowlarr.SearchResult) int64 {
	if r.Protocol == prowlarr.ProtocolUsenet {
		return 0
	}
	return 1
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// PriorityOf returns the priority of the named indexer, 0 when unknown.
func PriorityOf(indexers []prowlarr.Indexer, name string) int {
	for _, idx := range indexers {
		if idx.Name == name {
			return idx.Priority
		}
	}
	return 0
}

func priorityIndex(indexers []prowlarr.Indexer) map[string]int {
	m := make(map[string]int, len(indexers))
	for _, idx := range indexers {
		if _, seen := m[idx.Name]; !seen {
			m[idx.Name] = idx.Priority
		}
	}
	return m
}
