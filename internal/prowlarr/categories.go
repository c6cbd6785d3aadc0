package prowlarr

// Category is a top-level Newznab category offered in the search menu.
type Category struct {
	Key   string
	Label string
	ID    int // 0 means all categories
}

// adult releases live in 6000-6999
const (
	adultMin = 6000
	adultMax = 7000
)

// SearchCategories lists the menu categories in order. Keys match config.Categories.
var SearchCategories = []Category{
	{Key: "all", Label: "All"},
	{Key: "movies", Label: "Movies", ID: 2000},
	{Key: "tv", Label: "TV", ID: 5000},
	{Key: "audio", Label: "Audio", ID: 3000},
	{Key: "pc", Label: "PC", ID: 4000},
	{Key: "console", Label: "Console", ID: 1000},
	{Key: "xxx", Label: "XXX", ID: adultMin},
	{Key: "books", Label: "Books", ID: 7000},
	{Key: "other", Label: "Other", ID: 8000},
}

// IsAdult reports whether the category is the adult category.
func (c Category) IsAdult() bool {
	return c.ID >= adultMin && c.ID < adultMax
}

// IDs returns the query ids for the category, nil for "all".
func (c Category) IDs() []int {
	if c.ID == 0 {
		return nil
	}
	return []int{c.ID}
}

// MenuCategories returns the categories to offer, hiding adult when disabled.
func MenuCategories(showAdult bool) []Category {
	out := make([]Category, 0, len(SearchCategories))
	for _, c := range SearchCategories {
		if !showAdult && c.IsAdult() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// WithoutAdult drops results carrying any adult category.
// The input is not modified.
func WithoutAdult(results []SearchResult) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.Categories.Contains(adultMin, adultMax) {
			continue
		}
		out = append(out, r)
	}
	return out
}
