package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"

// PageFinder fetches an info page and returns its first magnet link.
type PageFinder struct {
	client *http.Client
}

// NewPageFinder creates a finder with the given request timeout.
func NewPageFinder(timeout time.Duration) *PageFinder {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PageFinder{
		client: &http.Client{Timeout: timeout},
	}
}

// FindMagnet implements Finder.
func (f *PageFinder) FindMagnet(ctx context.Context, pageURL string) (Magnet, error) {
	if pageURL == "" {
		return Magnet{}, fmt.Errorf("no info page for this release")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return Magnet{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return Magnet{}, fmt.Errorf("fetch info page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Magnet{}, fmt.Errorf("fetch info page: HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Magnet{}, fmt.Errorf("parse info page: %w", err)
	}

	var found Magnet
	doc.Find("a[href]").EachWithBreak(func(i int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		m, ok := ParseMagnet(strings.TrimSpace(href))
		if !ok {
			return true
		}
		found = m
		if found.Name == "" {
			found.Name = strings.TrimSpace(link.Text())
		}
		return false
	})

	if found.URI == "" {
		return Magnet{}, ErrNoMagnet
	}
	return found, nil
}
