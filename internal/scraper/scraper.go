// Package scraper resolves magnet links from release info pages.
// Some indexers only publish a page URL; the magnet sits somewhere in the
// HTML and is found with a selector scan.
package scraper

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// ErrNoMagnet is returned when a page holds no magnet link.
var ErrNoMagnet = errors.New("no magnet link found on page")

// Magnet is a parsed magnet URI.
type Magnet struct {
	URI      string
	Name     string
	InfoHash string
}

// Finder looks up the magnet link for a release info page.
type Finder interface {
	FindMagnet(ctx context.Context, pageURL string) (Magnet, error)
}

// ParseMagnet extracts the display name and btih hash from a magnet URI.
// ok is false when uri is not a magnet link.
func ParseMagnet(uri string) (m Magnet, ok bool) {
	if !strings.HasPrefix(strings.ToLower(uri), "magnet:?") {
		return Magnet{}, false
	}
	m.URI = uri

	values, err := url.ParseQuery(uri[len("magnet:?"):])
	if err != nil {
		// Fall back to the raw dn slice for badly escaped links
		m.Name = rawParam(uri, "dn=")
		return m, true
	}

	m.Name = values.Get("dn")
	for _, xt := range values["xt"] {
		if hash, found := strings.CutPrefix(xt, "urn:btih:"); found {
			m.InfoHash = strings.ToLower(hash)
			break
		}
	}
	return m, true
}

func rawParam(uri, key string) string {
	idx := strings.Index(uri, key)
	if idx == -1 {
		return ""
	}
	v := uri[idx+len(key):]
	if end := strings.IndexByte(v, '&'); end != -1 {
		v = v[:end]
	}
	return strings.ReplaceAll(v, "+", " ")
}
