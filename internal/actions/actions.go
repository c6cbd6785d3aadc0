// Package actions decides what can be done with a selected result and
// carries it out: clipboard copies, handing a release to the external
// torrent client, or asking Prowlarr to grab it into a download client.
package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/litescript/prowlarr-tui/internal/prowlarr"
	"github.com/litescript/prowlarr-tui/internal/scraper"
)

// Kind identifies an action.
type Kind int

const (
	CopyDownloadURL Kind = iota
	CopyMagnet
	CopyInfoURL
	OpenInClient
	SendToDownloadClient
	Back
	BackToMain
)

var kindLabels = map[Kind]string{
	CopyDownloadURL:      "Copy download URL",
	CopyMagnet:           "Copy magnet link",
	CopyInfoURL:          "Copy info URL",
	OpenInClient:         "Open in torrent client",
	SendToDownloadClient: "Send to download client",
	Back:                 "Back to results",
	BackToMain:           "Back to main menu",
}

func (k Kind) String() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Navigational reports whether the action only moves between screens.
func (k Kind) Navigational() bool {
	return k == Back || k == BackToMain
}

// Transfers reports whether the action starts a download somewhere.
func (k Kind) Transfers() bool {
	return k == OpenInClient || k == SendToDownloadClient
}

// Action is one entry of the detail menu.
type Action struct {
	Kind  Kind
	Label string
}

// Capabilities describes what the session can do besides reading results.
type Capabilities struct {
	Clipboard      bool
	ExternalClient bool
	DownloadClient bool
}

// Available returns the actions offered for r, in menu order.
// It depends only on which fields of r are populated and on caps.
func Available(r prowlarr.SearchResult, caps Capabilities) []Action {
	var kinds []Kind

	if caps.Clipboard {
		if r.DownloadURL != "" {
			kinds = append(kinds, CopyDownloadURL)
		}
		if r.MagnetURL != "" {
			kinds = append(kinds, CopyMagnet)
		}
		if r.InfoURL != "" {
			kinds = append(kinds, CopyInfoURL)
		}
	}
	if caps.ExternalClient && r.IsTorrent() &&
		(r.MagnetURL != "" || r.DownloadURL != "" || r.InfoURL != "") {
		kinds = append(kinds, OpenInClient)
	}
	if caps.DownloadClient && r.GUID != "" {
		kinds = append(kinds, SendToDownloadClient)
	}
	kinds = append(kinds, Back, BackToMain)

	out := make([]Action, len(kinds))
	for i, k := range kinds {
		out[i] = Action{Kind: k, Label: k.String()}
	}
	return out
}

// Error is returned when an action fails.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Gateway is the part of the Prowlarr client the dispatcher uses.
type Gateway interface {
	SendToDownloadClient(ctx context.Context, payload prowlarr.ReleasePayload) error
}

// ExternalClient accepts magnet or torrent URLs.
type ExternalClient interface {
	AddURLs(ctx context.Context, urls ...string) error
}

// Dispatcher executes actions. Nil collaborators disable the actions that
// need them.
type Dispatcher struct {
	Gateway          Gateway
	External         ExternalClient
	Finder           scraper.Finder
	Copy             func(string) error
	DownloadClientID int
	PreferMagnet     bool
}

// Run executes one action and returns a status message for the user.
func (d *Dispatcher) Run(ctx context.Context, kind Kind, r prowlarr.SearchResult) (string, error) {
	msg, err := d.run(ctx, kind, r)
	if err != nil {
		return "", &Error{Kind: kind, Err: err}
	}
	return msg, nil
}

func (d *Dispatcher) run(ctx context.Context, kind Kind, r prowlarr.SearchResult) (string, error) {
	switch kind {
	case CopyDownloadURL:
		return d.copy(r.DownloadURL, "Download URL")
	case CopyMagnet:
		return d.copy(r.MagnetURL, "Magnet link")
	case CopyInfoURL:
		return d.copy(r.InfoURL, "Info URL")
	case OpenInClient:
		return d.openInClient(ctx, r)
	case SendToDownloadClient:
		return d.sendToDownloadClient(ctx, r)
	}
	return "", fmt.Errorf("%s is not executable", kind)
}

func (d *Dispatcher) copy(value, what string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("result has no %s", what)
	}
	if d.Copy == nil {
		return "", errors.New("clipboard unavailable")
	}
	if err := d.Copy(value); err != nil {
		return "", err
	}
	return what + " copied to clipboard", nil
}

func (d *Dispatcher) openInClient(ctx context.Context, r prowlarr.SearchResult) (string, error) {
	if d.External == nil {
		return "", errors.New("no torrent client configured")
	}

	target, err := d.externalURL(ctx, r)
	if err != nil {
		return "", err
	}
	if err := d.External.AddURLs(ctx, target); err != nil {
		return "", err
	}
	return "Sent to torrent client: " + r.Title, nil
}

// externalURL picks what to hand to the torrent client. The info page is
// scanned for a magnet only when the result carries neither URL.
func (d *Dispatcher) externalURL(ctx context.Context, r prowlarr.SearchResult) (string, error) {
	first, second := r.DownloadURL, r.MagnetURL
	if d.PreferMagnet {
		first, second = second, first
	}
	if first != "" {
		return first, nil
	}
	if second != "" {
		return second, nil
	}

	if r.InfoURL == "" || d.Finder == nil {
		return "", errors.New("result has no magnet or download URL")
	}
	m, err := d.Finder.FindMagnet(ctx, r.InfoURL)
	if err != nil {
		return "", fmt.Errorf("magnet lookup: %w", err)
	}
	return m.URI, nil
}

func (d *Dispatcher) sendToDownloadClient(ctx context.Context, r prowlarr.SearchResult) (string, error) {
	if d.Gateway == nil {
		return "", errors.New("not connected")
	}
	if r.GUID == "" {
		return "", errors.New("result has no guid")
	}

	err := d.Gateway.SendToDownloadClient(ctx, prowlarr.ReleasePayload{
		GUID:             r.GUID,
		IndexerID:        r.IndexerID,
		DownloadClientID: d.DownloadClientID,
	})
	if err != nil {
		return "", err
	}
	return "Sent to download client: " + r.Title, nil
}
