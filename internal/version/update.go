package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// UpdateInfo contains information about available updates.
type UpdateInfo struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
}

// GitHubRelease represents the GitHub API response for releases.
type GitHubRelease struct {
	TagName string `json:"tag_name"`
}

// GitHubTag is one entry of the tags listing.
type GitHubTag struct {
	Name string `json:"name"`
}

// Checker queries GitHub for newer releases.
type Checker struct {
	BaseURL string // https://api.github.com by default
	Client  *http.Client
}

// NewChecker returns a checker against api.github.com.
func NewChecker() *Checker {
	return &Checker{
		BaseURL: "https://api.github.com",
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Check looks up the latest release, falling back to tags when the
// repository has no releases.
func (c *Checker) Check(ctx context.Context) (UpdateInfo, error) {
	info := UpdateInfo{CurrentVersion: Version}

	var release GitHubRelease
	status, err := c.getJSON(ctx, "/repos/"+Repo+"/releases/latest", &release)
	if err != nil {
		return info, err
	}

	if status != http.StatusOK {
		var tags []GitHubTag
		status, err = c.getJSON(ctx, "/repos/"+Repo+"/tags", &tags)
		if err != nil {
			return info, err
		}
		if status != http.StatusOK {
			return info, fmt.Errorf("failed to check for updates: status %d", status)
		}
		if len(tags) == 0 {
			info.LatestVersion = info.CurrentVersion
			return info, nil
		}
		// Tags are returned newest first
		release.TagName = tags[0].Name
	}

	info.LatestVersion = normalizeVersion(release.TagName)
	info.UpdateAvailable = isNewerVersion(info.LatestVersion, info.CurrentVersion)
	return info, nil
}

// getJSON decodes the body only on 200 and returns the status either way.
func (c *Checker) getJSON(ctx context.Context, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse update response: %w", err)
	}
	return resp.StatusCode, nil
}

// normalizeVersion strips the "v" prefix if present.
func normalizeVersion(v string) string {
	return strings.TrimPrefix(v, "v")
}

// isNewerVersion returns true if latest is newer than current.
func isNewerVersion(latest, current string) bool {
	latestParts := strings.Split(latest, ".")
	currentParts := strings.Split(current, ".")

	for i := 0; i < len(latestParts) && i < len(currentParts); i++ {
		var latestNum, currentNum int
		fmt.Sscanf(latestParts[i], "%d", &latestNum)
		fmt.Sscanf(currentParts[i], "%d", &currentNum)

		if latestNum > currentNum {
			return true
		} else if latestNum < currentNum {
			return false
		}
	}

	return len(latestParts) > len(currentParts)
}

// InstallCommand returns the command to update the application.
func InstallCommand() string {
	return "go install github.com/" + Repo + "/cmd/prowlarr-tui@latest"
}
