package results

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ReleaseKind is what a release title appears to contain.
type ReleaseKind int

const (
	ReleaseUnknown ReleaseKind = iota
	ReleaseMovie
	ReleaseEpisode
	ReleaseSeason
)

func (k ReleaseKind) String() string {
	switch k {
	case ReleaseMovie:
		return "Movie"
	case ReleaseEpisode:
		return "TV episode"
	case ReleaseSeason:
		return "TV season"
	}
	return "Unknown"
}

// Release is the information recovered from a scene-style release title.
type Release struct {
	Kind       ReleaseKind
	Name       string
	Year       int
	Season     int
	Episode    int
	Resolution string
}

var (
	// S01E02, s1e2
	episodePattern = regexp.MustCompile(`(?i)\bS(\d{1,2})E(\d{1,3})\b`)
	// 1x02
	crossPattern = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)
	// S01 or Season 1 alone
	seasonPattern = regexp.MustCompile(`(?i)\b(?:S|Season[ ._-]?)(\d{1,2})\b`)
	yearPattern   = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	resPattern    = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|576p|480p|4k)\b`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// ParseRelease inspects a release title. Episode markers win over season
// markers, which win over a year.
func ParseRelease(title string) Release {
	r := Release{}
	if m := resPattern.FindString(title); m != "" {
		r.Resolution = strings.ToLower(m)
		if r.Resolution == "4k" {
			r.Resolution = "2160p"
		}
	}

	for _, p := range []*regexp.Regexp{episodePattern, crossPattern} {
		if loc := p.FindStringSubmatchIndex(title); loc != nil {
			r.Kind = ReleaseEpisode
			r.Season, _ = strconv.Atoi(title[loc[2]:loc[3]])
			r.Episode, _ = strconv.Atoi(title[loc[4]:loc[5]])
			r.Name = cleanName(title[:loc[0]])
			return r
		}
	}

	if loc := seasonPattern.FindStringSubmatchIndex(title); loc != nil && loc[0] > 0 {
		r.Kind = ReleaseSeason
		r.Season, _ = strconv.Atoi(title[loc[2]:loc[3]])
		r.Name = cleanName(title[:loc[0]])
		return r
	}

	// the last year wins: "2001 A Space Odyssey 1968"
	if locs := yearPattern.FindAllStringIndex(title, -1); locs != nil {
		loc := locs[len(locs)-1]
		if name := cleanName(title[:loc[0]]); name != "" {
			r.Kind = ReleaseMovie
			r.Year, _ = strconv.Atoi(title[loc[0]:loc[1]])
			r.Name = name
			return r
		}
	}

	r.Name = cleanName(title)
	return r
}

// Summary renders the release for the detail screen, empty when unknown.
func (r Release) Summary() string {
	var s string
	switch r.Kind {
	case ReleaseMovie:
		s = fmt.Sprintf("%s (%d)", r.Name, r.Year)
	case ReleaseEpisode:
		s = fmt.Sprintf("%s S%02dE%02d", r.Name, r.Season, r.Episode)
	case ReleaseSeason:
		s = fmt.Sprintf("%s season %d", r.Name, r.Season)
	default:
		return ""
	}
	if r.Resolution != "" {
		s += " · " + r.Resolution
	}
	return r.Kind.String() + ": " + s
}

// cleanName turns dots and underscores into spaces and drops trailing
// separators left before a marker.
func cleanName(raw string) string {
	s := strings.NewReplacer(".", " ", "_", " ").Replace(raw)
	s = strings.TrimRight(s, " -([{")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
