package hydrate

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/streamiz/internal/catalog"
)

// ErrNoMatch is returned by ResolveTitle when no result is similar enough.
var ErrNoMatch = errors.New("no matching title")

// minMatchScore is the lowest Jaro-Winkler similarity accepted as a match.
const minMatchScore = 0.70

var yearSuffix = regexp.MustCompile(`\s*\((\d{4})\)\s*$`)

// Match is the search result chosen for a title query.
type Match struct {
	TMDBID string  `json:"tmdbId"`
	Title  string  `json:"title"`
	Year   int     `json:"year,omitempty"`
	Score  float64 `json:"score"`
}

// ResolveTitle searches for query and returns the result whose title is most
// similar to it. A trailing year, as in "Heat (1995)", is used to break ties
// between remakes.
func (h *Hydrator) ResolveTitle(ctx context.Context, query string, kind catalog.Kind) (Match, error) {
	title, year := splitYear(query)
	page, err := h.Search(ctx, title, kind, 1)
	if err != nil {
		return Match{}, err
	}

	want := cleanTitle(title)
	var best Match
	for _, r := range page.Results {
		score := float64(edlib.JaroWinklerSimilarity(want, cleanTitle(r.DisplayTitle())))
		ry := resultYear(r.ReleaseDate, r.FirstAirDate)
		if year != 0 && ry != 0 {
			if ry == year {
				score = min(score*1.05, 1.0)
			} else {
				score *= 0.90
			}
		}
		if score > best.Score {
			best = Match{
				TMDBID: strconv.FormatInt(r.ID, 10),
				Title:  r.DisplayTitle(),
				Year:   ry,
				Score:  score,
			}
		}
	}

	if best.Score < minMatchScore {
		return Match{}, ErrNoMatch
	}
	return best, nil
}

func splitYear(q string) (string, int) {
	m := yearSuffix.FindStringSubmatchIndex(q)
	if m == nil || m[0] == 0 {
		return strings.TrimSpace(q), 0
	}
	year, _ := strconv.Atoi(q[m[2]:m[3]])
	return strings.TrimSpace(q[:m[0]]), year
}

func resultYear(dates ...string) int {
	for _, d := range dates {
		if len(d) >= 4 {
			if y, err := strconv.Atoi(d[:4]); err == nil {
				return y
			}
		}
	}
	return 0
}

// cleanTitle lowercases, strips accents and punctuation and drops a leading
// article so "The Matrix" and "matrix" compare equal.
func cleanTitle(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	if len(fields) > 1 {
		switch fields[0] {
		case "the", "a", "an":
			fields = fields[1:]
		}
	}
	return strings.Join(fields, " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
