// Package catalog owns the curated list of movies and shows and keeps the
// local mirror in step with the remote store.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes movies from TV shows. Values match TMDB media types.
type Kind string

const (
	KindMovie Kind = "movie"
	KindShow  Kind = "tv"
)

// ParseKind accepts the TMDB media type plus a few common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return KindMovie, nil
	case "tv", "show", "shows", "series":
		return KindShow, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

// ProviderID is a TMDB identifier. It decodes from JSON strings or numbers.
type ProviderID string

// UnmarshalJSON accepts both "603" and 603.
func (p *ProviderID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ProviderID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("provider id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*p = ProviderID(strconv.FormatInt(i, 10))
		return nil
	}
	*p = ProviderID(n.String())
	return nil
}

// NormalizeID trims an identifier the same way decoding does.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// Source is one playable variant of a title.
type Source struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// legacyQuality is assigned when an entry only carries a bare url.
const legacyQuality = "Default"

// Movie is a catalog entry for a film.
type Movie struct {
	TMDBID  ProviderID `json:"tmdbId"`
	Sources []Source   `json:"sources"`
}

// UnmarshalJSON promotes a legacy "url" field into a single source.
func (m *Movie) UnmarshalJSON(data []byte) error {
	var raw struct {
		TMDBID  ProviderID `json:"tmdbId"`
		Sources []Source   `json:"sources"`
		URL     string     `json:"url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.TMDBID = raw.TMDBID
	m.Sources = raw.Sources
	if len(m.Sources) == 0 && raw.URL != "" {
		m.Sources = []Source{{Quality: legacyQuality, URL: raw.URL}}
	}
	return nil
}

// ID returns the provider ID as a string.
func (m Movie) ID() string { return string(m.TMDBID) }

// Show is a catalog entry for a TV series.
type Show struct {
	TMDBID  ProviderID `json:"tmdbId"`
	Seasons []Season   `json:"seasons"`
}

// ID returns the provider ID as a string.
func (s Show) ID() string { return string(s.TMDBID) }

// EpisodeCount returns the number of episodes across all seasons.
func (s Show) EpisodeCount() int {
	n := 0
	for _, season := range s.Seasons {
		n += len(season.Episodes)
	}
	return n
}

// Season groups episodes by season number.
type Season struct {
	Number   int       `json:"season_number"`
	Episodes []Episode `json:"episodes"`
}

// Episode holds the sources for one episode.
type Episode struct {
	Number  int      `json:"episode_number"`
	Sources []Source `json:"sources"`
}

// UnmarshalJSON promotes a legacy "url" field into a single source.
func (e *Episode) UnmarshalJSON(data []byte) error {
	var raw struct {
		Number  int      `json:"episode_number"`
		Sources []Source `json:"sources"`
		URL     string   `json:"url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Number = raw.Number
	e.Sources = raw.Sources
	if len(e.Sources) == 0 && raw.URL != "" {
		e.Sources = []Source{{Quality: legacyQuality, URL: raw.URL}}
	}
	return nil
}

// Snapshot is the full catalog: the mirror contents, the export format and
// the import document.
type Snapshot struct {
	Movies []Movie `json:"movies"`
	Shows  []Show  `json:"tv"`
}

// Len returns the number of entries of both kinds.
func (s Snapshot) Len() int { return len(s.Movies) + len(s.Shows) }

// Clone returns a deep copy. Nil slices become empty so JSON output is stable.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Movies: make([]Movie, len(s.Movies)),
		Shows:  make([]Show, len(s.Shows)),
	}
	for i, m := range s.Movies {
		out.Movies[i] = m.Clone()
	}
	for i, sh := range s.Shows {
		out.Shows[i] = sh.Clone()
	}
	return out
}

// Clone returns a deep copy of the movie.
func (m Movie) Clone() Movie {
	return Movie{TMDBID: m.TMDBID, Sources: cloneSources(m.Sources)}
}

// Clone returns a deep copy of the show.
func (s Show) Clone() Show {
	out := Show{TMDBID: s.TMDBID, Seasons: make([]Season, len(s.Seasons))}
	for i, season := range s.Seasons {
		out.Seasons[i] = season.Clone()
	}
	return out
}

// Clone returns a deep copy of the season.
func (s Season) Clone() Season {
	out := Season{Number: s.Number, Episodes: make([]Episode, len(s.Episodes))}
	for i, ep := range s.Episodes {
		out.Episodes[i] = Episode{Number: ep.Number, Sources: cloneSources(ep.Sources)}
	}
	return out
}

func cloneSources(src []Source) []Source {
	out := make([]Source, len(src))
	copy(out, src)
	return out
}
