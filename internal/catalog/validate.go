package catalog

import "strings"

// Validate checks a movie is ready to persist.
func (m Movie) Validate() error {
	if m.ID() == "" {
		return invalidf("tmdbId is required")
	}
	if len(m.Sources) == 0 {
		return invalidf("movie %s: at least one source is required", m.ID())
	}
	return validateSources(m.Sources, "movie "+m.ID())
}

// Validate checks a show is ready to persist.
func (s Show) Validate() error {
	if s.ID() == "" {
		return invalidf("tmdbId is required")
	}
	if len(s.Seasons) == 0 {
		return invalidf("show %s: at least one season is required", s.ID())
	}
	seen := make(map[int]bool, len(s.Seasons))
	for _, season := range s.Seasons {
		if season.Number <= 0 {
			return invalidf("show %s: season number must be positive, got %d", s.ID(), season.Number)
		}
		if seen[season.Number] {
			return invalidf("show %s: duplicate season %d", s.ID(), season.Number)
		}
		seen[season.Number] = true
		if len(season.Episodes) == 0 {
			return invalidf("show %s season %d: at least one episode is required", s.ID(), season.Number)
		}
		eps := make(map[int]bool, len(season.Episodes))
		for _, ep := range season.Episodes {
			where := "show " + s.ID() + " " + episodeLabel(season.Number, ep.Number)
			if ep.Number <= 0 {
				return invalidf("%s: episode number must be positive", where)
			}
			if eps[ep.Number] {
				return invalidf("%s: duplicate episode", where)
			}
			eps[ep.Number] = true
			if len(ep.Sources) == 0 {
				return invalidf("%s: at least one source is required", where)
			}
			if err := validateSources(ep.Sources, where); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSources(sources []Source, where string) error {
	for i, src := range sources {
		if strings.TrimSpace(src.URL) == "" {
			return invalidf("%s: source %d has no url", where, i)
		}
	}
	return nil
}
