package catalog

import "fmt"

func episodeLabel(season, episode int) string {
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

// mergeShow overlays incoming onto existing at episode granularity.
// Matching episodes are replaced, new episodes and seasons are appended and
// existing seasons missing from incoming are kept. Neither argument is modified.
func mergeShow(existing *Show, incoming Show) Show {
	if existing == nil {
		return incoming.Clone()
	}
	merged := existing.Clone()
	merged.TMDBID = incoming.TMDBID

	for _, in := range incoming.Seasons {
		idx := seasonIndex(merged.Seasons, in.Number)
		if idx < 0 {
			merged.Seasons = append(merged.Seasons, in.Clone())
			continue
		}
		season := &merged.Seasons[idx]
		for _, ep := range in.Episodes {
			ep = Episode{Number: ep.Number, Sources: cloneSources(ep.Sources)}
			if j := episodeIndex(season.Episodes, ep.Number); j >= 0 {
				season.Episodes[j] = ep
			} else {
				season.Episodes = append(season.Episodes, ep)
			}
		}
	}
	return merged
}

func seasonIndex(seasons []Season, number int) int {
	for i, s := range seasons {
		if s.Number == number {
			return i
		}
	}
	return -1
}

func episodeIndex(episodes []Episode, number int) int {
	for i, e := range episodes {
		if e.Number == number {
			return i
		}
	}
	return -1
}

func movieIndex(movies []Movie, id string) int {
	for i, m := range movies {
		if m.ID() == id {
			return i
		}
	}
	return -1
}

func showIndex(shows []Show, id string) int {
	for i, s := range shows {
		if s.ID() == id {
			return i
		}
	}
	return -1
}

// withMovie returns a new slice with m replacing the entry of the same ID,
// or appended when there is none.
func withMovie(movies []Movie, m Movie) []Movie {
	out := make([]Movie, len(movies), len(movies)+1)
	copy(out, movies)
	if i := movieIndex(out, m.ID()); i >= 0 {
		out[i] = m
		return out
	}
	return append(out, m)
}

func withShow(shows []Show, s Show) []Show {
	out := make([]Show, len(shows), len(shows)+1)
	copy(out, shows)
	if i := showIndex(out, s.ID()); i >= 0 {
		out[i] = s
		return out
	}
	return append(out, s)
}

// withoutMovie returns a new slice lacking id and whether it was present.
func withoutMovie(movies []Movie, id string) ([]Movie, bool) {
	out := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if m.ID() != id {
			out = append(out, m)
		}
	}
	return out, len(out) != len(movies)
}

func withoutShow(shows []Show, id string) ([]Show, bool) {
	out := make([]Show, 0, len(shows))
	for _, s := range shows {
		if s.ID() != id {
			out = append(out, s)
		}
	}
	return out, len(out) != len(shows)
}

// mergeSnapshots combines a remote snapshot with the local mirror. Remote
// entries win by ID; local entries missing remotely are kept after them.
// It returns the merged snapshot and the number of local-only entries kept.
func mergeSnapshots(remote, local Snapshot) (Snapshot, int) {
	merged := remote.Clone()
	kept := 0

	remoteMovies := make(map[string]bool, len(remote.Movies))
	for _, m := range remote.Movies {
		remoteMovies[m.ID()] = true
	}
	for _, m := range local.Movies {
		if m.ID() == "" || remoteMovies[m.ID()] {
			continue
		}
		merged.Movies = append(merged.Movies, m.Clone())
		kept++
	}

	remoteShows := make(map[string]bool, len(remote.Shows))
	for _, s := range remote.Shows {
		remoteShows[s.ID()] = true
	}
	for _, s := range local.Shows {
		if s.ID() == "" || remoteShows[s.ID()] {
			continue
		}
		merged.Shows = append(merged.Shows, s.Clone())
		kept++
	}

	return merged, kept
}
